// Package local implements the on-device storage engine: a single SQLite
// database holding cards, attachments, profiles, renewal providers, the
// card-kind vocabulary and settings. Schema versions are managed by goose
// migrations embedded in the binary; upgrades are additive and never drop
// existing partitions.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/dmitrijs2005/cardguard/internal/logging"
	"github.com/dmitrijs2005/cardguard/internal/storage/local/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Store is the local engine. It satisfies storage.Storage.
type Store struct {
	db   *sql.DB
	path string
	log  logging.Logger
}

// Open opens (or creates) the database at path and brings the schema up to
// the current version. A database locked by a concurrent connection is
// surfaced as common.ErrStorageUnavailable — never retried silently, since
// a second writer during an upgrade risks corruption.
func Open(ctx context.Context, path string, log logging.Logger) (*Store, error) {
	db, err := openAndMigrate(ctx, path)
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "local store ready", "path", path)
	return &Store{db: db, path: path, log: log}, nil
}

func openAndMigrate(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	// One connection: pragmas are per-connection state, and a single
	// writer at a time is all the local engine ever needs.
	db.SetMaxOpenConns(1)

	// Fail fast on a concurrently held write lock instead of queueing
	// behind it indefinitely.
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout=5000`); err != nil {
		_ = db.Close()
		return nil, classifyStoreErr(err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, classifyStoreErr(err)
	}

	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// classifyStoreErr maps driver-level open/upgrade failures onto the
// storage-unavailable error kind the application layer keys its recovery
// flow on.
func classifyStoreErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "unable to open database") {
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return err
}

// Reset destroys the entire store, including all indexes, and recreates an
// empty schema. Used only as an explicit, user-confirmed recovery action.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing store for reset: %w", err)
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing database file: %w", err)
		}
	}

	db, err := openAndMigrate(ctx, s.path)
	if err != nil {
		return err
	}
	s.db = db

	s.log.Warn(ctx, "local store reset", "path", s.path)
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
