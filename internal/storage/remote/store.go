// Package remote implements the hosted storage engine: entity rows live in
// PostgreSQL, scoped by an owner-id column, and binary payloads live in an
// S3-compatible bucket. The contract is identical to the local engine's;
// the one addition is that every operation requires an authenticated
// session and fails with common.ErrUnauthenticated without one.
package remote

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/cardguard/internal/auth"
	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/dmitrijs2005/cardguard/internal/config"
	"github.com/dmitrijs2005/cardguard/internal/logging"
	"github.com/dmitrijs2005/cardguard/internal/storage/remote/migrations"
)

// Store is the remote engine. It satisfies storage.Storage and
// storage.AvatarStore.
type Store struct {
	db       *sql.DB
	blobs    *BlobStore
	sessions auth.Provider
	log      logging.Logger
}

// Open connects to the remote database, brings the schema up to date and
// prepares the blob client. Connection failures surface as
// common.ErrStorageUnavailable.
func Open(ctx context.Context, cfg *config.Config, sessions auth.Provider, log logging.Logger) (*Store, error) {
	db, err := sql.Open("pgx", cfg.RemoteDatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	blobs, err := NewBlobStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info(ctx, "remote store ready")
	return &Store{db: db, blobs: blobs, sessions: sessions, log: log}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// owner resolves the current session's owner id. Every public operation
// goes through this gate first; nothing partial runs without it.
func (s *Store) owner(ctx context.Context) (string, error) {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return "", err
	}
	return sess.UserID, nil
}

// Blob key layout. The legacy single-image object lives directly at the
// card key; multi-attachment objects are nested one level below it.
func cardKey(userID, cardID string) string {
	return "cards/" + userID + "/" + cardID
}

func attachmentKey(userID, cardID, attachmentID string) string {
	return cardKey(userID, cardID) + "/" + attachmentID
}

func attachmentPrefix(userID, cardID string) string {
	return cardKey(userID, cardID) + "/"
}

func avatarPrefix(profileID string) string {
	return "avatars/" + profileID + "/"
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Reset is deliberately a no-op for the remote engine: hosted data is
// never destroyed from the client. The destructive-recovery path only
// applies to the on-device store.
func (s *Store) Reset(ctx context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
