// Package cli is the interactive terminal frontend. It owns no business
// logic: every command delegates to the cards service or the storage
// engine and prints the result.
package cli

import (
	"bufio"
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/cardguard/internal/auth"
	"github.com/dmitrijs2005/cardguard/internal/cards"
	"github.com/dmitrijs2005/cardguard/internal/common"
	"github.com/dmitrijs2005/cardguard/internal/config"
	"github.com/dmitrijs2005/cardguard/internal/logging"
	"github.com/dmitrijs2005/cardguard/internal/ocr"
	"github.com/dmitrijs2005/cardguard/internal/security"
	"github.com/dmitrijs2005/cardguard/internal/storage"
	"github.com/dmitrijs2005/cardguard/internal/storage/local"
	"github.com/dmitrijs2005/cardguard/internal/storage/remote"
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

type App struct {
	config  *config.Config
	store   storage.Storage
	svc     *cards.Service
	lock    *security.Manager
	extract ocr.Extractor
	log     logging.Logger
	Mode    Mode
	reader  *bufio.Reader
}

// NewApp selects and opens the storage engine, loads the lock state and
// wires the card service. The engine choice is made exactly once here;
// nothing downstream knows which backend it talks to.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, mode, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	lock, err := security.NewManager(security.NewFileConfigStore(cfg.LockConfigPath))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		config:  cfg,
		store:   store,
		svc:     cards.NewService(store, lock, log),
		lock:    lock,
		extract: ocr.Null{},
		log:     log,
		Mode:    mode,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// openStore picks the engine from configuration: a remote DSN selects the
// hosted backend, otherwise the on-device store is used. There is no
// fallback from one to the other; a misconfigured remote fails loudly.
func openStore(ctx context.Context, cfg *config.Config, log logging.Logger) (storage.Storage, Mode, error) {
	if cfg.RemoteEnabled() {
		sessions := auth.NewTokenProvider(cfg.SessionToken, cfg.SessionSecret)
		s, err := remote.Open(ctx, cfg, sessions, log)
		if err != nil {
			return nil, ModeRemote, err
		}
		return s, ModeRemote, nil
	}

	s, err := local.Open(ctx, cfg.DatabasePath, log)
	if err != nil {
		return nil, ModeLocal, err
	}
	return s, ModeLocal, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) getStatus() string {
	s := string(a.Mode)
	if a.lock.Enabled() {
		if a.lock.Unlocked() {
			s += " unlocked"
		} else {
			s += " locked"
		}
	}
	return "(" + s + ")"
}

// friendlyError flattens the error kinds the storage layer reports into
// messages a user can act on.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return "not found"
	case errors.Is(err, common.ErrUnauthenticated):
		return "not authenticated: check session token"
	case errors.Is(err, common.ErrStorageUnavailable):
		return "storage unavailable: another instance may be running"
	case errors.Is(err, common.ErrLocked):
		return "app is locked: run 'unlock' first"
	case errors.Is(err, common.ErrVerificationFailed):
		return "wrong PIN"
	default:
		return err.Error()
	}
}
