package security

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cardguard/internal/common"
)

// Manager is the explicit security context for the process. It owns the
// persisted LockConfig and, while unlocked, the in-memory notes key.
//
// State machine: Disabled → Enabled-Locked (Setup), Enabled-Locked →
// Enabled-Unlocked (Unlock), Enabled-Unlocked → Enabled-Locked (Lock),
// Enabled-* → Disabled (Disable). Lock wipes the key synchronously and
// fires every registered on-lock hook so callers can drop cached plaintext
// in the same transition.
type Manager struct {
	mu     sync.Mutex
	store  ConfigStore
	cfg    LockConfig
	key    []byte
	onLock []func()
}

// NewManager loads the persisted lock config and starts in the locked
// state regardless of what happened in a previous process.
func NewManager(store ConfigStore) (*Manager, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Manager{store: store, cfg: cfg}, nil
}

// Enabled reports whether an app-lock PIN is configured.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Enabled
}

// Unlocked reports whether the notes key is currently held in memory.
func (m *Manager) Unlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key != nil
}

// Config returns a copy of the persisted lock config.
func (m *Manager) Config() LockConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// Setup enables the lock with the given PIN. It stores a fresh salt and
// verifier but deliberately does not derive or cache the encryption key;
// the user must unlock explicitly.
func (m *Manager) Setup(pin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saltB64, verifierB64 := CreatePinVerifier(pin)
	cfg := LockConfig{Enabled: true, PinSaltB64: saltB64, PinVerifierB64: verifierB64}
	if err := m.store.Save(cfg); err != nil {
		return fmt.Errorf("saving lock config: %w", err)
	}
	m.cfg = cfg
	return nil
}

// Unlock verifies the PIN against the stored verifier and, on success,
// derives the notes key and holds it in memory. Derivation is slow by
// design; call it off any latency-sensitive path.
func (m *Manager) Unlock(pin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cfg.Enabled {
		return common.ErrLockNotEnabled
	}
	if !VerifyPin(pin, m.cfg) {
		return common.ErrVerificationFailed
	}

	key, err := DeriveNotesKey(pin, m.cfg.PinSaltB64)
	if err != nil {
		return err
	}
	m.key = key
	return nil
}

// Lock discards the in-memory key and notifies every on-lock hook. It is
// called on explicit lock and on loss of foreground visibility; holding
// decrypted state past this point is a privacy bug, so hooks run
// synchronously before Lock returns.
func (m *Manager) Lock() {
	m.mu.Lock()
	common.WipeByteArray(m.key)
	m.key = nil
	hooks := make([]func(), len(m.onLock))
	copy(hooks, m.onLock)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Disable turns the lock off and clears the persisted salt/verifier. Notes
// already encrypted stay encrypted and become unreadable until the lock is
// re-enabled with the same PIN; no plaintext migration is attempted.
func (m *Manager) Disable() error {
	m.Lock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.cfg = LockConfig{}
	return nil
}

// Key returns the in-memory notes key, or ErrLocked when the lock is
// engaged. Callers must not retain the slice across a lock transition.
func (m *Manager) Key() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key == nil {
		return nil, common.ErrLocked
	}
	return m.key, nil
}

// OnLock registers fn to run synchronously on every lock transition.
// Typically used by view state holding decrypted notes.
func (m *Manager) OnLock(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLock = append(m.onLock, fn)
}
