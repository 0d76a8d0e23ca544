package security

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LockConfig is the persisted app-lock state. It never contains the PIN or
// a derived key, only the salt and the one-way verifier.
type LockConfig struct {
	Enabled        bool   `json:"enabled"`
	PinSaltB64     string `json:"pinSaltB64,omitempty"`
	PinVerifierB64 string `json:"pinVerifierB64,omitempty"`
}

// ConfigStore persists a LockConfig outside the main record store.
type ConfigStore interface {
	Load() (LockConfig, error)
	Save(LockConfig) error
	Clear() error
}

// FileConfigStore keeps the lock config as a small JSON file, typically
// next to the local database.
type FileConfigStore struct {
	path string
}

func NewFileConfigStore(path string) *FileConfigStore {
	return &FileConfigStore{path: path}
}

// Load reads the config file. A missing file yields the zero (disabled)
// config, not an error.
func (s *FileConfigStore) Load() (LockConfig, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return LockConfig{}, nil
	}
	if err != nil {
		return LockConfig{}, fmt.Errorf("reading lock config: %w", err)
	}

	var cfg LockConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return LockConfig{}, fmt.Errorf("parsing lock config: %w", err)
	}
	return cfg, nil
}

func (s *FileConfigStore) Save(cfg LockConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding lock config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing lock config: %w", err)
	}
	return nil
}

func (s *FileConfigStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing lock config: %w", err)
	}
	return nil
}
