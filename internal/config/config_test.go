package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "cardguard.db", cfg.DatabasePath)
	assert.Equal(t, "cardguard.lock.json", cfg.LockConfigPath)
	assert.Empty(t, cfg.RemoteDatabaseDSN)
	assert.False(t, cfg.RemoteEnabled())
}

func TestApplyEnv_Overlay(t *testing.T) {
	env := map[string]string{
		"CARDGUARD_DB_PATH":    "/tmp/cards.db",
		"CARDGUARD_REMOTE_DSN": "postgres://u:p@host/db",
		"CARDGUARD_S3_BUCKET":  "my-bucket",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	applyEnv(cfg, lookup)

	assert.Equal(t, "/tmp/cards.db", cfg.DatabasePath)
	assert.Equal(t, "postgres://u:p@host/db", cfg.RemoteDatabaseDSN)
	assert.Equal(t, "my-bucket", cfg.S3Bucket)
	// Untouched fields keep their defaults.
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.True(t, cfg.RemoteEnabled())
}

func TestApplyEnv_EmptyValueKeepsDefault(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "CARDGUARD_DB_PATH" {
			return "", true
		}
		return "", false
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	applyEnv(cfg, lookup)

	assert.Equal(t, "cardguard.db", cfg.DatabasePath)
}
