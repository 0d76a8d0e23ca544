package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading a
// .env file first when one is present. A missing .env file is not an error.
func parseEnv(cfg *Config) {
	envFile := os.Getenv("CARDGUARD_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	applyEnv(cfg, os.LookupEnv)
}

// applyEnv is split out so tests can inject a lookup function.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(target *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*target = v
		}
	}

	set(&cfg.DatabasePath, "CARDGUARD_DB_PATH")
	set(&cfg.LockConfigPath, "CARDGUARD_LOCK_PATH")
	set(&cfg.RemoteDatabaseDSN, "CARDGUARD_REMOTE_DSN")
	set(&cfg.SessionToken, "CARDGUARD_SESSION_TOKEN")
	set(&cfg.SessionSecret, "CARDGUARD_SESSION_SECRET")
	set(&cfg.S3AccessKey, "CARDGUARD_S3_ACCESS_KEY")
	set(&cfg.S3SecretKey, "CARDGUARD_S3_SECRET_KEY")
	set(&cfg.S3Bucket, "CARDGUARD_S3_BUCKET")
	set(&cfg.S3Region, "CARDGUARD_S3_REGION")
	set(&cfg.S3BaseEndpoint, "CARDGUARD_S3_ENDPOINT")
}
