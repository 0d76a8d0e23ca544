// Package config handles runtime configuration: struct defaults, an
// optional .env / environment overlay, then command-line flags. Later
// sources win.
//
// Whether the remote storage engine is active is decided here, once, at
// load time: a non-empty remote DSN selects the remote engine for the whole
// process lifetime. There is no runtime toggle.
package config

// Config holds runtime settings for CardGuard.
//
// Fields:
//   - DatabasePath: path of the local SQLite store.
//   - LockConfigPath: path of the app-lock JSON file (kept outside the store).
//   - RemoteDatabaseDSN: PostgreSQL DSN (pgx); non-empty enables the remote engine.
//   - SessionToken / SessionSecret: owner-identity token issued by the external
//     authentication provider and the HMAC secret to validate it.
//   - S3AccessKey / S3SecretKey / S3Bucket / S3Region / S3BaseEndpoint:
//     object storage settings for remote attachments and avatars.
type Config struct {
	DatabasePath   string
	LockConfigPath string

	RemoteDatabaseDSN string
	SessionToken      string
	SessionSecret     string

	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with local-only development defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "cardguard.db"
	c.LockConfigPath = "cardguard.lock.json"
	c.S3Bucket = "card-images"
	c.S3Region = "us-east-1"
}

// RemoteEnabled reports whether the remote engine should be used. The
// decision is made from configuration presence alone.
func (c *Config) RemoteEnabled() bool {
	return c.RemoteDatabaseDSN != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment (optionally seeded from a .env file) and finally
// from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
