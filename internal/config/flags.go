package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/cardguard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-p string   local database path
//	-l string   app-lock config path
//	-d string   remote PostgreSQL DSN (presence selects the remote engine)
//	-t string   session token
//	-s string   session token secret
//	-u string   S3 access key
//	-w string   S3 secret key
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// Arguments are first filtered through flagx.FilterArgs so parsing never
// collides with flags owned by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-l", "-d", "-t", "-s", "-u", "-w", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "p", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LockConfigPath, "l", cfg.LockConfigPath, "app-lock config path")
	fs.StringVar(&cfg.RemoteDatabaseDSN, "d", cfg.RemoteDatabaseDSN, "remote database DSN")
	fs.StringVar(&cfg.SessionToken, "t", cfg.SessionToken, "session token")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "session token secret")
	fs.StringVar(&cfg.S3AccessKey, "u", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "w", cfg.S3SecretKey, "S3 secret key")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
