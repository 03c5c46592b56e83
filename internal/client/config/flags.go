package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/vaultx/internal/flagx"
)

var cliFlags = []string{"-d", "-m", "-dsn", "-bucket", "-s3-endpoint", "-health", "-i", "-log", "-level"}

// parseFlags overlays Config with command-line flags. Only the flags listed in
// cliFlags are looked at, so -c and unknown arguments pass through untouched.
// A malformed value panics, as with the JSON file.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("vaultx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory holding vault.db and documents/")
	fs.Func("m", "storage mode: auto, local or cloud", func(v string) error {
		m, err := ParseMode(v)
		if err == nil {
			cfg.Mode = m
		}
		return err
	})
	fs.StringVar(&cfg.CloudDSN, "dsn", cfg.CloudDSN, "cloud metadata database DSN")
	fs.StringVar(&cfg.S3.Bucket, "bucket", cfg.S3.Bucket, "object storage bucket")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "S3-compatible endpoint URL")
	fs.StringVar(&cfg.HealthEndpoint, "health", cfg.HealthEndpoint, "gRPC health endpoint used as reachability probe")
	fs.Func("i", "auto-sync interval, seconds or duration", func(v string) error {
		d, err := parseDuration(v)
		if err == nil {
			cfg.SyncInterval = d
		}
		return err
	})
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "level", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], cliFlags)); err != nil {
		panic(err)
	}
}
