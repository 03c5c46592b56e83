// Package config loads runtime configuration for the vaultx client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with VAULTX_. A .env file in the working
//     directory is loaded first when present.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string    data directory (local database and document copies)
//	-m string    storage mode: auto, local or cloud
//	-dsn string  cloud metadata database DSN
//	-i int       auto-sync interval (seconds)
//	-log string  log file; empty logs to stderr
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "30s" or integer
// nanoseconds:
//
//	{
//	  "data_dir": "/home/me/.vaultx",
//	  "mode": "auto",
//	  "cloud_dsn": "postgres://vaultx@localhost/vaultx",
//	  "s3": {"bucket": "documents", "region": "us-east-1"},
//	  "sync_interval": "30s",
//	  "signed_url_ttl": "1h"
//	}
//
// Only keys present in the file override earlier values.
package config
