package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "VAULTX_"

// parseEnv overlays Config with VAULTX_* variables. A .env file, if present,
// is loaded first and never overrides variables already set.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.DataDir, "DATA_DIR")
	if v, ok := lookup("MODE"); ok {
		if m, err := ParseMode(v); err == nil {
			cfg.Mode = m
		}
	}
	setString(&cfg.CloudDSN, "CLOUD_DSN")
	setBool(&cfg.CloudMigrate, "CLOUD_MIGRATE")

	setString(&cfg.S3.Bucket, "S3_BUCKET")
	setString(&cfg.S3.Region, "S3_REGION")
	setString(&cfg.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.S3.SecretKey, "S3_SECRET_KEY")
	setBool(&cfg.S3.UsePathStyle, "S3_PATH_STYLE")

	setString(&cfg.HealthEndpoint, "HEALTH_ENDPOINT")
	setString(&cfg.HealthService, "HEALTH_SERVICE")

	setDuration(&cfg.SyncInterval, "SYNC_INTERVAL")
	setDuration(&cfg.ProbeTimeout, "PROBE_TIMEOUT")
	setDuration(&cfg.SignedURLTTL, "SIGNED_URL_TTL")

	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.JWKSURL, "JWKS_URL")

	setString(&cfg.LogFile, "LOG_FILE")
	setString(&cfg.LogLevel, "LOG_LEVEL")
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func setBool(dst *bool, name string) {
	if v, ok := lookup(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, name string) {
	if v, ok := lookup(name); ok {
		if d, err := parseDuration(v); err == nil {
			*dst = d
		}
	}
}

// parseDuration accepts Go duration strings ("30s") or plain seconds ("30").
func parseDuration(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return time.Duration(n) * time.Second, nil
}
