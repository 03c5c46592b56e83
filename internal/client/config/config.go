package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Mode string

const (
	// ModeAuto picks local when the data directory is writable, else cloud.
	ModeAuto  Mode = "auto"
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeLocal, ModeCloud:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Config holds runtime settings for the vaultx client.
type Config struct {
	DataDir string
	Mode    Mode

	// CloudDSN points at the cloud metadata database. Empty disables every
	// cloud feature.
	CloudDSN     string
	CloudMigrate bool
	S3           S3Config

	// HealthEndpoint is a gRPC address answering the standard health
	// protocol. When empty, reachability is an HTTP HEAD against the object
	// store endpoint.
	HealthEndpoint string
	HealthService  string

	SyncInterval time.Duration
	ProbeTimeout time.Duration
	SignedURLTTL time.Duration

	// JWTSecret verifies HS256 session tokens; JWKSURL, when set, is used
	// instead.
	JWTSecret string
	JWKSURL   string

	LogFile  string
	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.Mode = ModeAuto
	c.CloudMigrate = true
	c.S3.Region = "us-east-1"
	c.SyncInterval = 30 * time.Second
	c.ProbeTimeout = 5 * time.Second
	c.SignedURLTTL = time.Hour
	c.LogLevel = "info"
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "vaultx")
	}
	return ".vaultx"
}

// CloudEnabled reports whether enough is configured to reach the cloud.
func (c *Config) CloudEnabled() bool {
	return c.CloudDSN != "" && c.S3.Bucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func mask(s string) string {
	if s == "" {
		return "(empty)"
	}
	return "********"
}

// String renders the configuration with secrets masked.
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  DataDir: %s\n", c.DataDir)
	fmt.Fprintf(&sb, "  Mode: %s\n", c.Mode)
	fmt.Fprintf(&sb, "  CloudDSN: %s\n", mask(c.CloudDSN))
	fmt.Fprintf(&sb, "  S3Bucket: %s\n", c.S3.Bucket)
	fmt.Fprintf(&sb, "  S3Region: %s\n", c.S3.Region)
	fmt.Fprintf(&sb, "  S3Endpoint: %s\n", c.S3.Endpoint)
	fmt.Fprintf(&sb, "  S3AccessKey: %s\n", mask(c.S3.AccessKey))
	fmt.Fprintf(&sb, "  S3SecretKey: %s\n", mask(c.S3.SecretKey))
	fmt.Fprintf(&sb, "  HealthEndpoint: %s\n", c.HealthEndpoint)
	fmt.Fprintf(&sb, "  SyncInterval: %s\n", c.SyncInterval)
	fmt.Fprintf(&sb, "  SignedURLTTL: %s\n", c.SignedURLTTL)
	fmt.Fprintf(&sb, "  JWTSecret: %s\n", mask(c.JWTSecret))
	fmt.Fprintf(&sb, "  JWKSURL: %s\n", c.JWKSURL)
	fmt.Fprintf(&sb, "  LogFile: %s\n", c.LogFile)
	return sb.String()
}
