package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/vaultx/internal/flagx"
	"github.com/dmitrijs2005/vaultx/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell "absent" apart from "zero" so a file only overrides what it names.
type JsonConfig struct {
	DataDir      *string `json:"data_dir"`
	Mode         *string `json:"mode"`
	CloudDSN     *string `json:"cloud_dsn"`
	CloudMigrate *bool   `json:"cloud_migrate"`

	S3 *struct {
		Bucket       *string `json:"bucket"`
		Region       *string `json:"region"`
		Endpoint     *string `json:"endpoint"`
		AccessKey    *string `json:"access_key"`
		SecretKey    *string `json:"secret_key"`
		UsePathStyle *bool   `json:"use_path_style"`
	} `json:"s3"`

	HealthEndpoint *string `json:"health_endpoint"`
	HealthService  *string `json:"health_service"`

	SyncInterval *timex.Duration `json:"sync_interval"`
	ProbeTimeout *timex.Duration `json:"probe_timeout"`
	SignedURLTTL *timex.Duration `json:"signed_url_ttl"`

	JWTSecret *string `json:"jwt_secret"`
	JWKSURL   *string `json:"jwks_url"`

	LogFile  *string `json:"log_file"`
	LogLevel *string `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. Without the flag nothing happens. Read and decode errors
// panic, as do unknown modes.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	set(&cfg.DataDir, jc.DataDir)
	if jc.Mode != nil {
		m, err := ParseMode(*jc.Mode)
		if err != nil {
			panic(err)
		}
		cfg.Mode = m
	}
	set(&cfg.CloudDSN, jc.CloudDSN)
	set(&cfg.CloudMigrate, jc.CloudMigrate)

	if s3 := jc.S3; s3 != nil {
		set(&cfg.S3.Bucket, s3.Bucket)
		set(&cfg.S3.Region, s3.Region)
		set(&cfg.S3.Endpoint, s3.Endpoint)
		set(&cfg.S3.AccessKey, s3.AccessKey)
		set(&cfg.S3.SecretKey, s3.SecretKey)
		set(&cfg.S3.UsePathStyle, s3.UsePathStyle)
	}

	set(&cfg.HealthEndpoint, jc.HealthEndpoint)
	set(&cfg.HealthService, jc.HealthService)

	setDur(&cfg.SyncInterval, jc.SyncInterval)
	setDur(&cfg.ProbeTimeout, jc.ProbeTimeout)
	setDur(&cfg.SignedURLTTL, jc.SignedURLTTL)

	set(&cfg.JWTSecret, jc.JWTSecret)
	set(&cfg.JWKSURL, jc.JWKSURL)
	set(&cfg.LogFile, jc.LogFile)
	set(&cfg.LogLevel, jc.LogLevel)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDur(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
