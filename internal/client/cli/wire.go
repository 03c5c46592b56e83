package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/vaultx/internal/client/auth"
	"github.com/dmitrijs2005/vaultx/internal/client/config"
	"github.com/dmitrijs2005/vaultx/internal/client/localdb"
	"github.com/dmitrijs2005/vaultx/internal/client/opener"
	"github.com/dmitrijs2005/vaultx/internal/client/picker"
	"github.com/dmitrijs2005/vaultx/internal/client/repositories/documents"
	"github.com/dmitrijs2005/vaultx/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vaultx/internal/client/services"
	clouddocs "github.com/dmitrijs2005/vaultx/internal/cloud/documents"
	"github.com/dmitrijs2005/vaultx/internal/cloud/objects"
	"github.com/dmitrijs2005/vaultx/internal/filex"
	"github.com/dmitrijs2005/vaultx/internal/logging"
	"github.com/dmitrijs2005/vaultx/internal/netx"
)

const (
	documentsDir = "documents"
	databaseFile = "vault.db"
)

// writable is a test seam for filex.Writable.
var writable = filex.Writable

// resolveMode turns ModeAuto into a concrete mode: local when the data
// directory can hold the database, cloud otherwise.
func resolveMode(m config.Mode, dataDir string) config.Mode {
	if m != config.ModeAuto {
		return m
	}
	if writable(dataDir) {
		return config.ModeLocal
	}
	return config.ModeCloud
}

// NewApp is the composition root: it picks the storage mode and wires the
// stores and services for it. The caller owns the returned App and must
// Close it.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	mode := resolveMode(cfg.Mode, cfg.DataDir)
	a := newApp(cfg, mode, log)

	verifier, err := newVerifier(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	deps := services.CloudDeps{Opener: opener.NewSystem(), SignedURLTTL: cfg.SignedURLTTL}
	if err := a.wireCloud(ctx, &deps); err != nil {
		if mode == config.ModeCloud {
			_ = a.Close()
			return nil, err
		}
		log.Warn(ctx, "cloud unavailable, continuing on device only", "err", err)
	}
	a.probe = newProbe(cfg, deps.Cloud != nil, a)

	switch mode {
	case config.ModeLocal:
		if err := a.wireLocal(cfg, verifier, deps); err != nil {
			_ = a.Close()
			return nil, err
		}
	case config.ModeCloud:
		if deps.Cloud == nil {
			_ = a.Close()
			return nil, fmt.Errorf("cloud mode needs cloud_dsn and an S3 bucket: %w", services.ErrCloudDisabled)
		}
		a.auth = services.NewAuthService(verifier, metadata.NewMemoryRepository(), log)
		deps.Identity = a.auth
		a.docs = services.NewCloudDocumentService(picker.BytesPicker{}, deps, log)
	default:
		_ = a.Close()
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}

	log.Info(ctx, "client ready", "mode", mode, "cloud", deps.Cloud != nil)
	return a, nil
}

func (a *App) wireLocal(cfg *config.Config, verifier auth.Verifier, deps services.CloudDeps) error {
	docsDir, err := filex.EnsureSubDir(cfg.DataDir, documentsDir)
	if err != nil {
		return fmt.Errorf("prepare documents directory: %w", err)
	}

	store := localdb.New(filepath.Join(cfg.DataDir, databaseFile), a.log)
	a.closers = append(a.closers, store.Close)

	local := documents.NewSQLiteRepository(store)
	a.auth = services.NewAuthService(verifier, metadata.NewSQLiteRepository(store), a.log)
	deps.Identity = a.auth
	a.docs = services.NewLocalDocumentService(local, picker.NewDevicePicker(docsDir), deps, a.log)

	if deps.Cloud != nil {
		syncer := services.NewSyncer(a.auth, local, deps.Cloud, deps.Objects, a.log)
		a.auto = services.NewAutoSync(a.probe, local, syncer, cfg.SyncInterval, a.log)
	}
	return nil
}

// wireCloud connects the cloud metadata database and the object store. It
// leaves deps untouched when the cloud is not configured.
func (a *App) wireCloud(ctx context.Context, deps *services.CloudDeps) error {
	cfg := a.config
	if !cfg.CloudEnabled() {
		return nil
	}

	db, err := clouddocs.Open(ctx, cfg.CloudDSN, cfg.CloudMigrate)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, db.Close)

	store, err := objects.NewS3Store(ctx, objects.Config{
		Bucket:       cfg.S3.Bucket,
		Region:       cfg.S3.Region,
		Endpoint:     cfg.S3.Endpoint,
		AccessKey:    cfg.S3.AccessKey,
		SecretKey:    cfg.S3.SecretKey,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
	if err != nil {
		return err
	}

	deps.Cloud = clouddocs.NewPostgresRepository(db)
	deps.Objects = store
	return nil
}

func newVerifier(ctx context.Context, cfg *config.Config, log logging.Logger) (auth.Verifier, error) {
	if cfg.JWKSURL != "" {
		v, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL)
		if err != nil {
			return nil, fmt.Errorf("load JWKS: %w", err)
		}
		return v, nil
	}
	if cfg.JWTSecret == "" {
		log.Warn(ctx, "no jwt_secret or jwks_url configured, sign-in will fail")
	}
	return auth.NewHMACVerifier([]byte(cfg.JWTSecret)), nil
}

// newProbe prefers the gRPC health endpoint, then an HTTP HEAD against the
// object store. Without a cloud only the interface scan runs.
func newProbe(cfg *config.Config, cloud bool, a *App) netx.Probe {
	if !cloud {
		return netx.NewChecker(nil, 0)
	}

	var reacher netx.Reacher
	switch {
	case cfg.HealthEndpoint != "":
		conn, err := netx.DialHealth(cfg.HealthEndpoint)
		if err != nil {
			a.log.Warn(context.Background(), "bad health endpoint", "endpoint", cfg.HealthEndpoint, "err", err)
			return netx.Always{Connected: true}
		}
		a.closers = append(a.closers, conn.Close)
		reacher = netx.NewGRPCHealthReacher(conn, cfg.HealthService)
	case cfg.S3.Endpoint != "":
		reacher = netx.HTTPReacher{URL: cfg.S3.Endpoint}
	default:
		reacher = netx.HTTPReacher{URL: fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.S3.Region)}
	}
	return netx.NewChecker(reacher, cfg.ProbeTimeout)
}
