// Package localdb owns the on-device SQLite database. The database is opened
// and migrated on first use; concurrent first users share one initialisation.
package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/vaultx/internal/client/migrations"
	"github.com/dmitrijs2005/vaultx/internal/logging"
	"github.com/pressly/goose/v3"
	"golang.org/x/sync/singleflight"

	_ "modernc.org/sqlite"
)

// Store is the explicitly owned handle to the local database.
type Store struct {
	dsn string
	log logging.Logger

	mu    sync.Mutex
	db    *sql.DB
	group singleflight.Group
	opens int
}

func New(dsn string, log logging.Logger) *Store {
	return &Store{dsn: dsn, log: log}
}

// DB returns the initialised database, opening and migrating it on the first
// call. A failed initialisation is not cached, so the next caller retries.
func (s *Store) DB(ctx context.Context) (*sql.DB, error) {
	if db := s.current(); db != nil {
		return db, nil
	}

	v, err, _ := s.group.Do("init", func() (any, error) {
		if db := s.current(); db != nil {
			return db, nil
		}

		db, err := s.open(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.db = db
		s.opens++
		s.mu.Unlock()

		s.log.Info(ctx, "local store ready", "dsn", s.dsn)
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sql.DB), nil
}

func (s *Store) current() *sql.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	// one connection serialises writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure local store: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return db, nil
}

// Close releases the database if it was ever opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// RunMigrations applies the embedded schema migrations. Running it again on
// an up-to-date database is a no-op.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}
