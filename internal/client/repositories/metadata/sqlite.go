package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultx/internal/common"
	"github.com/dmitrijs2005/vaultx/internal/dbx"
)

const (
	selectValue = `SELECT value FROM metadata WHERE key = ?`
	upsertValue = `INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	deleteKey = `DELETE FROM metadata WHERE key = ?`
)

// SQLiteRepository stores metadata in the vault.db metadata table.
type SQLiteRepository struct {
	conn dbx.Connector
}

func NewSQLiteRepository(conn dbx.Connector) *SQLiteRepository {
	return &SQLiteRepository{conn: unavailable{conn}}
}

// unavailable tags connector failures so callers can tell a broken local
// store from a failed statement.
type unavailable struct {
	dbx.Connector
}

func (u unavailable) DB(ctx context.Context) (*sql.DB, error) {
	db, err := u.Connector.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrLocalStoreUnavailable, err)
	}
	return db, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	var value []byte
	switch err := db.QueryRowContext(ctx, selectValue, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	return dbx.InTx(ctx, r.conn, func(ctx context.Context, tx dbx.DBTX) error {
		for key, value := range values {
			if _, err := tx.ExecContext(ctx, upsertValue, key, value); err != nil {
				return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	return dbx.InTx(ctx, r.conn, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, deleteKey, key); err != nil {
				return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
			}
		}
		return nil
	})
}
