package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultx/internal/client/models"
	"github.com/dmitrijs2005/vaultx/internal/common"
	"github.com/dmitrijs2005/vaultx/internal/dbx"
)

const selectColumns = `select id, name, category, local_path, created_at, synced from documents`

type SQLiteRepository struct {
	conn dbx.Connector
}

func NewSQLiteRepository(conn dbx.Connector) *SQLiteRepository {
	return &SQLiteRepository{conn: conn}
}

func (r *SQLiteRepository) db(ctx context.Context) (dbx.DBTX, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrLocalStoreUnavailable, err)
	}
	return db, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.DocumentRecord) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}

	query := `insert into documents (id, name, category, local_path, created_at, synced)
		values (?, ?, ?, ?, ?, ?)`

	_, err = db.ExecContext(ctx, query, rec.ID, rec.Name, string(rec.Category), rec.LocalPath, rec.CreatedAt, boolToInt(rec.Synced))
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := scanRecord(db.QueryRowContext(ctx, selectColumns+` where id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]*models.DocumentRecord, error) {
	return r.list(ctx, selectColumns+` order by created_at desc, id`)
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context) ([]*models.DocumentRecord, error) {
	return r.list(ctx, selectColumns+` where synced = 0 order by created_at, id`)
}

func (r *SQLiteRepository) list(ctx context.Context, query string) ([]*models.DocumentRecord, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error selecting documents: %w", err)
	}
	defer rows.Close()

	result := make([]*models.DocumentRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `delete from documents where id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetSynced(ctx context.Context, id string) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `update documents set synced = 1 where id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark document synced: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.DocumentRecord, error) {
	var (
		rec      models.DocumentRecord
		category string
		synced   int
	)
	if err := s.Scan(&rec.ID, &rec.Name, &category, &rec.LocalPath, &rec.CreatedAt, &synced); err != nil {
		return nil, err
	}
	rec.Category = models.Category(category)
	rec.Synced = synced == 1
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
