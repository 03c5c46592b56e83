package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/vaultx/internal/client/models"
	"github.com/dmitrijs2005/vaultx/internal/cloud/migrations"
	"github.com/dmitrijs2005/vaultx/internal/common"
	"github.com/dmitrijs2005/vaultx/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const table = "documents"

var columns = []string{"id", "user_id", "name", "category", "storage_path", "created_at"}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to the cloud database and, when migrate is set, brings the
// schema up to date.
func Open(ctx context.Context, dsn string, migrate bool) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if !migrate {
		return db, nil
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	return db, nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := goose.NewProvider(goose.DialectPostgres, db, migrations.Migrations)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}

func (r *PostgresRepository) qb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.CloudDocumentRecord) error {
	query, args, err := r.upsertQuery(rec)
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) upsertQuery(rec *models.CloudDocumentRecord) (string, []any, error) {
	return r.qb().Insert(table).
		Columns(columns...).
		Values(rec.ID, rec.UserID, rec.Name, string(rec.Category), rec.StoragePath, rec.CreatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			storage_path = EXCLUDED.storage_path
			WHERE documents.user_id = EXCLUDED.user_id`).
		ToSql()
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.CloudDocumentRecord, error) {
	query, args, err := r.qb().Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	result := make([]*models.CloudDocumentRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.CloudDocumentRecord, error) {
	query, args, err := r.qb().Select(columns...).
		From(table).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select document: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	query, args, err := r.qb().Delete(table).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.CloudDocumentRecord, error) {
	var (
		rec      models.CloudDocumentRecord
		category string
	)
	if err := s.Scan(&rec.ID, &rec.UserID, &rec.Name, &category, &rec.StoragePath, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Category = models.Category(category)
	return &rec, nil
}
