package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vaultx/internal/client/models"
	"github.com/dmitrijs2005/vaultx/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

func sample() *models.CloudDocumentRecord {
	return &models.CloudDocumentRecord{
		ID:          "4f0c1c57-7a9e-4a4e-9d3f-0c8f1e1b2a3c",
		UserID:      "u1",
		Name:        "passport.pdf",
		Category:    models.CategoryPassport,
		StoragePath: "u1/4f0c1c57-7a9e-4a4e-9d3f-0c8f1e1b2a3c.pdf",
		CreatedAt:   1700000000000,
	}
}

const upsertRe = `(?s)^INSERT INTO documents \(id,user_id,name,category,storage_path,created_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6\) ON CONFLICT \(id\) DO UPDATE SET.*storage_path = EXCLUDED\.storage_path\s+WHERE documents\.user_id = EXCLUDED\.user_id$`

func TestUpsert_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	rec := sample()

	mock.ExpectExec(upsertRe).
		WithArgs(rec.ID, rec.UserID, rec.Name, "passport", rec.StoragePath, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_KeepsOriginalCreatedAt(t *testing.T) {
	repo, _, _ := newRepoWithMock(t)

	query, args, err := repo.upsertQuery(sample())
	require.NoError(t, err)
	assert.Len(t, args, 6)
	assert.Contains(t, query, "ON CONFLICT (id)")
	assert.NotContains(t, query, "created_at = EXCLUDED")
}

func TestUpsert_NeverReassignsOwner(t *testing.T) {
	repo, _, _ := newRepoWithMock(t)

	query, _, err := repo.upsertQuery(sample())
	require.NoError(t, err)
	assert.NotContains(t, query, "user_id = EXCLUDED.user_id,")
	assert.Contains(t, query, "WHERE documents.user_id = EXCLUDED.user_id")
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(upsertRe).WillReturnError(errors.New("db down"))

	err := repo.Upsert(context.Background(), sample())
	require.ErrorContains(t, err, "db error: db down")
}

func TestListByUser_NewestFirst(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).
		AddRow("b", "u1", "b.png", "other", "u1/b.png", int64(200)).
		AddRow("a", "u1", "a.pdf", "passport", "u1/a.pdf", int64(100))

	mock.ExpectQuery(`^SELECT id, user_id, name, category, storage_path, created_at FROM documents WHERE user_id = \$1 ORDER BY created_at DESC$`).
		WithArgs("u1").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)

	want := []*models.CloudDocumentRecord{
		{ID: "b", UserID: "u1", Name: "b.png", Category: models.CategoryOther, StoragePath: "u1/b.png", CreatedAt: 200},
		{ID: "a", UserID: "u1", Name: "a.pdf", Category: models.CategoryPassport, StoragePath: "u1/a.pdf", CreatedAt: 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser_QueryError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT .* FROM documents`).WillReturnError(errors.New("boom"))

	_, err := repo.ListByUser(context.Background(), "u1")
	require.ErrorContains(t, err, "failed to select documents")
}

func TestListByUser_ScanError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).AddRow("a", "u1", "a.pdf", "other", "k", "not-a-number")
	mock.ExpectQuery(`^SELECT .* FROM documents`).WillReturnRows(rows)

	_, err := repo.ListByUser(context.Background(), "u1")
	require.Error(t, err)
}

func TestGetByID(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	rec := sample()

	mock.ExpectQuery(`^SELECT .* FROM documents WHERE id = \$1 AND user_id = \$2$`).
		WithArgs(rec.ID, rec.UserID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(rec.ID, rec.UserID, rec.Name, "passport", rec.StoragePath, rec.CreatedAt))

	got, err := repo.GetByID(context.Background(), rec.ID, rec.UserID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT .* FROM documents WHERE id = \$1 AND user_id = \$2$`).
		WithArgs("x", "u1").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), "x", "u1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteByIDAndUser(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM documents WHERE id = \$1 AND user_id = \$2$`).
		WithArgs("d1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteByIDAndUser(context.Background(), "d1", "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDAndUser_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM documents`).WillReturnError(errors.New("gone"))

	err := repo.DeleteByIDAndUser(context.Background(), "d1", "u1")
	require.ErrorContains(t, err, "failed to delete document")
}

func TestOpen_WithoutMigrationsDoesNotDial(t *testing.T) {
	db, err := Open(context.Background(), "postgres://user:pw@127.0.0.1:1/vault?sslmode=disable", false)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
