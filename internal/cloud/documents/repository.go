// Package documents is the per-user cloud metadata store, a Postgres table
// keyed by document id.
package documents

import (
	"context"

	"github.com/dmitrijs2005/vaultx/internal/client/models"
)

type Repository interface {
	// Upsert inserts the record or overwrites the row with the same id.
	// created_at of an existing row is kept.
	Upsert(ctx context.Context, rec *models.CloudDocumentRecord) error

	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.CloudDocumentRecord, error)

	// GetByID returns common.ErrorNotFound when the user owns no such record.
	GetByID(ctx context.Context, id, userID string) (*models.CloudDocumentRecord, error)

	DeleteByIDAndUser(ctx context.Context, id, userID string) error
}
