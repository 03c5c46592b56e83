package documents

import (
	"context"

	"github.com/dmitrijs2005/vaultx/internal/client/models"
)

// Repository describes the local record store used by ingestion, sync and
// the unified view.
type Repository interface {
	Insert(ctx context.Context, rec *models.DocumentRecord) error

	// GetByID returns common.ErrorNotFound when no row has the id.
	GetByID(ctx context.Context, id string) (*models.DocumentRecord, error)

	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]*models.DocumentRecord, error)

	// ListUnsynced returns the records whose synced flag is still 0, oldest
	// first so a batch uploads in ingestion order.
	ListUnsynced(ctx context.Context) ([]*models.DocumentRecord, error)

	Delete(ctx context.Context, id string) error

	// SetSynced flips the synced flag to 1. The flag never goes back to 0.
	SetSynced(ctx context.Context, id string) error
}
