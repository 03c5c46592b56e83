package services

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vaultx/internal/client/models"
	"github.com/dmitrijs2005/vaultx/internal/client/repositories/documents"
	clouddocs "github.com/dmitrijs2005/vaultx/internal/cloud/documents"
	"github.com/dmitrijs2005/vaultx/internal/cloud/objects"
	"github.com/dmitrijs2005/vaultx/internal/filex"
	"github.com/dmitrijs2005/vaultx/internal/logging"
)

type SyncStatus int

const (
	// SyncSucceeded: bytes uploaded, cloud row upserted, local flag set.
	SyncSucceeded SyncStatus = iota
	// SyncAlreadySynced: the record was synced before; nothing was done.
	SyncAlreadySynced
	// SyncSkipped: no session, so the attempt was not made.
	SyncSkipped
	// SyncFailed: a step failed and was logged; the record stays unsynced.
	SyncFailed
)

func (s SyncStatus) String() string {
	switch s {
	case SyncSucceeded:
		return "synced"
	case SyncAlreadySynced:
		return "already synced"
	case SyncSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

type SyncResult struct {
	Status SyncStatus
	// Key is the object-store key the bytes were written to.
	Key string
	Err error
}

// OK reports whether the document is in the cloud after the call.
func (r SyncResult) OK() bool {
	return r.Status == SyncSucceeded || r.Status == SyncAlreadySynced
}

// DocumentSyncer pushes one local record to the cloud.
type DocumentSyncer interface {
	Sync(ctx context.Context, doc *models.DocumentRecord) SyncResult
}

// Syncer uploads a local document and its metadata. It never returns an
// error or panics past its boundary: every outcome is a SyncResult. Upload
// and row write are both upserts, so a failed attempt can simply be retried.
type Syncer struct {
	identity IdentityProvider
	local    documents.Repository
	cloud    clouddocs.Repository
	objects  objects.Store
	log      logging.Logger

	readFile func(string) ([]byte, error)
}

func NewSyncer(identity IdentityProvider, local documents.Repository, cloud clouddocs.Repository,
	store objects.Store, log logging.Logger) *Syncer {
	return &Syncer{
		identity: identity,
		local:    local,
		cloud:    cloud,
		objects:  store,
		log:      logging.Module(log, "sync"),
		readFile: os.ReadFile,
	}
}

func (s *Syncer) Sync(ctx context.Context, doc *models.DocumentRecord) (res SyncResult) {
	if doc.Synced {
		return SyncResult{Status: SyncAlreadySynced}
	}

	defer func() {
		if p := recover(); p != nil {
			res = SyncResult{Status: SyncFailed, Err: fmt.Errorf("sync panic: %v", p)}
			s.log.Error(ctx, "sync panicked", "id", doc.ID, "panic", p)
		}
	}()

	session, ok := s.identity.CurrentSession(ctx)
	if !ok {
		s.log.Debug(ctx, "sync skipped, no session", "id", doc.ID)
		return SyncResult{Status: SyncSkipped}
	}

	key, err := s.push(ctx, session.UserID, doc)
	if err != nil {
		s.log.Warn(ctx, "sync failed", "id", doc.ID, "err", err)
		return SyncResult{Status: SyncFailed, Key: key, Err: err}
	}

	s.log.Info(ctx, "document synced", "id", doc.ID, "key", key)
	return SyncResult{Status: SyncSucceeded, Key: key}
}

// push runs the three steps in order: object upload, metadata upsert, local
// flag. A later step never runs when an earlier one failed.
func (s *Syncer) push(ctx context.Context, userID string, doc *models.DocumentRecord) (string, error) {
	ext := documentExt(doc.LocalPath, doc.Name)
	key := StorageKey(userID, doc.ID, ext)

	data, err := s.readFile(filex.ToPath(doc.LocalPath))
	if err != nil {
		return key, fmt.Errorf("read %s: %w", doc.LocalPath, err)
	}

	if _, err := s.objects.Upload(ctx, key, data, objects.ContentType(ext), true); err != nil {
		return key, err
	}

	rec := &models.CloudDocumentRecord{
		ID:          doc.ID,
		UserID:      userID,
		Name:        doc.Name,
		Category:    doc.Category,
		StoragePath: key,
		CreatedAt:   doc.CreatedAt,
	}
	if err := s.cloud.Upsert(ctx, rec); err != nil {
		return key, fmt.Errorf("upsert cloud record: %w", err)
	}

	if err := s.local.SetSynced(ctx, doc.ID); err != nil {
		return key, fmt.Errorf("mark synced: %w", err)
	}
	return key, nil
}
