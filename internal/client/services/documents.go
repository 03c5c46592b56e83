package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/vaultx/internal/client/auth"
	"github.com/dmitrijs2005/vaultx/internal/client/models"
	"github.com/dmitrijs2005/vaultx/internal/client/opener"
	"github.com/dmitrijs2005/vaultx/internal/client/picker"
	"github.com/dmitrijs2005/vaultx/internal/client/repositories/documents"
	clouddocs "github.com/dmitrijs2005/vaultx/internal/cloud/documents"
	"github.com/dmitrijs2005/vaultx/internal/cloud/objects"
	"github.com/dmitrijs2005/vaultx/internal/common"
	"github.com/dmitrijs2005/vaultx/internal/filex"
	"github.com/dmitrijs2005/vaultx/internal/logging"
	"github.com/google/uuid"
)

const DefaultSignedURLTTL = time.Hour

// ErrNotInCloud is returned when a signed URL is requested for a document
// that has not been synced yet.
var ErrNotInCloud = errors.New("document is not in the cloud")

// ErrCloudDisabled is returned by cloud operations when no cloud stores are
// configured.
var ErrCloudDisabled = errors.New("cloud storage is not configured")

// DocumentService is what the UI layer sees of the document vault. There
// are two implementations, picked once at startup: one backed by the
// on-device store (with the cloud as an optional mirror) and one that talks
// to the cloud only.
type DocumentService interface {
	// Add ingests the file at source. An empty source is a cancelled pick
	// and yields (nil, nil).
	Add(ctx context.Context, source string, category models.Category) (*models.UnifiedDocument, error)

	// List returns the unified view, newest first.
	List(ctx context.Context) ([]models.UnifiedDocument, error)

	Get(ctx context.Context, id string) (models.UnifiedDocument, error)

	// Delete removes the document everywhere it is stored and returns the
	// refreshed view.
	Delete(ctx context.Context, doc models.UnifiedDocument) ([]models.UnifiedDocument, error)

	// URL issues a time-limited read URL for a document held in the cloud.
	URL(ctx context.Context, doc models.UnifiedDocument) (string, error)

	// Open shows the document in the system viewer.
	Open(ctx context.Context, doc models.UnifiedDocument) error

	HasLocalStore() bool
}

// CloudDeps are the cloud-side collaborators. Cloud and Objects may be nil
// for a local-only setup; cloud features are then unavailable.
type CloudDeps struct {
	Identity     IdentityProvider
	Cloud        clouddocs.Repository
	Objects      objects.Store
	Opener       opener.Opener
	SignedURLTTL time.Duration
}

// cloudSide holds what both implementations share: identity, the cloud
// stores, URL issuing and opening.
type cloudSide struct {
	CloudDeps
	log logging.Logger
}

func newCloudSide(deps CloudDeps, log logging.Logger) cloudSide {
	if deps.SignedURLTTL <= 0 {
		deps.SignedURLTTL = DefaultSignedURLTTL
	}
	return cloudSide{CloudDeps: deps, log: log}
}

func (c *cloudSide) enabled() bool {
	return c.Cloud != nil && c.Objects != nil
}

func (c *cloudSide) session(ctx context.Context) (auth.Session, error) {
	if c.Identity == nil {
		return auth.Session{}, common.ErrorUnauthorized
	}
	s, ok := c.Identity.CurrentSession(ctx)
	if !ok {
		return auth.Session{}, common.ErrorUnauthorized
	}
	return s, nil
}

// objectKey finds the object-store key of doc. The stored storage_path wins;
// the key is only derived when the cloud row cannot be read.
func (c *cloudSide) objectKey(ctx context.Context, userID string, doc models.UnifiedDocument) string {
	rec, err := c.Cloud.GetByID(ctx, doc.ID, userID)
	if err == nil && rec.StoragePath != "" {
		return rec.StoragePath
	}
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		c.log.Warn(ctx, "cannot read cloud record, deriving key", "id", doc.ID, "err", err)
	}

	if doc.IsLocal() {
		return derivedKey(userID, doc)
	}
	return doc.LocalPath
}

// deleteCloud removes the cloud row and the object. Both steps are attempted
// and failures are only logged.
func (c *cloudSide) deleteCloud(ctx context.Context, userID string, doc models.UnifiedDocument) {
	key := c.objectKey(ctx, userID, doc)

	if err := c.Cloud.DeleteByIDAndUser(ctx, doc.ID, userID); err != nil {
		c.log.Warn(ctx, "cloud record delete failed", "id", doc.ID, "err", err)
	}
	if err := c.Objects.Delete(ctx, []string{key}); err != nil {
		c.log.Warn(ctx, "object delete failed", "id", doc.ID, "key", key, "err", err)
	}
}

func (c *cloudSide) URL(ctx context.Context, doc models.UnifiedDocument) (string, error) {
	if !doc.Synced || !c.enabled() {
		return "", ErrNotInCloud
	}
	s, err := c.session(ctx)
	if err != nil {
		return "", err
	}

	key := c.objectKey(ctx, s.UserID, doc)
	url, err := c.Objects.SignedURL(ctx, key, c.SignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", doc.ID, err)
	}
	return url, nil
}

func (c *cloudSide) Open(ctx context.Context, doc models.UnifiedDocument) error {
	if c.Opener == nil {
		return errors.New("no opener configured")
	}
	if doc.IsLocal() {
		return c.Opener.Open(ctx, doc.LocalPath)
	}

	url, err := c.URL(ctx, doc)
	if err != nil {
		return err
	}
	return c.Opener.Open(ctx, url)
}

func findDocument(docs []models.UnifiedDocument, id string) (models.UnifiedDocument, error) {
	i := slices.IndexFunc(docs, func(d models.UnifiedDocument) bool { return d.ID == id })
	if i < 0 {
		return models.UnifiedDocument{}, fmt.Errorf("document %s: %w", id, common.ErrorNotFound)
	}
	return docs[i], nil
}

// MergeDocuments builds the unified view from both stores. A cloud row is
// added only when no local row has the same id; the result is sorted by
// CreatedAt, newest first, keeping the input order for ties.
func MergeDocuments(local []*models.DocumentRecord, cloud []*models.CloudDocumentRecord) []models.UnifiedDocument {
	out := make([]models.UnifiedDocument, 0, len(local)+len(cloud))
	seen := make(map[string]struct{}, len(local))

	for _, r := range local {
		seen[r.ID] = struct{}{}
		out = append(out, r.Unified())
	}
	for _, r := range cloud {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r.Unified())
	}

	slices.SortStableFunc(out, func(a, b models.UnifiedDocument) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return out
}

// LocalDocumentService keeps documents on the device and merges in whatever
// the signed-in user has in the cloud.
type LocalDocumentService struct {
	cloudSide
	local  documents.Repository
	picker picker.Picker
	now    func() time.Time
}

func NewLocalDocumentService(local documents.Repository, pk picker.Picker, deps CloudDeps,
	log logging.Logger) *LocalDocumentService {
	return &LocalDocumentService{
		cloudSide: newCloudSide(deps, logging.Module(log, "documents", "store", "local")),
		local:     local,
		picker:    pk,
		now:       time.Now,
	}
}

func (s *LocalDocumentService) HasLocalStore() bool { return true }

func (s *LocalDocumentService) Add(ctx context.Context, source string, category models.Category) (*models.UnifiedDocument, error) {
	picked, err := s.picker.Pick(ctx, source)
	if err != nil {
		return nil, err
	}
	if picked == nil {
		return nil, nil
	}

	rec := &models.DocumentRecord{
		ID:        uuid.NewString(),
		Name:      picked.Name,
		Category:  category,
		LocalPath: picked.LocalPath,
		CreatedAt: s.now().UnixMilli(),
	}

	err = rec.Validate()
	if err == nil {
		err = s.local.Insert(ctx, rec)
	}
	if err != nil {
		if rmErr := filex.Remove(rec.LocalPath); rmErr != nil {
			s.log.Warn(ctx, "cannot remove copied file", "path", rec.LocalPath, "err", rmErr)
		}
		return nil, fmt.Errorf("save document: %w", err)
	}

	s.log.Info(ctx, "document added", "id", rec.ID, "name", rec.Name)
	doc := rec.Unified()
	return &doc, nil
}

func (s *LocalDocumentService) List(ctx context.Context) ([]models.UnifiedDocument, error) {
	local, err := s.local.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local documents: %w", err)
	}
	return MergeDocuments(local, s.cloudRecords(ctx)), nil
}

// cloudRecords is best effort: any problem yields nil.
func (s *LocalDocumentService) cloudRecords(ctx context.Context) []*models.CloudDocumentRecord {
	if !s.enabled() {
		return nil
	}
	sess, err := s.session(ctx)
	if err != nil {
		return nil
	}

	recs, err := s.Cloud.ListByUser(ctx, sess.UserID)
	if err != nil {
		s.log.Debug(ctx, "cloud listing unavailable", "err", err)
		return nil
	}
	return recs
}

func (s *LocalDocumentService) Get(ctx context.Context, id string) (models.UnifiedDocument, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return models.UnifiedDocument{}, err
	}
	return findDocument(docs, id)
}

func (s *LocalDocumentService) Delete(ctx context.Context, doc models.UnifiedDocument) ([]models.UnifiedDocument, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	// Each step runs even when an earlier one failed.
	var rowErr error
	if doc.IsLocal() {
		if err := filex.Remove(doc.LocalPath); err != nil {
			s.log.Warn(ctx, "local file delete failed", "id", doc.ID, "err", err)
		}
		rowErr = s.local.Delete(ctx, doc.ID)
	}

	if doc.Synced && s.enabled() {
		s.deleteCloud(ctx, sess.UserID, doc)
	}

	if rowErr != nil {
		return nil, fmt.Errorf("delete local record: %w", rowErr)
	}

	s.log.Info(ctx, "document deleted", "id", doc.ID)
	return s.List(ctx)
}

// CloudDocumentService is used when there is no on-device store: documents
// go straight to the cloud.
type CloudDocumentService struct {
	cloudSide
	picker picker.Picker
	now    func() time.Time
}

func NewCloudDocumentService(pk picker.Picker, deps CloudDeps, log logging.Logger) *CloudDocumentService {
	return &CloudDocumentService{
		cloudSide: newCloudSide(deps, logging.Module(log, "documents", "store", "cloud")),
		picker:    pk,
		now:       time.Now,
	}
}

func (s *CloudDocumentService) HasLocalStore() bool { return false }

func (s *CloudDocumentService) Add(ctx context.Context, source string, category models.Category) (*models.UnifiedDocument, error) {
	if !s.enabled() {
		return nil, ErrCloudDisabled
	}
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	picked, err := s.picker.Pick(ctx, source)
	if err != nil {
		return nil, err
	}
	if picked == nil {
		return nil, nil
	}

	id := uuid.NewString()
	ext := filex.Ext(picked.Name)
	rec := &models.CloudDocumentRecord{
		ID:          id,
		UserID:      sess.UserID,
		Name:        picked.Name,
		Category:    category,
		StoragePath: StorageKey(sess.UserID, id, ext),
		CreatedAt:   s.now().UnixMilli(),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.Objects.Upload(ctx, rec.StoragePath, picked.Data, objects.ContentType(ext), false)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	rec.StoragePath = stored

	if err := s.Cloud.Upsert(ctx, rec); err != nil {
		if delErr := s.Objects.Delete(ctx, []string{stored}); delErr != nil {
			s.log.Warn(ctx, "cannot remove uploaded object", "key", stored, "err", delErr)
		}
		return nil, fmt.Errorf("save document: %w", err)
	}

	s.log.Info(ctx, "document uploaded", "id", rec.ID, "key", stored)
	doc := rec.Unified()
	return &doc, nil
}

// List never fails: without a session, or when the cloud cannot be read, the
// view is empty.
func (s *CloudDocumentService) List(ctx context.Context) ([]models.UnifiedDocument, error) {
	sess, err := s.session(ctx)
	if err != nil || !s.enabled() {
		return []models.UnifiedDocument{}, nil
	}

	recs, err := s.Cloud.ListByUser(ctx, sess.UserID)
	if err != nil {
		s.log.Warn(ctx, "cloud listing failed", "err", err)
		return []models.UnifiedDocument{}, nil
	}
	return MergeDocuments(nil, recs), nil
}

func (s *CloudDocumentService) Get(ctx context.Context, id string) (models.UnifiedDocument, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return models.UnifiedDocument{}, err
	}
	return findDocument(docs, id)
}

func (s *CloudDocumentService) Delete(ctx context.Context, doc models.UnifiedDocument) ([]models.UnifiedDocument, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	if s.enabled() {
		s.deleteCloud(ctx, sess.UserID, doc)
	}

	s.log.Info(ctx, "document deleted", "id", doc.ID)
	return s.List(ctx)
}
