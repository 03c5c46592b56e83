package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/vaultx/internal/client/auth"
	"github.com/dmitrijs2005/vaultx/internal/client/models"
	"github.com/dmitrijs2005/vaultx/internal/common"
	"github.com/dmitrijs2005/vaultx/internal/netx"
)

var errBoom = errors.New("boom")

type fakeIdentity struct {
	userID string
}

func (f *fakeIdentity) CurrentSession(context.Context) (auth.Session, bool) {
	if f == nil || f.userID == "" {
		return auth.Session{}, false
	}
	return auth.Session{UserID: f.userID}, true
}

type fakeLocalRepo struct {
	mu        sync.Mutex
	rows      map[string]models.DocumentRecord
	calls     int
	insertErr error
	listErr   error
	deleteErr error
}

func newFakeLocalRepo(recs ...models.DocumentRecord) *fakeLocalRepo {
	r := &fakeLocalRepo{rows: map[string]models.DocumentRecord{}}
	for _, rec := range recs {
		r.rows[rec.ID] = rec
	}
	return r
}

func (r *fakeLocalRepo) Insert(_ context.Context, rec *models.DocumentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.insertErr != nil {
		return r.insertErr
	}
	r.rows[rec.ID] = *rec
	return nil
}

func (r *fakeLocalRepo) GetByID(_ context.Context, id string) (*models.DocumentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	rec, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rec, nil
}

func (r *fakeLocalRepo) sorted(filter func(models.DocumentRecord) bool, newestFirst bool) []*models.DocumentRecord {
	var out []*models.DocumentRecord
	for _, rec := range r.rows {
		if filter(rec) {
			out = append(out, &rec)
		}
	}
	slices.SortFunc(out, func(a, b *models.DocumentRecord) int {
		if newestFirst {
			return int(b.CreatedAt - a.CreatedAt)
		}
		return int(a.CreatedAt - b.CreatedAt)
	})
	return out
}

func (r *fakeLocalRepo) ListAll(context.Context) ([]*models.DocumentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(func(models.DocumentRecord) bool { return true }, true), nil
}

func (r *fakeLocalRepo) ListUnsynced(context.Context) ([]*models.DocumentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(func(rec models.DocumentRecord) bool { return !rec.Synced }, false), nil
}

func (r *fakeLocalRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeLocalRepo) SetSynced(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	rec, ok := r.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	rec.Synced = true
	r.rows[id] = rec
	return nil
}

func (r *fakeLocalRepo) get(id string) (models.DocumentRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[id]
	return rec, ok
}

func (r *fakeLocalRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fakeCloudRepo struct {
	mu    sync.Mutex
	rows  map[string]models.CloudDocumentRecord
	calls int
	// upsertErrs are returned by successive Upsert calls before they start
	// succeeding.
	upsertErrs []error
	listErr    error
	getErr     error
}

func newFakeCloudRepo(recs ...models.CloudDocumentRecord) *fakeCloudRepo {
	r := &fakeCloudRepo{rows: map[string]models.CloudDocumentRecord{}}
	for _, rec := range recs {
		r.rows[rec.ID] = rec
	}
	return r
}

func (r *fakeCloudRepo) Upsert(_ context.Context, rec *models.CloudDocumentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(r.upsertErrs) > 0 {
		err := r.upsertErrs[0]
		r.upsertErrs = r.upsertErrs[1:]
		return err
	}
	if old, ok := r.rows[rec.ID]; ok {
		rec.CreatedAt = old.CreatedAt
	}
	r.rows[rec.ID] = *rec
	return nil
}

func (r *fakeCloudRepo) ListByUser(_ context.Context, userID string) ([]*models.CloudDocumentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*models.CloudDocumentRecord
	for _, rec := range r.rows {
		if rec.UserID == userID {
			out = append(out, &rec)
		}
	}
	slices.SortFunc(out, func(a, b *models.CloudDocumentRecord) int { return int(b.CreatedAt - a.CreatedAt) })
	return out, nil
}

func (r *fakeCloudRepo) GetByID(_ context.Context, id, userID string) (*models.CloudDocumentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	rec, ok := r.rows[id]
	if !ok || rec.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &rec, nil
}

func (r *fakeCloudRepo) DeleteByIDAndUser(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if rec, ok := r.rows[id]; ok && rec.UserID == userID {
		delete(r.rows, id)
	}
	return nil
}

func (r *fakeCloudRepo) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *fakeCloudRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type storedObject struct {
	data        []byte
	contentType string
}

type fakeObjects struct {
	mu        sync.Mutex
	objects   map[string]storedObject
	calls     int
	uploadErr error
	deleted   []string
	signed    []string
	ttl       time.Duration
	// onUpload runs before an upload is recorded, outside the lock.
	onUpload func(key string)
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string]storedObject{}}
}

func (f *fakeObjects) Upload(_ context.Context, key string, body []byte, contentType string, upsert bool) (string, error) {
	if f.onUpload != nil {
		f.onUpload(key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if _, ok := f.objects[key]; ok && !upsert {
		return "", common.ErrObjectExists
	}
	f.objects[key] = storedObject{data: slices.Clone(body), contentType: contentType}
	return key, nil
}

func (f *fakeObjects) Delete(_ context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, k := range keys {
		delete(f.objects, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func (f *fakeObjects) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.signed = append(f.signed, key)
	f.ttl = ttl
	return "https://signed.example/" + key, nil
}

func (f *fakeObjects) get(key string) (storedObject, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.objects[key]
	return o, ok
}

func (f *fakeObjects) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeObjects) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeProbe struct {
	mu     sync.Mutex
	status netx.Status
	checks int
}

func (p *fakeProbe) Check(context.Context) netx.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checks++
	return p.status
}

func (p *fakeProbe) set(st netx.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = st
}

func (p *fakeProbe) checkCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checks
}

type fakeOpener struct {
	opened []string
}

func (o *fakeOpener) Open(_ context.Context, target string) error {
	o.opened = append(o.opened, target)
	return nil
}

var online = netx.Status{Connected: true, InternetReachable: true}
