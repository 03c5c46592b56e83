package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/vaultx/internal/client/auth"
	"github.com/dmitrijs2005/vaultx/internal/client/config"
	"github.com/dmitrijs2005/vaultx/internal/client/models"
	"github.com/dmitrijs2005/vaultx/internal/client/services"
	"github.com/dmitrijs2005/vaultx/internal/common"
	"github.com/dmitrijs2005/vaultx/internal/logging"
	"github.com/dmitrijs2005/vaultx/internal/netx"
)

// capturePrintln redirects printlnFn into a buffer for the test's duration.
func capturePrintln(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &buf
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

type fakeAuth struct {
	session  *auth.Session
	loginErr error
	tokens   []string
}

func (f *fakeAuth) CurrentSession(context.Context) (auth.Session, bool) {
	if f.session == nil {
		return auth.Session{}, false
	}
	return *f.session, true
}

func (f *fakeAuth) Login(_ context.Context, token string) (auth.Session, error) {
	f.tokens = append(f.tokens, token)
	if f.loginErr != nil {
		return auth.Session{}, f.loginErr
	}
	f.session = &auth.Session{UserID: "user-1"}
	return *f.session, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.session = nil
	return nil
}

type fakeDocs struct {
	docs []models.UnifiedDocument

	addSource   string
	addCategory models.Category
	addOut      *models.UnifiedDocument
	addErr      error

	deleted []string
	opened  []string
	url     string
	urlErr  error
}

func (f *fakeDocs) Add(_ context.Context, source string, category models.Category) (*models.UnifiedDocument, error) {
	f.addSource, f.addCategory = source, category
	if source == "" {
		return nil, nil
	}
	return f.addOut, f.addErr
}

func (f *fakeDocs) List(context.Context) ([]models.UnifiedDocument, error) {
	return f.docs, nil
}

func (f *fakeDocs) Get(_ context.Context, id string) (models.UnifiedDocument, error) {
	for _, d := range f.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return models.UnifiedDocument{}, common.ErrorNotFound
}

func (f *fakeDocs) Delete(_ context.Context, doc models.UnifiedDocument) ([]models.UnifiedDocument, error) {
	f.deleted = append(f.deleted, doc.ID)
	var left []models.UnifiedDocument
	for _, d := range f.docs {
		if d.ID != doc.ID {
			left = append(left, d)
		}
	}
	f.docs = left
	return left, nil
}

func (f *fakeDocs) URL(context.Context, models.UnifiedDocument) (string, error) {
	return f.url, f.urlErr
}

func (f *fakeDocs) Open(_ context.Context, doc models.UnifiedDocument) error {
	f.opened = append(f.opened, doc.ID)
	return nil
}

func (f *fakeDocs) HasLocalStore() bool { return true }

type fakeRunner struct {
	report services.PassReport
	ticks  int
}

func (f *fakeRunner) Start(context.Context) {}

func (f *fakeRunner) Tick(context.Context) services.PassReport {
	f.ticks++
	return f.report
}

func newTestApp(docs *fakeDocs, au *fakeAuth, in *bufio.Reader) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		config: &config.Config{},
		mode:   config.ModeLocal,
		docs:   docs,
		auth:   au,
		probe:  netx.Always{Connected: true},
		reader: in,
		out:    &out,
		log:    logging.Discard(),
	}, &out
}
