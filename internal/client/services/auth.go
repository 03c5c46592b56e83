// Package services contains the vaultx client's application services: the
// session, document ingestion/view/deletion, the sync engine and the
// periodic auto-sync trigger.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vaultx/internal/client/auth"
	"github.com/dmitrijs2005/vaultx/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vaultx/internal/common"
	"github.com/dmitrijs2005/vaultx/internal/logging"
)

const (
	sessionTokenKey = "session_token"
	sessionUserKey  = "session_user"
)

// IdentityProvider yields the signed-in user. A missing or invalid session is
// reported as ok == false, never as an error.
type IdentityProvider interface {
	CurrentSession(ctx context.Context) (auth.Session, bool)
}

// AuthService manages the bearer session kept in the metadata store.
type AuthService interface {
	IdentityProvider
	Login(ctx context.Context, token string) (auth.Session, error)
	Logout(ctx context.Context) error
}

type authService struct {
	verifier auth.Verifier
	meta     metadata.Repository
	log      logging.Logger
}

func NewAuthService(verifier auth.Verifier, meta metadata.Repository, log logging.Logger) AuthService {
	return &authService{verifier: verifier, meta: meta, log: logging.Module(log, "auth")}
}

// Login verifies token and stores it as the current session.
func (a *authService) Login(ctx context.Context, token string) (auth.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Session{}, common.ErrorUnauthorized
	}

	s, err := a.verifier.Verify(token)
	if err != nil {
		return auth.Session{}, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	if err := a.meta.SetMany(ctx, map[string][]byte{
		sessionTokenKey: []byte(token),
		sessionUserKey:  []byte(s.UserID),
	}); err != nil {
		return auth.Session{}, fmt.Errorf("session saving error: %w", err)
	}

	a.log.Info(ctx, "signed in", "user", s.UserID)
	return s, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.meta.Delete(ctx, sessionTokenKey, sessionUserKey)
}

func (a *authService) CurrentSession(ctx context.Context) (auth.Session, bool) {
	token, err := a.meta.Get(ctx, sessionTokenKey)
	if err != nil {
		a.log.Warn(ctx, "session lookup failed", "err", err)
		return auth.Session{}, false
	}
	if len(token) == 0 {
		return auth.Session{}, false
	}

	s, err := a.verifier.Verify(string(token))
	if err != nil {
		a.log.Debug(ctx, "stored session rejected", "err", err)
		return auth.Session{}, false
	}
	return s, true
}
