// Package auth verifies the bearer session the identity provider hands out.
// Tokens are JWTs checked either against a shared HS256 secret or against
// the provider's published JWKS.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/dmitrijs2005/vaultx/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus an optional explicit user id.
// Providers that only set "sub" are supported as well.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Session is a verified identity.
type Session struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}

type Verifier interface {
	Verify(token string) (Session, error)
}

// HMACVerifier checks HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret []byte) *HMACVerifier {
	return &HMACVerifier{secret: secret}
}

func (v *HMACVerifier) Verify(token string) (Session, error) {
	return parse(token, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.SigningMethodHS256.Alg())
}

// JWKSVerifier checks RS256/ES256 tokens against keys published at a JWKS
// URL. Keys are cached and refreshed in the background by keyfunc.
type JWKSVerifier struct {
	jwks keyfunc.Keyfunc
}

func NewJWKSVerifier(ctx context.Context, jwksURL string) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}
	return &JWKSVerifier{jwks: jwks}, nil
}

func (v *JWKSVerifier) Verify(token string) (Session, error) {
	return parse(token, v.jwks.Keyfunc, "RS256", "ES256")
}

func parse(token string, kf jwt.Keyfunc, algs ...string) (Session, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(token, claims, kf, jwt.WithValidMethods(algs))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, common.ErrTokenExpired
		}
		return Session{}, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !t.Valid {
		return Session{}, common.ErrInvalidToken
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return Session{}, fmt.Errorf("%w: no subject", common.ErrInvalidToken)
	}

	s := Session{UserID: userID, Email: claims.Email, Token: token}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// GenerateToken issues an HS256 token for userID. Used by local tooling and
// tests that stand in for the identity provider.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
	})
	return token.SignedString(secretKey)
}
