// Package auth resolves the credential presented at connect time into an identity
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/navikt/huddle/internal/config"
	"github.com/navikt/huddle/internal/models"
)

// ErrAuthentication is returned for any credential that does not resolve to an identity
var ErrAuthentication = errors.New("authentication error")

const guestDisplayName = "Guest"

// Claims is the payload of a signed connection token
type Claims struct {
	Name  string `json:"name,omitempty"`
	Guest bool   `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies connection credentials
type Authenticator struct {
	secret   []byte
	issuer   string
	devMode  bool
	devToken string
	devUser  models.Identity
}

// NewAuthenticator creates an authenticator from configuration
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		devMode:  cfg.DevMode,
		devToken: cfg.DevToken,
		devUser: models.Identity{
			UserID:      cfg.DevUserID,
			DisplayName: cfg.DevDisplayName,
		},
	}
}

// Authenticate resolves a credential into an identity. Every failure wraps
// ErrAuthentication.
func (a *Authenticator) Authenticate(credential string) (models.Identity, error) {
	if credential == "" {
		return models.Identity{}, fmt.Errorf("%w: missing credential", ErrAuthentication)
	}

	if a.devMode && a.devToken != "" && credential == a.devToken {
		return a.devUser, nil
	}

	if len(a.secret) == 0 {
		return models.Identity{}, fmt.Errorf("%w: token verification not configured", ErrAuthentication)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(credential, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	if claims.Subject == "" {
		return models.Identity{}, fmt.Errorf("%w: token has no subject", ErrAuthentication)
	}

	identity := models.Identity{
		UserID:      claims.Subject,
		DisplayName: strings.TrimSpace(claims.Name),
		IsGuest:     claims.Guest,
	}
	if identity.DisplayName == "" {
		if identity.IsGuest {
			identity.DisplayName = guestDisplayName
		} else {
			identity.DisplayName = identity.UserID
		}
	}
	return identity, nil
}

// IssueToken signs a token for identity that expires after ttl
func (a *Authenticator) IssueToken(identity models.Identity, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("token signing not configured")
	}

	now := time.Now()
	claims := Claims{
		Name:  identity.DisplayName,
		Guest: identity.IsGuest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// CredentialFromRequest extracts the credential from the "token" query
// parameter or a Bearer Authorization header. Browsers cannot set headers on
// a WebSocket handshake, so the query parameter comes first.
func CredentialFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
