package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentica/userkit/pkg/jwt"
)

// TokenConfig configures signed token issuance.
type TokenConfig struct {
	Secret     string        `env:"JWT_SECRET,required"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"userkit"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"30m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

// TokenCodec issues and verifies the two session token kinds. Both are
// HS256 JWTs carrying the account email as subject; they differ only in
// lifetime, so a refresh token presented as an access token would verify.
// The refresh path guards against that by also requiring the stored-record
// match.
type TokenCodec struct {
	svc        *jwt.Service
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec creates a codec from config. The secret must be non-empty.
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	svc, err := jwt.NewFromString(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("create jwt service: %w", err)
	}
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenCodec{
		svc:        svc,
		issuer:     cfg.Issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// JWT exposes the underlying service for the HTTP middleware.
func (c *TokenCodec) JWT() *jwt.Service { return c.svc }

// AccessTTL returns the access token lifetime.
func (c *TokenCodec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (c *TokenCodec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess signs a short-lived access token for the account email.
func (c *TokenCodec) IssueAccess(email string) (string, error) {
	return c.issue(email, c.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the account email.
func (c *TokenCodec) IssueRefresh(email string) (string, error) {
	return c.issue(email, c.refreshTTL)
}

func (c *TokenCodec) issue(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	token, err := c.svc.Generate(jwt.StandardClaims{
		ID:        uuid.NewString(),
		Subject:   email,
		Issuer:    c.issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature and expiry and returns the subject email.
// Any failure, including a missing subject, yields ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (string, error) {
	var claims jwt.StandardClaims
	if err := c.svc.Parse(token, &claims); err != nil {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Subject extracts the account email from a token. It verifies the token
// first; there is no unverified extraction path.
func (c *TokenCodec) Subject(token string) (string, error) {
	return c.Verify(token)
}
