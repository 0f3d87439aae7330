package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/agentica/userkit/pkg/logger"
)

// Session is a freshly issued token pair with the cookie lifetimes the
// transport layer should apply.
type Session struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// SessionIssuer mints token pairs and rotates refresh tokens. Every issue
// replaces the account's stored refresh record, so at most one refresh
// token is live per account at any time.
type SessionIssuer struct {
	codec   *TokenCodec
	refresh RefreshTokenStore
	log     *slog.Logger
	now     func() time.Time
}

// NewSessionIssuer creates an issuer over the codec and refresh store.
func NewSessionIssuer(codec *TokenCodec, refresh RefreshTokenStore, opts ...SessionOption) *SessionIssuer {
	s := &SessionIssuer{
		codec:   codec,
		refresh: refresh,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionOption configures a SessionIssuer.
type SessionOption func(*SessionIssuer)

// WithSessionLogger sets the logger.
func WithSessionLogger(log *slog.Logger) SessionOption {
	return func(s *SessionIssuer) { s.log = log }
}

// IssueForLogin mints a new token pair for the account and stores the
// refresh token, displacing any previous one.
func (s *SessionIssuer) IssueForLogin(ctx context.Context, email string) (Session, error) {
	access, err := s.codec.IssueAccess(email)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.IssueRefresh(email)
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh token: %w", err)
	}

	now := s.now()
	rec := RefreshRecord{
		Email:     email,
		Token:     refresh,
		ExpiresAt: now.Add(s.codec.RefreshTTL()),
		CreatedAt: now,
	}
	if err := s.refresh.Upsert(ctx, rec); err != nil {
		return Session{}, fmt.Errorf("store refresh token: %w", err)
	}

	return Session{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    s.codec.AccessTTL(),
		RefreshTTL:   s.codec.RefreshTTL(),
	}, nil
}

// Refresh exchanges a live refresh token for a new pair. The presented
// token must verify cryptographically AND be byte-identical to the stored
// record for its subject; a token displaced by a later login fails the
// second check even though its signature is still valid. The old record is
// replaced atomically by the new issue, so a replayed token can win at most
// once.
func (s *SessionIssuer) Refresh(ctx context.Context, token string) (Session, error) {
	email, err := s.codec.Verify(token)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	rec, err := s.refresh.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrInvalidToken
	}
	if rec.Token != token || rec.Expired(s.now()) {
		s.log.WarnContext(ctx, "refresh token replay rejected", logger.UserEmail(email))
		return Session{}, ErrInvalidToken
	}

	return s.IssueForLogin(ctx, email)
}

// Revoke drops the account's stored refresh token. Subsequent refresh
// attempts fail regardless of token validity.
func (s *SessionIssuer) Revoke(ctx context.Context, email string) error {
	return s.refresh.DeleteByEmail(ctx, email)
}
