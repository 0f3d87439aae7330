package auth

import (
	"context"
	"time"
)

// RefreshRecord is the single stored refresh token for an account. Issuing
// a new token replaces the record, which is what makes rotation invalidate
// the previous token.
type RefreshRecord struct {
	Email     string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the record is past its expiry at the given time.
func (r RefreshRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// RefreshTokenStore persists at most one refresh record per email.
type RefreshTokenStore interface {
	// Upsert stores the record, replacing any existing one for the email.
	Upsert(ctx context.Context, rec RefreshRecord) error
	// FindByEmail returns ErrInvalidToken when no live record exists.
	FindByEmail(ctx context.Context, email string) (RefreshRecord, error)
	// FindByToken looks a record up by its literal token value. Same
	// ErrInvalidToken contract as FindByEmail.
	FindByToken(ctx context.Context, token string) (RefreshRecord, error)
	// DeleteByEmail removes the record. Deleting a missing record is not
	// an error.
	DeleteByEmail(ctx context.Context, email string) error
	// PurgeExpired removes every record past its expiry. Meant for a
	// periodic sweep, not per request.
	PurgeExpired(ctx context.Context, now time.Time) error
}
