package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account is a unified user record. Local and social logins resolve to the
// same shape; Provider records which flow created the account and governs
// which fields external profile data may overwrite on later logins.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	Name         string
	AvatarURL    string
	Provider     Provider
	// ProviderUserID is the provider-side identifier for social accounts,
	// needed for provider API calls that target a user rather than a
	// token. Empty for local accounts.
	ProviderUserID string
	// EmailVerified is true once the address has been confirmed. Social
	// accounts are created verified because the provider vouched for the
	// address; placeholder addresses are never verified.
	EmailVerified bool
	// NeedsRealEmail marks accounts created without a provider email,
	// carrying a synthesized placeholder address until the user supplies
	// a real one.
	NeedsRealEmail bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasPassword reports whether local credential login is possible.
func (a *Account) HasPassword() bool { return len(a.PasswordHash) > 0 }

// IsSocial reports whether the account was created through an external
// provider.
func (a *Account) IsSocial() bool { return a.Provider.IsSocial() }

// CanMutateProfile reports whether the user may edit name and avatar
// directly. Social accounts mirror the provider profile instead.
func (a *Account) CanMutateProfile() bool { return a.Provider == ProviderLocal }

// AccountStorage persists accounts keyed by email.
type AccountStorage interface {
	// GetByEmail returns ErrAccountNotFound when no account matches.
	GetByEmail(ctx context.Context, email string) (*Account, error)
	// Create returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, email string) error
}
