package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agentica/userkit/pkg/logger"
)

// AccountLinker resolves a normalized identity to an account, creating one
// on first login. Linking is keyed by email: a returning social login with
// the same address lands on the same account regardless of which flow
// created it.
type AccountLinker struct {
	storage AccountStorage
	log     *slog.Logger
	now     func() time.Time
}

// NewAccountLinker creates a linker over the given storage.
func NewAccountLinker(storage AccountStorage, opts ...LinkerOption) *AccountLinker {
	l := &AccountLinker{
		storage: storage,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LinkerOption configures an AccountLinker.
type LinkerOption func(*AccountLinker)

// WithLinkerLogger sets the logger.
func WithLinkerLogger(log *slog.Logger) LinkerOption {
	return func(l *AccountLinker) { l.log = log }
}

// LinkOrCreate finds the account matching the identity's email, refreshing
// its display profile from the provider, or creates a new one. Identities
// without a disclosed email get a placeholder address and the account is
// flagged NeedsRealEmail.
func (l *AccountLinker) LinkOrCreate(ctx context.Context, id Identity) (*Account, error) {
	email := id.Email
	placeholder := false
	if !id.EmailPresent {
		email = id.PlaceholderEmail()
		placeholder = true
	}

	account, err := l.storage.GetByEmail(ctx, email)
	switch {
	case err == nil:
		// Returning login: mirror the provider's current display profile
		// but never touch credentials or the registered provider.
		changed := false
		if id.Name != "" && id.Name != account.Name {
			account.Name = id.Name
			changed = true
		}
		if id.AvatarURL != "" && id.AvatarURL != account.AvatarURL {
			account.AvatarURL = id.AvatarURL
			changed = true
		}
		if changed {
			account.UpdatedAt = l.now()
			if err := l.storage.Update(ctx, account); err != nil {
				return nil, fmt.Errorf("update linked account: %w", err)
			}
		}
		return account, nil

	case errors.Is(err, ErrAccountNotFound):
		account = &Account{
			ID:             uuid.New(),
			Email:          email,
			Name:           id.Name,
			AvatarURL:      id.AvatarURL,
			Provider:       id.Provider,
			ProviderUserID: id.ProviderID,
			EmailVerified:  !placeholder,
			NeedsRealEmail: placeholder,
			CreatedAt:      l.now(),
			UpdatedAt:      l.now(),
		}
		if err := l.storage.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("create linked account: %w", err)
		}
		l.log.InfoContext(ctx, "created account from social login",
			logger.Provider(string(id.Provider)),
			logger.UserEmail(email),
			slog.Bool("placeholder_email", placeholder))
		return account, nil

	default:
		return nil, fmt.Errorf("lookup account: %w", err)
	}
}
