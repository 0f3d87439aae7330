package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentica/userkit/pkg/logger"
)

// deletionTokenTTL bounds how long a deletion token stays redeemable. The
// provider logout round trip takes seconds, so five minutes is generous.
const deletionTokenTTL = 5 * time.Minute

// DeletionTokenStore issues single-use tokens that survive the provider
// logout redirect during account deletion. At most one token is live per
// email; issuing a new one displaces the old.
type DeletionTokenStore struct {
	mu     sync.Mutex
	tokens map[string]deletionEntry
	ttl    time.Duration
	now    func() time.Time
}

type deletionEntry struct {
	email     string
	expiresAt time.Time
}

// NewDeletionTokenStore creates an empty store with the default TTL.
func NewDeletionTokenStore() *DeletionTokenStore {
	return &DeletionTokenStore{
		tokens: make(map[string]deletionEntry),
		ttl:    deletionTokenTTL,
		now:    time.Now,
	}
}

// Issue creates a token bound to the email. Any previous token for the
// same email is evicted, and expired entries are swept while the lock is
// held.
func (s *DeletionTokenStore) Issue(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, entry := range s.tokens {
		if entry.email == email || !entry.expiresAt.After(now) {
			delete(s.tokens, token)
		}
	}

	token := uuid.NewString()
	s.tokens[token] = deletionEntry{email: email, expiresAt: now.Add(s.ttl)}
	return token
}

// Redeem consumes the token and returns the bound email. Expired and
// unknown tokens report false; a redeemed token cannot be redeemed again.
func (s *DeletionTokenStore) Redeem(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return "", false
	}
	delete(s.tokens, token)
	if !entry.expiresAt.After(s.now()) {
		return "", false
	}
	return entry.email, true
}

// AccountDeletionService runs the two-phase account deletion. Social
// accounts first bounce the browser through the provider's logout page;
// the one-time token carried on the return leg authorizes the actual
// delete.
type AccountDeletionService struct {
	storage  AccountStorage
	sessions *SessionIssuer
	tokens   *DeletionTokenStore
	urls     *LogoutURLBuilder
	log      *slog.Logger
}

// DeletionOption configures an AccountDeletionService.
type DeletionOption func(*AccountDeletionService)

// WithDeletionLogger sets the logger.
func WithDeletionLogger(log *slog.Logger) DeletionOption {
	return func(s *AccountDeletionService) { s.log = log }
}

// NewAccountDeletionService creates the service.
func NewAccountDeletionService(storage AccountStorage, sessions *SessionIssuer, tokens *DeletionTokenStore, urls *LogoutURLBuilder, opts ...DeletionOption) *AccountDeletionService {
	s := &AccountDeletionService{
		storage:  storage,
		sessions: sessions,
		tokens:   tokens,
		urls:     urls,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeletionTicket is the outcome of Begin. A non-empty RedirectURL means
// the browser must complete the provider logout round trip first; local
// accounts are deleted immediately and carry no ticket state.
type DeletionTicket struct {
	Token       string
	RedirectURL string
}

// Begin starts deletion for the account. Social accounts get a token and
// a provider redirect; local accounts are deleted on the spot.
func (s *AccountDeletionService) Begin(ctx context.Context, email string) (DeletionTicket, error) {
	account, err := s.storage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return DeletionTicket{}, ErrAccountNotFound
		}
		return DeletionTicket{}, fmt.Errorf("lookup account: %w", err)
	}

	if !account.IsSocial() {
		if err := s.delete(ctx, account.Email); err != nil {
			return DeletionTicket{}, err
		}
		return DeletionTicket{}, nil
	}

	token := s.tokens.Issue(account.Email)
	return DeletionTicket{
		Token:       token,
		RedirectURL: s.urls.DeleteAccountRedirect(account.Provider, token),
	}, nil
}

// Complete redeems the token from the provider round trip and deletes the
// account. Unknown, expired or reused tokens fail with ErrInvalidToken.
func (s *AccountDeletionService) Complete(ctx context.Context, token string) error {
	email, ok := s.tokens.Redeem(token)
	if !ok {
		return ErrInvalidToken
	}
	return s.delete(ctx, email)
}

func (s *AccountDeletionService) delete(ctx context.Context, email string) error {
	if err := s.sessions.Revoke(ctx, email); err != nil {
		s.log.ErrorContext(ctx, "failed to revoke refresh token during deletion",
			logger.UserEmail(email), logger.Error(err))
	}
	if err := s.storage.Delete(ctx, email); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.InfoContext(ctx, "account deleted", logger.UserEmail(email))
	return nil
}
