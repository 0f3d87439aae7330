package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/agentica/userkit/pkg/logger"
)

// LocalAuthService handles email/password join and login, plus converting
// a social account to local login by attaching a password.
type LocalAuthService struct {
	storage    AccountStorage
	bcryptCost int
	log        *slog.Logger
	now        func() time.Time
}

// LocalOption configures a LocalAuthService.
type LocalOption func(*LocalAuthService)

// WithLocalLogger sets the logger.
func WithLocalLogger(log *slog.Logger) LocalOption {
	return func(s *LocalAuthService) { s.log = log }
}

// WithBcryptCost sets the bcrypt cost for password hashing.
func WithBcryptCost(cost int) LocalOption {
	return func(s *LocalAuthService) { s.bcryptCost = cost }
}

// NewLocalAuthService creates a local auth service over the given storage.
func NewLocalAuthService(storage AccountStorage, opts ...LocalOption) *LocalAuthService {
	s := &LocalAuthService{
		storage:    storage,
		bcryptCost: bcrypt.DefaultCost,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Join registers a new local account. Email verification happens out of
// band; the account is created unverified and login stays blocked until
// MarkEmailVerified is called.
func (s *LocalAuthService) Join(ctx context.Context, email, password, name string) (*Account, error) {
	email = normalizeEmail(email)

	_, err := s.storage.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Provider:     ProviderLocal,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if err := s.storage.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.InfoContext(ctx, "local account created", logger.UserEmail(email))
	return account, nil
}

// Login authenticates an email/password pair. Unknown emails and wrong
// passwords return the same ErrInvalidCredentials; unverified accounts
// are rejected with ErrUnverifiedEmail after the password check passes.
func (s *LocalAuthService) Login(ctx context.Context, email, password string) (*Account, error) {
	email = normalizeEmail(email)

	account, err := s.storage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if !account.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.EmailVerified {
		return nil, ErrUnverifiedEmail
	}
	return account, nil
}

// MarkEmailVerified flips the verification flag once the out-of-band
// check completed.
func (s *LocalAuthService) MarkEmailVerified(ctx context.Context, email string) error {
	account, err := s.storage.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if account.EmailVerified {
		return nil
	}
	account.EmailVerified = true
	account.UpdatedAt = s.now()
	return s.storage.Update(ctx, account)
}

// SetPassword attaches a password to a social account, converting it to
// local login. Accounts still carrying a placeholder address must supply
// a real one first.
func (s *LocalAuthService) SetPassword(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.storage.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account.NeedsRealEmail {
		return nil, ErrRealEmailRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account.PasswordHash = hash
	account.Provider = ProviderLocal
	account.UpdatedAt = s.now()
	if err := s.storage.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	s.log.InfoContext(ctx, "account converted to local login", logger.UserEmail(account.Email))
	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
