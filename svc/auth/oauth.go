package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentica/userkit/pkg/logger"
)

// ProviderAdapter wraps one OAuth2 provider: building the authorization
// URL and exchanging the callback code for the raw profile payload plus
// the provider access token.
type ProviderAdapter interface {
	Provider() Provider
	AuthURL(state string) string
	// ResolveAttributes exchanges the code and fetches the user profile.
	// The returned map is the provider's raw JSON payload, handed to the
	// matching Normalizer.
	ResolveAttributes(ctx context.Context, code string) (map[string]any, string, error)
}

// oauthStateTTL bounds how long an issued state parameter stays valid.
const oauthStateTTL = 10 * time.Minute

// stateStore tracks issued CSRF state parameters. Consume is single use.
type stateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func newStateStore() *stateStore {
	return &stateStore{states: make(map[string]time.Time), now: time.Now}
}

func (s *stateStore) issue() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for state, expiresAt := range s.states {
		if !expiresAt.After(now) {
			delete(s.states, state)
		}
	}

	state := uuid.NewString()
	s.states[state] = now.Add(oauthStateTTL)
	return state
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return expiresAt.After(s.now())
}

// OAuthService runs the social login flow: authorization URL issuance,
// callback handling, identity normalization, account linking and session
// issuance. The provider access token is cached for the session so logout
// can revoke it later without the client resending it.
type OAuthService struct {
	adapters map[Provider]ProviderAdapter
	linker   *AccountLinker
	sessions *SessionIssuer
	cache    ProviderTokenCache
	states   *stateStore
	log      *slog.Logger
}

// OAuthOption configures an OAuthService.
type OAuthOption func(*OAuthService)

// WithOAuthLogger sets the logger.
func WithOAuthLogger(log *slog.Logger) OAuthOption {
	return func(s *OAuthService) { s.log = log }
}

// WithProviderTokenCache enables caching of provider access tokens.
func WithProviderTokenCache(cache ProviderTokenCache) OAuthOption {
	return func(s *OAuthService) { s.cache = cache }
}

// NewOAuthService creates the service with the given provider adapters.
func NewOAuthService(linker *AccountLinker, sessions *SessionIssuer, adapters []ProviderAdapter, opts ...OAuthOption) *OAuthService {
	s := &OAuthService{
		adapters: make(map[Provider]ProviderAdapter, len(adapters)),
		linker:   linker,
		sessions: sessions,
		states:   newStateStore(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, a := range adapters {
		s.adapters[a.Provider()] = a
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthURL returns the provider authorization URL with a fresh CSRF state.
func (s *OAuthService) AuthURL(_ context.Context, provider Provider) (string, error) {
	adapter, ok := s.adapters[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	return adapter.AuthURL(s.states.issue()), nil
}

// SocialLogin is the result of a completed OAuth2 callback.
type SocialLogin struct {
	Account  *Account
	Session  Session
	Identity Identity
}

// HandleCallback validates the state, exchanges the code, links the
// identity to an account and issues a session.
func (s *OAuthService) HandleCallback(ctx context.Context, provider Provider, code, state string) (SocialLogin, error) {
	adapter, ok := s.adapters[provider]
	if !ok {
		return SocialLogin{}, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	if !s.states.consume(state) {
		return SocialLogin{}, ErrInvalidState
	}

	attrs, providerToken, err := adapter.ResolveAttributes(ctx, code)
	if err != nil {
		return SocialLogin{}, err
	}

	normalizer, err := NormalizerFor(provider)
	if err != nil {
		return SocialLogin{}, err
	}
	identity, err := normalizer.Normalize(attrs)
	if err != nil {
		return SocialLogin{}, err
	}

	account, err := s.linker.LinkOrCreate(ctx, identity)
	if err != nil {
		return SocialLogin{}, err
	}

	session, err := s.sessions.IssueForLogin(ctx, account.Email)
	if err != nil {
		return SocialLogin{}, err
	}

	if s.cache != nil && providerToken != "" {
		if err := s.cache.Store(ctx, account.Email, provider, providerToken, session.RefreshTTL); err != nil {
			s.log.WarnContext(ctx, "failed to cache provider token",
				logger.UserEmail(account.Email),
				logger.Provider(string(provider)),
				logger.Error(err))
		}
	}

	s.log.InfoContext(ctx, "social login completed",
		logger.UserEmail(account.Email),
		logger.Provider(string(provider)))

	return SocialLogin{Account: account, Session: session, Identity: identity}, nil
}
