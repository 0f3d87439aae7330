package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/agentica/userkit/pkg/logger"
	"github.com/agentica/userkit/pkg/statemachine"
)

// Logout flow states. The orchestrator walks start through completed; a
// step that cannot finish logs and the walk continues, because only local
// token revocation affects correctness.
const (
	stateLogoutStart            = statemachine.StringState("start")
	stateLogoutLocalInvalidated = statemachine.StringState("local_invalidated")
	stateLogoutTokensRevoked    = statemachine.StringState("tokens_revoked")
	stateLogoutProviderNotified = statemachine.StringState("provider_notified")
	stateLogoutCompleted        = statemachine.StringState("completed")

	eventInvalidateLocal = statemachine.StringEvent("invalidate_local")
	eventRevokeTokens    = statemachine.StringEvent("revoke_tokens")
	eventNotifyProvider  = statemachine.StringEvent("notify_provider")
	eventComplete        = statemachine.StringEvent("complete")
)

// LogoutRequest carries everything the orchestrator needs. ProviderUserID
// is only required for Kakao; ProviderToken is the provider access token
// the client presented, if any.
type LogoutRequest struct {
	Email          string
	Provider       Provider
	ProviderUserID string
	ProviderToken  string
}

// LogoutResult reports how the client should finish the logout. Logout
// always succeeds from the caller's perspective; RedirectURL is set when
// the browser must visit a provider page to clear its session there.
type LogoutResult struct {
	RedirectRequired bool
	RedirectURL      string
	// Background is true when provider cleanup already ran server side.
	Background bool
	// ClearCookies lists the session cookie names the transport layer
	// must expire.
	ClearCookies []string
}

// LogoutOrchestrator drives the multi-step logout flow. Local session and
// refresh token revocation are the only steps whose failure matters;
// provider notification is best effort with a bounded timeout.
type LogoutOrchestrator struct {
	sessions *SessionIssuer
	cache    ProviderTokenCache
	naver    *NaverRevokeClient
	kakao    *KakaoLogoutClient
	urls     *LogoutURLBuilder
	timeout  time.Duration
	log      *slog.Logger
}

// LogoutOption configures a LogoutOrchestrator.
type LogoutOption func(*LogoutOrchestrator)

// WithLogoutLogger sets the logger.
func WithLogoutLogger(log *slog.Logger) LogoutOption {
	return func(o *LogoutOrchestrator) { o.log = log }
}

// WithLogoutTimeout bounds each provider call.
func WithLogoutTimeout(d time.Duration) LogoutOption {
	return func(o *LogoutOrchestrator) { o.timeout = d }
}

// WithNaverRevoke enables server-side Naver token revocation.
func WithNaverRevoke(client *NaverRevokeClient) LogoutOption {
	return func(o *LogoutOrchestrator) { o.naver = client }
}

// WithKakaoLogout enables server-side Kakao session termination.
func WithKakaoLogout(client *KakaoLogoutClient) LogoutOption {
	return func(o *LogoutOrchestrator) { o.kakao = client }
}

// NewLogoutOrchestrator creates the orchestrator. The provider token cache
// may be nil when no social provider needs cached tokens.
func NewLogoutOrchestrator(sessions *SessionIssuer, cache ProviderTokenCache, urls *LogoutURLBuilder, opts ...LogoutOption) *LogoutOrchestrator {
	o := &LogoutOrchestrator{
		sessions: sessions,
		cache:    cache,
		urls:     urls,
		timeout:  5 * time.Second,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Logout runs the full flow. It never fails: provider errors and timeouts
// are logged and the result still instructs the client to clear its
// session.
func (o *LogoutOrchestrator) Logout(ctx context.Context, req LogoutRequest) LogoutResult {
	result := LogoutResult{
		ClearCookies: []string{CookieAccessToken, CookieRefreshToken},
	}

	// Sessions are cookie-borne JWTs, so local invalidation has no server
	// state of its own; the ClearCookies instruction above is that step.
	// It still precedes token revocation in the walk so no request can
	// observe revoked tokens behind a live session.
	m := statemachine.New(stateLogoutStart)
	m.AddTransition(stateLogoutStart, stateLogoutLocalInvalidated, eventInvalidateLocal, nil, nil)
	m.AddTransition(stateLogoutLocalInvalidated, stateLogoutTokensRevoked, eventRevokeTokens, nil,
		[]statemachine.Action{func(ctx context.Context, _, _ statemachine.State, _ statemachine.Event, _ any) error {
			if err := o.sessions.Revoke(ctx, req.Email); err != nil {
				o.log.ErrorContext(ctx, "failed to revoke refresh token",
					logger.UserEmail(req.Email), logger.Error(err))
			}
			return nil
		}})
	m.AddTransition(stateLogoutTokensRevoked, stateLogoutProviderNotified, eventNotifyProvider, nil,
		[]statemachine.Action{func(ctx context.Context, _, _ statemachine.State, _ statemachine.Event, _ any) error {
			o.notifyProvider(ctx, req, &result)
			return nil
		}})
	m.AddTransition(stateLogoutProviderNotified, stateLogoutCompleted, eventComplete, nil, nil)

	for _, ev := range []statemachine.Event{eventInvalidateLocal, eventRevokeTokens, eventNotifyProvider, eventComplete} {
		if err := m.Fire(ctx, ev, nil); err != nil {
			o.log.ErrorContext(ctx, "logout step failed",
				slog.String("event", ev.Name()),
				slog.String("state", m.Current().Name()),
				logger.UserEmail(req.Email),
				logger.Error(err))
			break
		}
	}

	return result
}

// notifyProvider performs the provider-specific cleanup. The provider to
// notify comes from the request; when the session does not identify one,
// cached provider tokens are tried as a fallback.
func (o *LogoutOrchestrator) notifyProvider(ctx context.Context, req LogoutRequest, result *LogoutResult) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	switch req.Provider {
	case ProviderGoogle:
		result.RedirectRequired = true
		result.RedirectURL = o.urls.GoogleLogout("")

	case ProviderNaver:
		o.revokeNaver(ctx, req)
		result.RedirectRequired = true
		result.RedirectURL = o.urls.NaverLogout("")

	case ProviderKakao:
		if o.kakao != nil && o.kakao.Configured() && req.ProviderUserID != "" {
			if err := o.kakao.Logout(ctx, req.ProviderUserID); err != nil {
				o.log.WarnContext(ctx, "kakao logout failed",
					logger.UserEmail(req.Email), logger.Error(err))
			}
			result.Background = true
		}
		o.clearCachedToken(ctx, req.Email, ProviderKakao)

	default:
		// The session did not identify a social provider. Try cached
		// provider tokens so a social login that lost its provider tag
		// still gets revoked where possible.
		o.revokeNaver(ctx, LogoutRequest{Email: req.Email, Provider: ProviderNaver})
	}
}

func (o *LogoutOrchestrator) revokeNaver(ctx context.Context, req LogoutRequest) {
	if o.naver == nil || !o.naver.Configured() {
		return
	}

	token := req.ProviderToken
	if token == "" && o.cache != nil {
		cached, err := o.cache.Load(ctx, req.Email, ProviderNaver)
		if err != nil {
			if !errors.Is(err, ErrProviderTokenNotFound) {
				o.log.WarnContext(ctx, "provider token cache lookup failed",
					logger.UserEmail(req.Email), logger.Error(err))
			}
			return
		}
		token = cached
	}
	if token == "" {
		return
	}

	ok, err := o.naver.Revoke(ctx, token)
	switch {
	case err != nil:
		o.log.WarnContext(ctx, "naver token revoke failed",
			logger.UserEmail(req.Email), logger.Error(err))
	case !ok:
		o.log.WarnContext(ctx, "naver token revoke reported failure",
			logger.UserEmail(req.Email))
	default:
		o.clearCachedToken(ctx, req.Email, ProviderNaver)
	}
}

func (o *LogoutOrchestrator) clearCachedToken(ctx context.Context, email string, provider Provider) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Clear(ctx, email, provider); err != nil {
		o.log.WarnContext(ctx, "failed to clear cached provider token",
			logger.UserEmail(email), logger.Provider(string(provider)), logger.Error(err))
	}
}
