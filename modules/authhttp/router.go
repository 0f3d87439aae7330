// Package authhttp exposes the auth service over HTTP. The router mounts
// local credential endpoints, the OAuth2 login flow, session refresh and
// the logout and account deletion flows; session tokens travel as
// HttpOnly cookies and, for API clients, as bearer headers.
package authhttp

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentica/userkit/pkg/cookie"
	"github.com/agentica/userkit/pkg/jwt"
	"github.com/agentica/userkit/svc/auth"
)

// Module bundles the auth service endpoints behind one router.
type Module struct {
	local    *auth.LocalAuthService
	oauth    *auth.OAuthService
	sessions *auth.SessionIssuer
	logout   *auth.LogoutOrchestrator
	deletion *auth.AccountDeletionService
	storage  auth.AccountStorage
	codec    *auth.TokenCodec
	cookies  *cookie.Manager
	log      *slog.Logger

	// loginRedirect is where the OAuth callback sends the browser after
	// a completed social login.
	loginRedirect string
}

// Option configures the module.
type Option func(*Module)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Module) { m.log = log }
}

// WithLoginRedirect sets the post-login browser destination.
func WithLoginRedirect(url string) Option {
	return func(m *Module) { m.loginRedirect = url }
}

// Deps carries the service dependencies for New.
type Deps struct {
	Local    *auth.LocalAuthService
	OAuth    *auth.OAuthService
	Sessions *auth.SessionIssuer
	Logout   *auth.LogoutOrchestrator
	Deletion *auth.AccountDeletionService
	Storage  auth.AccountStorage
	Codec    *auth.TokenCodec
	Cookies  *cookie.Manager
}

// New creates the HTTP module.
func New(deps Deps, opts ...Option) *Module {
	m := &Module{
		local:         deps.Local,
		oauth:         deps.OAuth,
		sessions:      deps.Sessions,
		logout:        deps.Logout,
		deletion:      deps.Deletion,
		storage:       deps.Storage,
		codec:         deps.Codec,
		cookies:       deps.Cookies,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		loginRedirect: "/",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle returns the mountable router.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/join", m.handleJoin)
	r.Post("/login", m.handleLogin)
	r.Post("/refresh", m.handleRefresh)

	r.Get("/oauth/{provider}", m.handleOAuthStart)
	r.Get("/oauth/{provider}/callback", m.handleOAuthCallback)

	// The deletion completion leg arrives from a provider redirect with
	// no session cookie left, so it stays outside the authed group.
	r.Get("/complete-delete-account", m.handleCompleteDeleteAccount)

	r.Group(func(authed chi.Router) {
		authed.Use(jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
			Service:   m.codec.JWT(),
			Extractor: jwt.BearerOrCookieExtractor(auth.CookieAccessToken),
		}))
		authed.Get("/me", m.handleMe)
		authed.Post("/logout", m.handleLogout)
		authed.Post("/password", m.handleSetPassword)
		authed.Post("/delete-account", m.handleDeleteAccount)
	})

	return r
}
