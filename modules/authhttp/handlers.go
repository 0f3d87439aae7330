package authhttp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentica/userkit/pkg/cookie"
	"github.com/agentica/userkit/pkg/jwt"
	"github.com/agentica/userkit/pkg/logger"
	"github.com/agentica/userkit/svc/auth"
)

type joinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type accountResponse struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	AvatarURL      string `json:"avatarUrl,omitempty"`
	Provider       string `json:"provider"`
	NeedsRealEmail bool   `json:"needsRealEmail,omitempty"`
}

func toAccountResponse(a *auth.Account) accountResponse {
	return accountResponse{
		Email:          a.Email,
		Name:           a.Name,
		AvatarURL:      a.AvatarURL,
		Provider:       a.Provider.String(),
		NeedsRealEmail: a.NeedsRealEmail,
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v)
}

func (m *Module) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
		return
	}

	account, err := m.local.Join(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (m *Module) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	account, err := m.local.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := m.sessions.IssueForLogin(r.Context(), account.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookies(w, m.cookies, session)
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// handleRefresh rotates the refresh token. The token is read from the
// refresh cookie; any verification failure clears both cookies so the
// client falls back to a clean login.
func (m *Module) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token, err := m.cookies.Get(r, auth.CookieRefreshToken)
	if err != nil {
		if errors.Is(err, cookie.ErrCookieNotFound) {
			writeError(w, auth.ErrInvalidToken)
			return
		}
		writeError(w, err)
		return
	}

	session, err := m.sessions.Refresh(r.Context(), token)
	if err != nil {
		auth.ClearSessionCookies(w, m.cookies)
		writeError(w, err)
		return
	}

	auth.SetSessionCookies(w, m.cookies, session)
	w.WriteHeader(http.StatusNoContent)
}

func (m *Module) handleOAuthStart(w http.ResponseWriter, r *http.Request) {
	provider := auth.ParseProvider(chi.URLParam(r, "provider"))

	url, err := m.oauth.AuthURL(r.Context(), provider)
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (m *Module) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider := auth.ParseProvider(chi.URLParam(r, "provider"))
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	login, err := m.oauth.HandleCallback(r.Context(), provider, code, state)
	if err != nil {
		m.log.WarnContext(r.Context(), "oauth callback failed",
			logger.Provider(provider.String()), logger.Error(err))
		writeError(w, err)
		return
	}

	auth.SetSessionCookies(w, m.cookies, login.Session)
	http.Redirect(w, r, m.loginRedirect, http.StatusFound)
}

func (m *Module) handleMe(w http.ResponseWriter, r *http.Request) {
	email, ok := subjectFromContext(r)
	if !ok {
		writeError(w, auth.ErrInvalidToken)
		return
	}

	account, err := m.storage.GetByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (m *Module) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	email, ok := subjectFromContext(r)
	if !ok {
		writeError(w, auth.ErrInvalidToken)
		return
	}

	var req passwordRequest
	if err := decode(r, &req); err != nil || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "password is required"})
		return
	}

	account, err := m.local.SetPassword(r.Context(), email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

type logoutResponse struct {
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// handleLogout always succeeds. The response carries a provider logout
// URL when the browser still has a provider session to clear.
func (m *Module) handleLogout(w http.ResponseWriter, r *http.Request) {
	email, ok := subjectFromContext(r)
	if !ok {
		writeError(w, auth.ErrInvalidToken)
		return
	}

	req := auth.LogoutRequest{Email: email, Provider: auth.ProviderLocal}
	if account, err := m.storage.GetByEmail(r.Context(), email); err == nil {
		req.Provider = account.Provider
		req.ProviderUserID = account.ProviderUserID
	}

	result := m.logout.Logout(r.Context(), req)
	auth.ClearSessionCookies(w, m.cookies)

	if result.RedirectRequired {
		writeJSON(w, http.StatusOK, logoutResponse{RedirectURL: result.RedirectURL})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type deleteAccountResponse struct {
	RedirectURL string `json:"redirectUrl,omitempty"`
	Deleted     bool   `json:"deleted"`
}

func (m *Module) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	email, ok := subjectFromContext(r)
	if !ok {
		writeError(w, auth.ErrInvalidToken)
		return
	}

	ticket, err := m.deletion.Begin(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	if ticket.RedirectURL != "" {
		// Social account: the browser must clear the provider session
		// first; the token comes back on the return leg.
		writeJSON(w, http.StatusOK, deleteAccountResponse{RedirectURL: ticket.RedirectURL})
		return
	}

	auth.ClearSessionCookies(w, m.cookies)
	writeJSON(w, http.StatusOK, deleteAccountResponse{Deleted: true})
}

func (m *Module) handleCompleteDeleteAccount(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "token is required"})
		return
	}

	if err := m.deletion.Complete(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	auth.ClearSessionCookies(w, m.cookies)
	http.Redirect(w, r, m.loginRedirect, http.StatusFound)
}

func subjectFromContext(r *http.Request) (string, bool) {
	claims, ok := jwt.GetClaims(r.Context())
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
