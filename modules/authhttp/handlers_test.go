package authhttp_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/agentica/userkit/modules/authhttp"
	"github.com/agentica/userkit/pkg/cookie"
	"github.com/agentica/userkit/svc/auth"
)

func newTestModule(t *testing.T) (*authhttp.Module, *auth.MemoryAccountStorage) {
	t.Helper()

	storage := auth.NewMemoryAccountStorage()
	refresh := auth.NewMemoryRefreshTokenStore(0)
	t.Cleanup(refresh.Close)

	codec, err := auth.NewTokenCodec(auth.TokenConfig{Secret: "test-secret-key-of-decent-length"})
	require.NoError(t, err)
	sessions := auth.NewSessionIssuer(codec, refresh)
	local := auth.NewLocalAuthService(storage, auth.WithBcryptCost(bcrypt.MinCost))
	linker := auth.NewAccountLinker(storage)
	urls := auth.NewLogoutURLBuilder(auth.LogoutURLConfig{AppBaseURL: "https://app.example.com"})

	m := authhttp.New(authhttp.Deps{
		Local:    local,
		OAuth:    auth.NewOAuthService(linker, sessions, nil),
		Sessions: sessions,
		Logout:   auth.NewLogoutOrchestrator(sessions, nil, urls),
		Deletion: auth.NewAccountDeletionService(storage, sessions, auth.NewDeletionTokenStore(), urls),
		Storage:  storage,
		Codec:    codec,
		Cookies:  cookie.New(),
	})
	return m, storage
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func joinAndVerify(t *testing.T, m *authhttp.Module, storage *auth.MemoryAccountStorage) {
	t.Helper()
	rec := doJSON(t, m.Handle(), http.MethodPost, "/join",
		`{"email":"user@example.com","password":"s3cret-pass","name":"Jane"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	account, err := storage.GetByEmail(t.Context(), "user@example.com")
	require.NoError(t, err)
	account.EmailVerified = true
	require.NoError(t, storage.Update(t.Context(), account))
}

func login(t *testing.T, m *authhttp.Module) []*http.Cookie {
	t.Helper()
	rec := doJSON(t, m.Handle(), http.MethodPost, "/login",
		`{"email":"user@example.com","password":"s3cret-pass"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	return cookies
}

func TestJoinAndLogin(t *testing.T) {
	t.Parallel()

	t.Run("join then login sets session cookies", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)
		cookies := login(t, m)

		names := []string{cookies[0].Name, cookies[1].Name}
		assert.ElementsMatch(t, []string{"accessToken", "refreshToken"}, names)
		for _, c := range cookies {
			assert.True(t, c.HttpOnly)
			assert.Equal(t, "/", c.Path)
			assert.Positive(t, c.MaxAge)
		}
	})

	t.Run("unverified account cannot log in", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestModule(t)
		rec := doJSON(t, m.Handle(), http.MethodPost, "/join",
			`{"email":"user@example.com","password":"s3cret-pass","name":"Jane"}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, m.Handle(), http.MethodPost, "/login",
			`{"email":"user@example.com","password":"s3cret-pass"}`, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)

		rec := doJSON(t, m.Handle(), http.MethodPost, "/login",
			`{"email":"user@example.com","password":"wrong"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate join", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)

		rec := doJSON(t, m.Handle(), http.MethodPost, "/join",
			`{"email":"user@example.com","password":"other","name":"John"}`, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("rotates the refresh cookie", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)
		cookies := login(t, m)

		rec := doJSON(t, m.Handle(), http.MethodPost, "/refresh", "", cookies)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rotated := rec.Result().Cookies()
		require.Len(t, rotated, 2)
		for _, c := range rotated {
			if c.Name == "refreshToken" {
				for _, old := range cookies {
					if old.Name == "refreshToken" {
						assert.NotEqual(t, old.Value, c.Value)
					}
				}
			}
		}
	})

	t.Run("replayed refresh token clears the session", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)
		cookies := login(t, m)

		rec := doJSON(t, m.Handle(), http.MethodPost, "/refresh", "", cookies)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, m.Handle(), http.MethodPost, "/refresh", "", cookies)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		for _, c := range rec.Result().Cookies() {
			assert.Equal(t, -1, c.MaxAge)
		}
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestModule(t)
		rec := doJSON(t, m.Handle(), http.MethodPost, "/refresh", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("returns the authenticated account", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)
		cookies := login(t, m)

		rec := doJSON(t, m.Handle(), http.MethodGet, "/me", "", cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "user@example.com", body["email"])
		assert.Equal(t, "local", body["provider"])
	})

	t.Run("rejects without a token", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestModule(t)
		rec := doJSON(t, m.Handle(), http.MethodGet, "/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepts a bearer header", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)
		cookies := login(t, m)

		var access string
		for _, c := range cookies {
			if c.Name == "accessToken" {
				access = c.Value
			}
		}
		require.NotEmpty(t, access)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		m.Handle().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("local logout clears cookies and revokes refresh", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)
		cookies := login(t, m)

		rec := doJSON(t, m.Handle(), http.MethodPost, "/logout", "", cookies)
		require.Equal(t, http.StatusNoContent, rec.Code)
		for _, c := range rec.Result().Cookies() {
			assert.Equal(t, -1, c.MaxAge)
			assert.True(t, c.Expires.Before(time.Now()))
		}

		rec = doJSON(t, m.Handle(), http.MethodPost, "/refresh", "", cookies)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("google account gets a provider redirect url", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)
		cookies := login(t, m)

		account, err := storage.GetByEmail(t.Context(), "user@example.com")
		require.NoError(t, err)
		account.Provider = auth.ProviderGoogle
		require.NoError(t, storage.Update(t.Context(), account))

		rec := doJSON(t, m.Handle(), http.MethodPost, "/logout", "", cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["redirectUrl"], "accounts.google.com/logout")
	})
}

func TestDeleteAccountFlow(t *testing.T) {
	t.Parallel()

	t.Run("local account is deleted immediately", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)
		cookies := login(t, m)

		rec := doJSON(t, m.Handle(), http.MethodPost, "/delete-account", "", cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["deleted"])

		_, err := storage.GetByEmail(t.Context(), "user@example.com")
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})

	t.Run("social account completes through the return leg", func(t *testing.T) {
		t.Parallel()

		m, storage := newTestModule(t)
		joinAndVerify(t, m, storage)
		cookies := login(t, m)

		account, err := storage.GetByEmail(t.Context(), "user@example.com")
		require.NoError(t, err)
		account.Provider = auth.ProviderKakao
		require.NoError(t, storage.Update(t.Context(), account))

		rec := doJSON(t, m.Handle(), http.MethodPost, "/delete-account", "", cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		redirect, _ := body["redirectUrl"].(string)
		require.NotEmpty(t, redirect)

		// Extract the return leg the provider would redirect to.
		parsed, err := url.Parse(redirect)
		require.NoError(t, err)
		returnLeg, err := url.QueryUnescape(parsed.Query().Get("logout_redirect_uri"))
		require.NoError(t, err)
		returnURL, err := url.Parse(returnLeg)
		require.NoError(t, err)
		token := returnURL.Query().Get("token")
		require.NotEmpty(t, token)

		rec = doJSON(t, m.Handle(), http.MethodGet, "/complete-delete-account?token="+token, "", nil)
		assert.Equal(t, http.StatusFound, rec.Code)

		_, err = storage.GetByEmail(t.Context(), "user@example.com")
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})

	t.Run("reused deletion token", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestModule(t)
		rec := doJSON(t, m.Handle(), http.MethodGet, "/complete-delete-account?token=never-issued", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSetPasswordEndpoint(t *testing.T) {
	t.Parallel()

	m, storage := newTestModule(t)
	joinAndVerify(t, m, storage)
	cookies := login(t, m)

	account, err := storage.GetByEmail(t.Context(), "user@example.com")
	require.NoError(t, err)
	account.Provider = auth.ProviderGoogle
	account.PasswordHash = nil
	require.NoError(t, storage.Update(t.Context(), account))

	rec := doJSON(t, m.Handle(), http.MethodPost, "/password", `{"password":"brand-new-pass"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "local", body["provider"])
}

func TestOAuthStartEndpoint(t *testing.T) {
	t.Parallel()

	m, _ := newTestModule(t)
	// No adapters were registered, so every provider is unsupported.
	rec := doJSON(t, m.Handle(), http.MethodGet, "/oauth/google", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
