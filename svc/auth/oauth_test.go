package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentica/userkit/svc/auth"
)

// fakeAdapter stands in for a provider during callback flow tests.
type fakeAdapter struct {
	provider auth.Provider
	attrs    map[string]any
	token    string
	err      error
}

func (f *fakeAdapter) Provider() auth.Provider { return f.provider }

func (f *fakeAdapter) AuthURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (f *fakeAdapter) ResolveAttributes(_ context.Context, _ string) (map[string]any, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.attrs, f.token, nil
}

func newOAuthService(t *testing.T, adapter auth.ProviderAdapter, cache auth.ProviderTokenCache) *auth.OAuthService {
	t.Helper()
	storage := auth.NewMemoryAccountStorage()
	issuer, _ := newTestIssuer(t)
	opts := []auth.OAuthOption{}
	if cache != nil {
		opts = append(opts, auth.WithProviderTokenCache(cache))
	}
	return auth.NewOAuthService(auth.NewAccountLinker(storage), issuer, []auth.ProviderAdapter{adapter}, opts...)
}

func TestOAuthService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	googleAttrs := map[string]any{
		"sub":   "g-1",
		"email": "user@gmail.com",
		"name":  "Jane",
	}

	t.Run("auth url carries an issued state", func(t *testing.T) {
		t.Parallel()

		svc := newOAuthService(t, &fakeAdapter{provider: auth.ProviderGoogle, attrs: googleAttrs}, nil)
		u, err := svc.AuthURL(ctx, auth.ProviderGoogle)
		require.NoError(t, err)
		assert.Contains(t, u, "state=")
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()

		svc := newOAuthService(t, &fakeAdapter{provider: auth.ProviderGoogle, attrs: googleAttrs}, nil)
		_, err := svc.AuthURL(ctx, auth.ProviderNaver)
		assert.ErrorIs(t, err, auth.ErrUnsupportedProvider)
	})

	t.Run("callback links the account and issues a session", func(t *testing.T) {
		t.Parallel()

		cache := auth.NewMemoryProviderTokenCache()
		svc := newOAuthService(t, &fakeAdapter{
			provider: auth.ProviderGoogle, attrs: googleAttrs, token: "provider-tok",
		}, cache)

		u, err := svc.AuthURL(ctx, auth.ProviderGoogle)
		require.NoError(t, err)
		state := u[len("https://provider.example/authorize?state="):]

		login, err := svc.HandleCallback(ctx, auth.ProviderGoogle, "code-1", state)
		require.NoError(t, err)
		assert.Equal(t, "user@gmail.com", login.Account.Email)
		assert.NotEmpty(t, login.Session.AccessToken)
		assert.NotEmpty(t, login.Session.RefreshToken)

		cached, err := cache.Load(ctx, "user@gmail.com", auth.ProviderGoogle)
		require.NoError(t, err)
		assert.Equal(t, "provider-tok", cached)
	})

	t.Run("state is single use", func(t *testing.T) {
		t.Parallel()

		svc := newOAuthService(t, &fakeAdapter{provider: auth.ProviderGoogle, attrs: googleAttrs}, nil)
		u, err := svc.AuthURL(ctx, auth.ProviderGoogle)
		require.NoError(t, err)
		state := u[len("https://provider.example/authorize?state="):]

		_, err = svc.HandleCallback(ctx, auth.ProviderGoogle, "code-1", state)
		require.NoError(t, err)

		_, err = svc.HandleCallback(ctx, auth.ProviderGoogle, "code-1", state)
		assert.ErrorIs(t, err, auth.ErrInvalidState)
	})

	t.Run("forged state is rejected", func(t *testing.T) {
		t.Parallel()

		svc := newOAuthService(t, &fakeAdapter{provider: auth.ProviderGoogle, attrs: googleAttrs}, nil)
		_, err := svc.HandleCallback(ctx, auth.ProviderGoogle, "code-1", "never-issued")
		assert.ErrorIs(t, err, auth.ErrInvalidState)
	})

	t.Run("adapter failure surfaces to the caller", func(t *testing.T) {
		t.Parallel()

		svc := newOAuthService(t, &fakeAdapter{
			provider: auth.ProviderGoogle, err: auth.ErrInvalidCode,
		}, nil)
		u, err := svc.AuthURL(ctx, auth.ProviderGoogle)
		require.NoError(t, err)
		state := u[len("https://provider.example/authorize?state="):]

		_, err = svc.HandleCallback(ctx, auth.ProviderGoogle, "bad-code", state)
		assert.ErrorIs(t, err, auth.ErrInvalidCode)
	})

	t.Run("kakao without email consent lands on a placeholder account", func(t *testing.T) {
		t.Parallel()

		svc := newOAuthService(t, &fakeAdapter{
			provider: auth.ProviderKakao,
			attrs: map[string]any{
				"id": float64(12345),
				"kakao_account": map[string]any{
					"email":                 "user@kakao.com",
					"email_needs_agreement": true,
				},
			},
		}, nil)
		u, err := svc.AuthURL(ctx, auth.ProviderKakao)
		require.NoError(t, err)
		state := u[len("https://provider.example/authorize?state="):]

		login, err := svc.HandleCallback(ctx, auth.ProviderKakao, "code-1", state)
		require.NoError(t, err)
		assert.Equal(t, "kakao_12345@placeholder.invalid", login.Account.Email)
		assert.True(t, login.Account.NeedsRealEmail)
	})
}
