package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleOAuthConfig configures the Google login adapter.
type GoogleOAuthConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID,required"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET,required"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL,required"`
}

type googleAdapter struct {
	oauth       *oauth2.Config
	userinfoURL string
}

// NewGoogleAdapter creates the Google provider adapter.
func NewGoogleAdapter(cfg GoogleOAuthConfig) ProviderAdapter {
	return &googleAdapter{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userinfoURL: googleUserinfoURL,
	}
}

func (a *googleAdapter) Provider() Provider { return ProviderGoogle }

func (a *googleAdapter) AuthURL(state string) string {
	return a.oauth.AuthCodeURL(state)
}

func (a *googleAdapter) ResolveAttributes(ctx context.Context, code string) (map[string]any, string, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("%w: google code exchange: %v", ErrInvalidCode, err)
	}
	attrs, err := fetchProfile(ctx, a.oauth.Client(ctx, token), a.userinfoURL)
	if err != nil {
		return nil, "", err
	}
	return attrs, token.AccessToken, nil
}

// fetchProfile GETs a userinfo endpoint and decodes the JSON payload.
func fetchProfile(ctx context.Context, client *http.Client, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: profile endpoint status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var attrs map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&attrs); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", ErrProviderUnavailable, err)
	}
	return attrs, nil
}
