package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

const naverProfileURL = "https://openapi.naver.com/v1/nid/me"

// naverEndpoint is Naver's OAuth2 endpoint; x/oauth2 ships no preset for it.
var naverEndpoint = oauth2.Endpoint{
	AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
	TokenURL: "https://nid.naver.com/oauth2.0/token",
}

// NaverOAuthConfig configures the Naver login adapter.
type NaverOAuthConfig struct {
	ClientID     string `env:"NAVER_CLIENT_ID,required"`
	ClientSecret string `env:"NAVER_CLIENT_SECRET,required"`
	RedirectURL  string `env:"NAVER_REDIRECT_URL,required"`
}

type naverAdapter struct {
	oauth      *oauth2.Config
	profileURL string
}

// NewNaverAdapter creates the Naver provider adapter.
func NewNaverAdapter(cfg NaverOAuthConfig) ProviderAdapter {
	return &naverAdapter{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     naverEndpoint,
		},
		profileURL: naverProfileURL,
	}
}

func (a *naverAdapter) Provider() Provider { return ProviderNaver }

func (a *naverAdapter) AuthURL(state string) string {
	return a.oauth.AuthCodeURL(state)
}

func (a *naverAdapter) ResolveAttributes(ctx context.Context, code string) (map[string]any, string, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("%w: naver code exchange: %v", ErrInvalidCode, err)
	}
	attrs, err := fetchProfile(ctx, a.oauth.Client(ctx, token), a.profileURL)
	if err != nil {
		return nil, "", err
	}
	return attrs, token.AccessToken, nil
}
