package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

const kakaoProfileURL = "https://kapi.kakao.com/v2/user/me"

var kakaoEndpoint = oauth2.Endpoint{
	AuthURL:  "https://kauth.kakao.com/oauth/authorize",
	TokenURL: "https://kauth.kakao.com/oauth/token",
}

// KakaoOAuthConfig configures the Kakao login adapter. Kakao treats the
// client secret as optional; apps without one leave it empty.
type KakaoOAuthConfig struct {
	ClientID     string `env:"KAKAO_CLIENT_ID,required"`
	ClientSecret string `env:"KAKAO_CLIENT_SECRET"`
	RedirectURL  string `env:"KAKAO_REDIRECT_URL,required"`
}

type kakaoAdapter struct {
	oauth      *oauth2.Config
	profileURL string
}

// NewKakaoAdapter creates the Kakao provider adapter.
func NewKakaoAdapter(cfg KakaoOAuthConfig) ProviderAdapter {
	return &kakaoAdapter{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"profile_nickname", "profile_image", "account_email"},
			Endpoint:     kakaoEndpoint,
		},
		profileURL: kakaoProfileURL,
	}
}

func (a *kakaoAdapter) Provider() Provider { return ProviderKakao }

func (a *kakaoAdapter) AuthURL(state string) string {
	return a.oauth.AuthCodeURL(state)
}

func (a *kakaoAdapter) ResolveAttributes(ctx context.Context, code string) (map[string]any, string, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("%w: kakao code exchange: %v", ErrInvalidCode, err)
	}
	attrs, err := fetchProfile(ctx, a.oauth.Client(ctx, token), a.profileURL)
	if err != nil {
		return nil, "", err
	}
	return attrs, token.AccessToken, nil
}
