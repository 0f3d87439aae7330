package auth

import (
	"fmt"
	"net/url"
)

// LogoutURLConfig configures the browser-side logout and account deletion
// redirect URLs.
type LogoutURLConfig struct {
	// AppBaseURL is where providers send the browser back after their
	// logout page ran, e.g. "https://app.example.com".
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	// NaverFullLogout also signs the browser out of every Naver service,
	// not just the OAuth session.
	NaverFullLogout bool `env:"NAVER_FULL_LOGOUT" envDefault:"false"`
}

// LogoutURLBuilder constructs provider logout URLs. Google and Naver only
// clear their browser session through a redirect; Kakao is handled server
// side except during account deletion, where its OAuth logout page carries
// the deletion token back.
type LogoutURLBuilder struct {
	cfg LogoutURLConfig
}

// NewLogoutURLBuilder creates a builder from config.
func NewLogoutURLBuilder(cfg LogoutURLConfig) *LogoutURLBuilder {
	if cfg.AppBaseURL == "" {
		cfg.AppBaseURL = "http://localhost:8080"
	}
	return &LogoutURLBuilder{cfg: cfg}
}

// GoogleLogout returns the Google sign-out URL that bounces back to the
// given return path.
func (b *LogoutURLBuilder) GoogleLogout(returnTo string) string {
	return "https://accounts.google.com/logout?continue=" + url.QueryEscape(b.absolute(returnTo))
}

// NaverLogout returns the Naver sign-out URL. With full logout enabled the
// browser is signed out of all Naver services.
func (b *LogoutURLBuilder) NaverLogout(returnTo string) string {
	u := "https://nid.naver.com/nidlogin.logout?returl=" + url.QueryEscape(b.absolute(returnTo))
	if b.cfg.NaverFullLogout {
		u += "&service=all&mode=logout_all"
	}
	return u
}

// KakaoLogout returns the Kakao OAuth logout URL that redirects back to
// the given return path.
func (b *LogoutURLBuilder) KakaoLogout(returnTo string) string {
	return "https://kauth.kakao.com/oauth/logout?logout_redirect_uri=" + url.QueryEscape(b.absolute(returnTo))
}

// DeleteAccountRedirect returns the provider logout URL whose return leg
// lands on the deletion completion endpoint carrying the one-time token.
// Local accounts need no provider round trip and get an empty string.
func (b *LogoutURLBuilder) DeleteAccountRedirect(provider Provider, token string) string {
	callback := fmt.Sprintf("/complete-delete-account?provider=%s&token=%s",
		url.QueryEscape(string(provider)), url.QueryEscape(token))

	switch provider {
	case ProviderGoogle:
		return b.GoogleLogout(callback)
	case ProviderNaver:
		return b.NaverLogout(callback)
	case ProviderKakao:
		return b.KakaoLogout(callback)
	default:
		return ""
	}
}

func (b *LogoutURLBuilder) absolute(path string) string {
	if path == "" {
		return b.cfg.AppBaseURL
	}
	return b.cfg.AppBaseURL + path
}
