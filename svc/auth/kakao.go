package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// KakaoLogoutConfig configures server-side Kakao session termination
// through the admin API.
type KakaoLogoutConfig struct {
	AdminKey  string        `env:"KAKAO_ADMIN_KEY"`
	LogoutURL string        `env:"KAKAO_LOGOUT_URL" envDefault:"https://kapi.kakao.com/v1/user/logout"`
	Timeout   time.Duration `env:"KAKAO_LOGOUT_TIMEOUT" envDefault:"5s"`
}

// KakaoLogoutClient ends a user's Kakao session server side. Kakao has no
// user-token revoke endpoint usable here; the admin key call targets the
// numeric user id instead, so no browser redirect is needed.
type KakaoLogoutClient struct {
	cfg    KakaoLogoutConfig
	client *http.Client
}

// NewKakaoLogoutClient creates a logout client from config.
func NewKakaoLogoutClient(cfg KakaoLogoutConfig) *KakaoLogoutClient {
	if cfg.LogoutURL == "" {
		cfg.LogoutURL = "https://kapi.kakao.com/v1/user/logout"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &KakaoLogoutClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether the admin key is present.
func (c *KakaoLogoutClient) Configured() bool { return c.cfg.AdminKey != "" }

// Logout terminates the Kakao session for the given provider user id.
func (c *KakaoLogoutClient) Logout(ctx context.Context, providerUserID string) error {
	form := url.Values{
		"target_id_type": {"user_id"},
		"target_id":      {providerUserID},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.LogoutURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build kakao logout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "KakaoAK "+c.cfg.AdminKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: kakao logout: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: kakao logout status %d", ErrProviderUnavailable, resp.StatusCode)
	}
	return nil
}
