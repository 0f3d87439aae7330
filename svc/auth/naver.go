package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NaverRevokeConfig configures server-side Naver token revocation.
type NaverRevokeConfig struct {
	ClientID     string        `env:"NAVER_CLIENT_ID"`
	ClientSecret string        `env:"NAVER_CLIENT_SECRET"`
	RevokeURL    string        `env:"NAVER_REVOKE_URL" envDefault:"https://nid.naver.com/oauth2.0/token"`
	Timeout      time.Duration `env:"NAVER_REVOKE_TIMEOUT" envDefault:"5s"`
}

// NaverRevokeClient deletes a Naver access token through the token
// endpoint's grant_type=delete call. Naver answers HTTP 200 even on
// failure, so success is read from the response body instead.
type NaverRevokeClient struct {
	cfg    NaverRevokeConfig
	client *http.Client
}

// NewNaverRevokeClient creates a revoke client from config.
func NewNaverRevokeClient(cfg NaverRevokeConfig) *NaverRevokeClient {
	if cfg.RevokeURL == "" {
		cfg.RevokeURL = "https://nid.naver.com/oauth2.0/token"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &NaverRevokeClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether client credentials are present.
func (c *NaverRevokeClient) Configured() bool {
	return c.cfg.ClientID != "" && c.cfg.ClientSecret != ""
}

// Revoke deletes the access token on Naver's side. It returns true only
// when the body reports result=success; a reachable endpoint reporting
// failure returns (false, nil).
func (c *NaverRevokeClient) Revoke(ctx context.Context, accessToken string) (bool, error) {
	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"access_token":  {accessToken},
		"grant_type":    {"delete"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: naver revoke: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return false, fmt.Errorf("read revoke response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, nil
	}

	var parsed struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false, nil
	}
	return parsed.Result == "success", nil
}
