// Package idp talks to the hosted identity provider (a GoTrue-style auth
// API). The provider owns credentials and email delivery; this service only
// asks it to issue links and verifies the session tokens it mints.
package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/launchcopy/accessgate/internal/apierr"
)

var (
	logger = log.With().Str("component", "idp").Logger()
)

type Config struct {
	// BaseURL of the provider's auth API, e.g. https://xyz.supabase.co/auth/v1
	BaseURL string `yaml:"base_url"`

	// ServiceKey authorizes admin endpoints (generate_link).
	ServiceKey string `yaml:"service_key"`

	// JWTSecret verifies HS256 session tokens issued by the provider.
	JWTSecret string `yaml:"jwt_secret"`

	// SiteURL is the public base URL of this service, used to build
	// magic-link callback targets.
	SiteURL string `yaml:"site_url"`
}

func (c *Config) Validate() {
	if c.BaseURL == "" {
		logger.Fatal().Msg("idp.Config: BaseURL is missing")
	}
	if c.ServiceKey == "" {
		logger.Fatal().Msg("idp.Config: ServiceKey is missing")
	}
	if c.JWTSecret == "" {
		logger.Fatal().Msg("idp.Config: JWTSecret is missing")
	}
	if c.SiteURL == "" {
		logger.Fatal().Msg("idp.Config: SiteURL is missing")
	}
}

type Client struct {
	config     *Config
	httpClient *http.Client
}

func New(config *Config) *Client {
	return &Client{
		config:     config,
		httpClient: http.DefaultClient,
	}
}

// SiteURL is the public base URL of this service, for building callback
// targets embedded in provider-issued links.
func (c *Client) SiteURL() string {
	return c.config.SiteURL
}

// GenerateMagicLink asks the provider to email a one-time sign-in link to
// email, landing on redirectTo after the user clicks it. The provider
// accepting the request does not guarantee delivery.
func (c *Client) GenerateMagicLink(ctx context.Context, email, redirectTo string) error {
	body := map[string]any{
		"type":  "magiclink",
		"email": email,
		"options": map[string]any{
			"redirect_to": redirectTo,
		},
	}
	return c.post(ctx, "/admin/generate_link", body)
}

// ResendVerification asks the provider to re-send the signup verification
// email for an unconfirmed account.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	body := map[string]any{
		"type":  "signup",
		"email": email,
	}
	return c.post(ctx, "/resend", body)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.ServiceKey)
	req.Header.Set("apikey", c.config.ServiceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Upstream("Identity provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Providers return a JSON error body; keep it server-side only.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Error().
			Int("status", resp.StatusCode).
			Str("path", path).
			Bytes("body", detail).
			Msg("Identity provider request rejected")
		return apierr.Upstream("Identity provider request failed",
			fmt.Errorf("%s: status %d", path, resp.StatusCode))
	}

	return nil
}
