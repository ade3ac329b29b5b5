package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-care-marketplace/internal/platform/httpclient"
	"pet-care-marketplace/internal/ports/auth"
)

var (
	ErrGatewayNotConfigured = errors.New("auth gateway client not configured")
	ErrGatewayUnauthorized  = errors.New("auth gateway unauthorized")
	ErrGatewayUpstream      = errors.New("auth gateway upstream error")
)

// Config del cliente del IAM central del marketplace.
// BaseURL y APIKey normalmente vienen de env vars (AUTH_BASE_URL, AUTH_API_KEY).
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header de la API key. Default "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

type verifyResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
}

// VerifyToken verifica un token contra el IAM y trae claims.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrGatewayNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrGatewayUnauthorized
	}

	headers := map[string]string{
		c.apiKeyHeader: c.apiKey,
		// Algunos IAM esperan el token en Authorization aunque también vaya en body.
		"Authorization": "Bearer " + token,
	}

	var out verifyResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/tokens/verify", headers, map[string]string{"token": token}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrGatewayUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrGatewayUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrGatewayUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("gateway response missing user_id")
	}

	return auth.Claims{
		UserID:   out.UserID,
		Email:    strings.TrimSpace(out.Email),
		Role:     auth.Role(strings.TrimSpace(out.Role)),
		TenantID: strings.TrimSpace(out.TenantID),
	}, nil
}
