package plansfeatures

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-care-marketplace/internal/platform/httpclient"
)

var (
	ErrPlansNotConfigured = errors.New("plans-features client not configured")
	ErrPlansUnauthorized  = errors.New("plans-features unauthorized")
	ErrPlansUpstream      = errors.New("plans-features upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

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

// FeaturesResponse: mapa plano feature -> habilitada.
// Ejemplo: {"catalog:unlimited_packages": true, "providers:featured_listing": false}
type FeaturesResponse struct {
	Features map[string]bool `json:"features"`
}

// GetFeatures trae las features del plan de un usuario.
func (c *Client) GetFeatures(ctx context.Context, userID string) (FeaturesResponse, error) {
	if !c.IsConfigured() {
		return FeaturesResponse{}, ErrPlansNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return FeaturesResponse{}, errors.New("userID required")
	}

	headers := map[string]string{c.apiKeyHeader: c.apiKey}

	var out FeaturesResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/v1/features?user_id="+userID, headers, nil, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
				return FeaturesResponse{}, ErrPlansUnauthorized
			}
			return FeaturesResponse{}, fmt.Errorf("%w: status=%d", ErrPlansUpstream, httpErr.StatusCode)
		}
		return FeaturesResponse{}, fmt.Errorf("%w: %v", ErrPlansUpstream, err)
	}

	if out.Features == nil {
		out.Features = map[string]bool{}
	}
	return out, nil
}
