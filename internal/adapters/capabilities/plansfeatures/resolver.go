package plansfeatures

import (
	"context"
	"errors"
	"os"
	"strings"

	"pet-care-marketplace/internal/ports/capabilities"
)

// Resolver implementa capabilities.Resolver contra plans-features.
// Si ALLOW_ALL_CAPABILITIES=true (env), todo devuelve true (modo dev / fallback).
type Resolver struct {
	client   *Client
	allowAll bool
}

func NewResolver(client *Client) *Resolver {
	allowAll := strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_ALL_CAPABILITIES")), "true")
	return &Resolver{
		client:   client,
		allowAll: allowAll,
	}
}

func (r *Resolver) Has(ctx context.Context, c capabilities.Check) (bool, error) {
	feature := strings.TrimSpace(c.Feature)
	if feature == "" {
		return false, errors.New("feature required")
	}

	if r != nil && r.allowAll {
		return true, nil
	}

	if r == nil || r.client == nil || !r.client.IsConfigured() {
		// Preferimos fallar explícito en vez de "permitir" sin control.
		return false, ErrPlansNotConfigured
	}

	resp, err := r.client.GetFeatures(ctx, c.UserID)
	if err != nil {
		return false, err
	}
	return resp.Features[feature], nil
}
