package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-care-marketplace/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

// Verifier implementa auth.AuthVerifier usando el IAM del marketplace.
// Se instancia desde main/router solo si AUTH_BASE_URL está configurado.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrGatewayNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		// Normalizamos un poco; el middleware decide si corta o no.
		return auth.Claims{}, fmt.Errorf("gateway verify failed: %w", err)
	}

	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, errors.New("gateway claims missing user id")
	}

	return claims, nil
}
