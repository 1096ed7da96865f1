package supabase

import (
	"context"
	"fmt"
	"strings"

	"pura-pata/internal/ports/auth"
)

// Verifier implementa auth.AuthVerifier preguntándole a Supabase por cada token.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, fmt.Errorf("%w: empty token", auth.ErrUnauthenticated)
	}

	claims, err := v.client.GetUser(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("supabase verify failed: %w", err)
	}
	if claims.ExpiresAt.IsZero() {
		claims.ExpiresAt = tokenExpiry(token)
	}
	return claims, nil
}
