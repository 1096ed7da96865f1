package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated: token ausente, inválido o expirado.
var ErrUnauthenticated = errors.New("unauthenticated")

//go:generate mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
