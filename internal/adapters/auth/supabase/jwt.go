package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pura-pata/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAudience es el aud que pone Supabase en tokens de usuarios logueados.
const DefaultAudience = "authenticated"

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier valida localmente tokens HS256 firmados con el JWT secret del proyecto.
// No hace llamadas de red.
type JWTVerifier struct {
	secret   []byte
	audience string
	now      func() time.Time
}

func NewJWTVerifier(secret, audience string) (*JWTVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNotConfigured
	}
	return &JWTVerifier{
		secret:   []byte(secret),
		audience: strings.TrimSpace(audience),
		now:      time.Now,
	}, nil
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, fmt.Errorf("%w: empty token", auth.ErrUnauthenticated)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrUnauthenticated, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, auth.ErrUnauthenticated
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrUnauthenticated, errors.New("missing sub"))
	}

	out := auth.Claims{
		UserID: sub,
		Email:  strings.TrimSpace(claims.Email),
		Role:   strings.TrimSpace(claims.Role),
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// tokenExpiry lee el exp de un JWT sin validar la firma. Solo sirve para
// acotar cuánto se cachea un token que ya validó otro (p.ej. GoTrue).
func tokenExpiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
