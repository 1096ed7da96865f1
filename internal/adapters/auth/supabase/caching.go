package supabase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"pura-pata/internal/platform/cache"
	"pura-pata/internal/platform/logger"
	"pura-pata/internal/ports/auth"
)

const DefaultCacheTTL = time.Minute

// CachingVerifier guarda claims ya verificados por hash del token.
// Los fallos no se cachean. Si el cache falla se consulta al verifier igual.
type CachingVerifier struct {
	next  auth.AuthVerifier
	cache cache.Cache
	ttl   time.Duration
	log   logger.Logger
	now   func() time.Time
}

func NewCachingVerifier(next auth.AuthVerifier, c cache.Cache, ttl time.Duration, log logger.Logger) *CachingVerifier {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachingVerifier{next: next, cache: c, ttl: ttl, log: log, now: time.Now}
}

type cachedClaims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (v *CachingVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	key := cacheKey(token)

	raw, ok, err := v.cache.Get(ctx, key)
	if err != nil {
		v.log.Warn("auth cache get failed", map[string]any{"error": err})
	}
	if ok {
		var c cachedClaims
		if err := json.Unmarshal(raw, &c); err == nil && c.UserID != "" {
			claims := auth.Claims{UserID: c.UserID, Email: c.Email, Role: c.Role, ExpiresAt: c.ExpiresAt}
			// Un hit vencido se vuelve a verificar; el verifier es quien rechaza.
			if !claims.Expired(v.now()) {
				return claims, nil
			}
		}
	}

	claims, err := v.next.Verify(ctx, token)
	if err != nil {
		return auth.Claims{}, err
	}

	ttl := v.ttl
	if !claims.ExpiresAt.IsZero() {
		if left := claims.ExpiresAt.Sub(v.now()); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return claims, nil
	}

	b, _ := json.Marshal(cachedClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt,
	})
	if err := v.cache.Set(ctx, key, b, ttl); err != nil {
		v.log.Warn("auth cache set failed", map[string]any{"error": err})
	}
	return claims, nil
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:" + hex.EncodeToString(sum[:])
}
