package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pura-pata/internal/platform/cache"
	"pura-pata/internal/ports/auth"
	"pura-pata/internal/ports/auth/mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_CallsGoTrue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		switch r.Header.Get("Authorization") {
		case "Bearer good":
			_, _ = w.Write([]byte(`{"id":"u-1","email":"ana@example.cr","role":"authenticated"}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.Error(w, `{"msg":"invalid JWT"}`, http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	client, err := NewClient(Config{URL: srv.URL, APIKey: "anon-key", Timeout: time.Second})
	require.NoError(t, err)
	v := NewVerifier(client)

	claims, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-1", Email: "ana@example.cr", Role: "authenticated"}, claims)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	_, err = v.Verify(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.False(t, errors.Is(err, auth.ErrUnauthenticated))

	_, err = v.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestNewClient_RequiresConfig(t *testing.T) {
	_, err := NewClient(Config{URL: "https://x.supabase.co"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTVerifier(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	v, err := NewJWTVerifier("s3cret", DefaultAudience)
	require.NoError(t, err)
	v.now = func() time.Time { return now }

	valid := tokenClaims{
		Email: "ana@example.cr",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			Audience:  jwt.ClaimStrings{DefaultAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	claims, err := v.Verify(context.Background(), signToken(t, "s3cret", jwt.SigningMethodHS256, valid))
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana@example.cr", claims.Email)

	t.Run("expired", func(t *testing.T) {
		c := valid
		c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
		_, err := v.Verify(context.Background(), signToken(t, "s3cret", jwt.SigningMethodHS256, c))
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Verify(context.Background(), signToken(t, "other", jwt.SigningMethodHS256, valid))
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		_, err := v.Verify(context.Background(), signToken(t, "s3cret", jwt.SigningMethodHS512, valid))
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("wrong audience", func(t *testing.T) {
		c := valid
		c.Audience = jwt.ClaimStrings{"anon"}
		_, err := v.Verify(context.Background(), signToken(t, "s3cret", jwt.SigningMethodHS256, c))
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("missing sub", func(t *testing.T) {
		c := valid
		c.Subject = ""
		_, err := v.Verify(context.Background(), signToken(t, "s3cret", jwt.SigningMethodHS256, c))
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}

func TestCachingVerifier_CallsUpstreamOncePerToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockAuthVerifier(ctrl)

	next.EXPECT().
		Verify(gomock.Any(), "tok-1").
		Return(auth.Claims{UserID: "u-1", Email: "ana@example.cr"}, nil).
		Times(1)
	next.EXPECT().
		Verify(gomock.Any(), "tok-bad").
		Return(auth.Claims{}, auth.ErrUnauthenticated).
		Times(2)

	v := NewCachingVerifier(next, cache.NewMemoryCache(), time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		claims, err := v.Verify(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, "ana@example.cr", claims.Email)
	}

	// Los fallos no se cachean.
	for i := 0; i < 2; i++ {
		_, err := v.Verify(ctx, "tok-bad")
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	}
}

func TestCachingVerifier_DoesNotOutliveTokenExpiry(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	inner, err := NewJWTVerifier("s3cret", DefaultAudience)
	require.NoError(t, err)
	inner.now = clock

	v := NewCachingVerifier(inner, cache.NewMemoryCache(), time.Minute, nil)
	v.now = clock

	tok := signToken(t, "s3cret", jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{DefaultAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Second)),
		},
	})

	claims, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.ExpiresAt.Equal(now.Add(2*time.Second)))

	now = now.Add(30 * time.Second)
	_, err = v.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestCachingVerifier_SkipsAlreadyExpiredClaims(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	ctrl := gomock.NewController(t)
	next := mocks.NewMockAuthVerifier(ctrl)

	// Sin margen de vida no se cachea: cada llamada vuelve al upstream.
	next.EXPECT().
		Verify(gomock.Any(), "tok-old").
		Return(auth.Claims{UserID: "u-1", ExpiresAt: now}, nil).
		Times(2)

	v := NewCachingVerifier(next, cache.NewMemoryCache(), time.Minute, nil)
	v.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_, err := v.Verify(context.Background(), "tok-old")
		require.NoError(t, err)
	}
}

func TestVerifier_TakesExpiryFromToken(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := signToken(t, "whatever", jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u-1","email":"ana@example.cr"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{URL: srv.URL, APIKey: "anon-key", Timeout: time.Second})
	require.NoError(t, err)

	claims, err := NewVerifier(client).Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}
