package photos

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	key, contentType string
	ttl              time.Duration
	err              error
}

func (f *fakePresigner) PresignPut(_ context.Context, key, contentType string, ttl time.Duration) (string, error) {
	f.key, f.contentType, f.ttl = key, contentType, ttl
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.example/" + key + "?sig=1", nil
}

func TestUploadURL_BuildsKeyAndURL(t *testing.T) {
	fp := &fakePresigner{}
	svc := NewService(fp, "https://cdn.example/dog-photos/")
	svc.now = func() time.Time { return time.Date(2025, 2, 9, 15, 0, 0, 0, time.UTC) }

	up, err := svc.UploadURL(context.Background(), "u-1", "IMAGE/JPEG")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^dogs/u-1/2025/02/[0-9a-f-]{36}\.jpg$`), up.Key)
	assert.Equal(t, "image/jpeg", up.ContentType)
	assert.Equal(t, "https://storage.example/"+up.Key+"?sig=1", up.UploadURL)
	assert.Equal(t, "https://cdn.example/dog-photos/"+up.Key, up.PublicURL)
	assert.Equal(t, time.Date(2025, 2, 9, 15, 15, 0, 0, time.UTC), up.ExpiresAt)
	assert.Equal(t, DefaultURLTTL, fp.ttl)
	assert.Equal(t, up.Key, fp.key)
}

func TestUploadURL_RejectsNonImages(t *testing.T) {
	svc := NewService(&fakePresigner{}, "")

	for _, ct := range []string{"", "application/pdf", "text/plain", "video/mp4", "image/not-a-thing"} {
		_, err := svc.UploadURL(context.Background(), "u-1", ct)
		assert.ErrorIs(t, err, ErrInvalidInput, ct)
	}

	_, err := svc.UploadURL(context.Background(), "../etc", "image/png")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUploadURL_NotConfigured(t *testing.T) {
	_, err := NewService(nil, "").UploadURL(context.Background(), "u-1", "image/png")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUploadURL_PresignError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewService(&fakePresigner{err: boom}, "").UploadURL(context.Background(), "u-1", "image/webp")
	assert.ErrorIs(t, err, boom)
}
