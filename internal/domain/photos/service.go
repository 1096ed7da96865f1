package photos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotConfigured = errors.New("photo storage not configured")
)

const DefaultURLTTL = 15 * time.Minute

// Presigner firma URLs de subida directa al object storage.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

// Upload es lo que el cliente necesita para subir la foto con un PUT.
type Upload struct {
	Key         string
	UploadURL   string
	PublicURL   string // vacío si no hay base pública configurada
	ContentType string
	ExpiresAt   time.Time
}

type Service struct {
	presigner     Presigner
	publicBaseURL string
	ttl           time.Duration
	now           func() time.Time
}

// NewService: presigner nil deja el servicio deshabilitado (ErrNotConfigured).
func NewService(presigner Presigner, publicBaseURL string) *Service {
	return &Service{
		presigner:     presigner,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		ttl:           DefaultURLTTL,
		now:           time.Now,
	}
}

func (s *Service) Enabled() bool {
	return s != nil && s.presigner != nil
}

// UploadURL genera una key dogs/{userID}/{yyyy}/{mm}/{uuid}{ext} y su URL firmada.
func (s *Service) UploadURL(ctx context.Context, userID, contentType string) (Upload, error) {
	if !s.Enabled() {
		return Upload{}, ErrNotConfigured
	}

	userID = strings.TrimSpace(userID)
	if userID == "" || strings.ContainsAny(userID, "/\\") {
		return Upload{}, fmt.Errorf("%w: user id", ErrInvalidInput)
	}

	ct, ext, err := imageType(contentType)
	if err != nil {
		return Upload{}, err
	}

	now := s.now().UTC()
	key := fmt.Sprintf("dogs/%s/%04d/%02d/%s%s", userID, now.Year(), int(now.Month()), uuid.NewString(), ext)

	url, err := s.presigner.PresignPut(ctx, key, ct, s.ttl)
	if err != nil {
		return Upload{}, fmt.Errorf("presign %s: %w", key, err)
	}

	up := Upload{
		Key:         key,
		UploadURL:   url,
		ContentType: ct,
		ExpiresAt:   now.Add(s.ttl),
	}
	if s.publicBaseURL != "" {
		up.PublicURL = s.publicBaseURL + "/" + key
	}
	return up, nil
}

// imageType normaliza el content type y devuelve su extensión. Solo imágenes.
func imageType(contentType string) (string, string, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" {
		return "", "", fmt.Errorf("%w: content_type required", ErrInvalidInput)
	}

	m := mimetype.Lookup(contentType)
	if m == nil || !strings.HasPrefix(m.String(), "image/") || m.Extension() == "" {
		return "", "", fmt.Errorf("%w: unsupported content_type %q", ErrInvalidInput, contentType)
	}
	return m.String(), m.Extension(), nil
}
