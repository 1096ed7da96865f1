package photos

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pura-pata/internal/middleware"
	"pura-pata/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}

	r.Route("/dogs/photos", func(pr chi.Router) {
		pr.Post("/upload-url", uploadURLHandler(svc, log))
	})
}

type uploadURLRequest struct {
	ContentType string `json:"content_type" example:"image/jpeg"`
}

type uploadURLResponse struct {
	Key         string    `json:"key"`
	UploadURL   string    `json:"upload_url"`
	PublicURL   string    `json:"public_url,omitempty"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// uploadURLHandler godoc
// @Summary URL de subida de foto
// @Description Devuelve una URL firmada (PUT) para subir una foto directamente al storage. Válida 15 minutos.
// @Tags photos
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body uploadURLRequest true "Tipo de imagen"
// @Success 201 {object} uploadURLResponse
// @Failure 400 {string} string "content_type no soportado"
// @Failure 401 {string} string "unauthorized"
// @Failure 503 {string} string "photo storage not configured"
// @Router /dogs/photos/upload-url [post]
func uploadURLHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req uploadURLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		up, err := svc.UploadURL(r.Context(), claims.UserID, req.ContentType)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotConfigured):
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
			default:
				log.Error("presign upload failed", map[string]any{"error": err, "user_id": claims.UserID})
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(uploadURLResponse{
			Key:         up.Key,
			UploadURL:   up.UploadURL,
			PublicURL:   up.PublicURL,
			ContentType: up.ContentType,
			ExpiresAt:   up.ExpiresAt,
		})
	}
}
