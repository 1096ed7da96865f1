package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pura-pata/internal/domain/dogs"
	"pura-pata/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}

	r.Route("/dogs/{dogID}/history", func(hr chi.Router) {
		hr.Get("/", listHistoryHandler(svc, log))
	})
}

// entryResponse es una transición de estado. old_status es null en la entrada de creación.
type entryResponse struct {
	ID        string       `json:"id"`
	DogID     string       `json:"dog_id"`
	OldStatus *dogs.Status `json:"old_status"`
	NewStatus dogs.Status  `json:"new_status"`
	ChangedAt time.Time    `json:"changed_at"`
}

// listHistoryHandler godoc
// @Summary Historial de estados
// @Description Lista las transiciones de estado de un perro, más recientes primero.
// @Tags history
// @Produce json
// @Param dogID path string true "ID del perro"
// @Param offset query int false "Registros a saltar"
// @Param limit query int false "Máximo a devolver (1-200). Por defecto 100"
// @Success 200 {array} entryResponse
// @Failure 400 {string} string "paginación inválida"
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID}/history [get]
func listHistoryHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var filter ListFilter
		for name, dst := range map[string]*int{"offset": &filter.Offset, "limit": &filter.Limit} {
			v := strings.TrimSpace(q.Get(name))
			if v == "" {
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, name+" must be a non-negative integer", http.StatusBadRequest)
				return
			}
			*dst = n
		}

		items, err := svc.ListByDog(r.Context(), chi.URLParam(r, "dogID"), filter)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "dog not found", http.StatusNotFound)
				return
			}
			log.Error("list history failed", map[string]any{"error": err})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, entryResponse{
				ID:        e.ID,
				DogID:     e.DogID,
				OldStatus: e.OldStatus,
				NewStatus: e.NewStatus,
				ChangedAt: e.ChangedAt,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
