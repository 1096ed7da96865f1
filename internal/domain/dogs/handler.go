package dogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
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

	r.Route("/dogs", func(dr chi.Router) {
		dr.Get("/", listDogsHandler(svc, log))
		dr.Post("/", createDogHandler(svc, log))

		// Antes que /{dogID} para que no se interpreten como IDs.
		dr.Get("/me", listMyDogsHandler(svc, log))
		dr.Get("/nearby", nearbyDogsHandler(svc, log))

		dr.Get("/{dogID}", getDogHandler(svc, log))
		dr.Put("/{dogID}", updateDogHandler(svc, log))
		dr.Delete("/{dogID}", deleteDogHandler(svc, log))

		// Solo el publicador
		dr.Patch("/{dogID}/status", setStatusHandler(svc, log))
	})
}

// dogResponse representa una publicación de adopción devuelta por la API.
type dogResponse struct {
	ID           string     `json:"id"`
	PublisherID  string     `json:"publisher_id"`
	Name         string     `json:"name"`
	Breed        string     `json:"breed"`
	Size         Size       `json:"size" enums:"small,medium,large"`
	Gender       Gender     `json:"gender" enums:"male,female"`
	AgeYears     int        `json:"age_years"`
	AgeMonths    int        `json:"age_months"`
	Color        string     `json:"color"`
	Description  string     `json:"description"`
	SpecialNeeds string     `json:"special_needs"`
	Vaccinated   bool       `json:"vaccinated"`
	Sterilized   bool       `json:"sterilized"`
	Dewormed     bool       `json:"dewormed"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Province     string     `json:"province"`
	Canton       string     `json:"canton"`
	Address      string     `json:"address"`
	ContactPhone string     `json:"contact_phone"`
	ContactEmail string     `json:"contact_email"`
	HasWhatsApp  bool       `json:"has_whatsapp"`
	Photos       []string   `json:"photos"`
	Certificate  string     `json:"certificate"`
	Status       Status     `json:"status" enums:"available,reserved,adopted"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	AdoptedAt    *time.Time `json:"adopted_at,omitempty"`
}

// updateDogRequest: campos omitidos o null no se modifican.
type updateDogRequest struct {
	Name         *string  `json:"name"`
	Breed        *string  `json:"breed"`
	Size         *Size    `json:"size"`
	Gender       *Gender  `json:"gender"`
	AgeYears     *int     `json:"age_years"`
	AgeMonths    *int     `json:"age_months"`
	Color        *string  `json:"color"`
	Description  *string  `json:"description"`
	SpecialNeeds *string  `json:"special_needs"`
	Vaccinated   *bool    `json:"vaccinated"`
	Sterilized   *bool    `json:"sterilized"`
	Dewormed     *bool    `json:"dewormed"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Province     *string  `json:"province"`
	Canton       *string  `json:"canton"`
	Address      *string  `json:"address"`
	ContactPhone *string  `json:"contact_phone"`
	ContactEmail *string  `json:"contact_email"`
	HasWhatsApp  *bool    `json:"has_whatsapp"`
	Photos       []string `json:"photos"`
	Certificate  *string  `json:"certificate"`
}

type setStatusRequest struct {
	Status string `json:"status" enums:"available,reserved,adopted"`
}

// listDogsHandler godoc
// @Summary Listar perros
// @Description Lista publicaciones ordenadas por fecha de creación (más recientes primero). Todos los filtros presentes deben cumplirse.
// @Tags dogs
// @Produce json
// @Param status query string false "available | reserved | adopted"
// @Param size query string false "small | medium | large"
// @Param gender query string false "male | female"
// @Param province query string false "Provincia exacta"
// @Param vaccinated query bool false "Filtrar por vacunado"
// @Param sterilized query bool false "Filtrar por esterilizado"
// @Param offset query int false "Registros a saltar (alias: skip)"
// @Param limit query int false "Máximo a devolver (1-200). Por defecto 100"
// @Success 200 {array} dogResponse
// @Failure 400 {string} string "filtro inválido"
// @Router /dogs [get]
func listDogsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toDogResponses(items))
	}
}

// listMyDogsHandler godoc
// @Summary Mis publicaciones
// @Description Lista los perros publicados por el usuario autenticado.
// @Tags dogs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} dogResponse
// @Failure 401 {string} string "unauthorized"
// @Router /dogs/me [get]
func listMyDogsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListMine(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toDogResponses(items))
	}
}

// nearbyDogsHandler godoc
// @Summary Perros cercanos
// @Description Perros disponibles a `radius` km o menos del punto indicado (haversine).
// @Tags dogs
// @Produce json
// @Param latitude query number true "Latitud (-90..90)"
// @Param longitude query number true "Longitud (-180..180)"
// @Param radius query number false "Radio en km. Por defecto 50"
// @Success 200 {array} dogResponse
// @Failure 400 {string} string "coordenadas o radio inválidos"
// @Router /dogs/nearby [get]
func nearbyDogsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		lat, err := strconv.ParseFloat(strings.TrimSpace(q.Get("latitude")), 64)
		if err != nil {
			http.Error(w, "latitude must be a number", http.StatusBadRequest)
			return
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(q.Get("longitude")), 64)
		if err != nil {
			http.Error(w, "longitude must be a number", http.StatusBadRequest)
			return
		}

		radius := DefaultNearbyRadiusKm
		if v := strings.TrimSpace(q.Get("radius")); v != "" {
			radius, err = strconv.ParseFloat(v, 64)
			if err != nil {
				http.Error(w, "radius must be a number", http.StatusBadRequest)
				return
			}
		}

		items, err := svc.Nearby(r.Context(), lat, lon, radius)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toDogResponses(items))
	}
}

// getDogHandler godoc
// @Summary Obtener perro
// @Tags dogs
// @Produce json
// @Param dogID path string true "ID del perro"
// @Success 200 {object} dogResponse
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID} [get]
func getDogHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toDogResponse(d))
	}
}

// createDogHandler godoc
// @Summary Publicar perro
// @Description Crea una publicación en estado `available` y su primera entrada de historial. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags dogs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body CreateInput true "Datos del perro"
// @Success 201 {object} dogResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Router /dogs [post]
func createDogHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreateInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.Create(r.Context(), claims.UserID, claims.Email, req)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDogResponse(d))
	}
}

// updateDogHandler godoc
// @Summary Actualizar perro
// @Description Actualiza el perfil del perro (no el estado). Solo el publicador.
// @Tags dogs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param dogID path string true "ID del perro"
// @Param payload body updateDogRequest true "Campos a modificar"
// @Success 200 {object} dogResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID} [put]
func updateDogHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateDogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.Update(r.Context(), chi.URLParam(r, "dogID"), claims.UserID, UpdateInput{
			Name:         req.Name,
			Breed:        req.Breed,
			Size:         req.Size,
			Gender:       req.Gender,
			AgeYears:     req.AgeYears,
			AgeMonths:    req.AgeMonths,
			Color:        req.Color,
			Description:  req.Description,
			SpecialNeeds: req.SpecialNeeds,
			Vaccinated:   req.Vaccinated,
			Sterilized:   req.Sterilized,
			Dewormed:     req.Dewormed,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			Province:     req.Province,
			Canton:       req.Canton,
			Address:      req.Address,
			ContactPhone: req.ContactPhone,
			ContactEmail: req.ContactEmail,
			HasWhatsApp:  req.HasWhatsApp,
			Photos:       req.Photos,
			Certificate:  req.Certificate,
		})
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toDogResponse(d))
	}
}

// setStatusHandler godoc
// @Summary Cambiar estado de adopción
// @Description Cambia el estado y registra la transición en el historial. Solo el publicador.
// @Tags dogs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param dogID path string true "ID del perro"
// @Param payload body setStatusRequest true "Nuevo estado"
// @Success 200 {object} dogResponse
// @Failure 400 {string} string "invalid status"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID}/status [patch]
func setStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.SetStatus(r.Context(), chi.URLParam(r, "dogID"), req.Status, claims.UserID)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toDogResponse(d))
	}
}

// deleteDogHandler godoc
// @Summary Eliminar perro
// @Description Elimina la publicación y su historial. Solo el publicador.
// @Tags dogs
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param dogID path string true "ID del perro"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID} [delete]
func deleteDogHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "dogID"), claims.UserID); err != nil {
			writeError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	var f ListFilter

	if v := strings.TrimSpace(q.Get("status")); v != "" {
		st, err := ParseStatus(v)
		if err != nil {
			return ListFilter{}, err
		}
		f.Status = &st
	}

	if v := strings.TrimSpace(q.Get("size")); v != "" {
		sz := Size(strings.ToLower(v))
		switch sz {
		case SizeSmall, SizeMedium, SizeLarge:
			f.Size = &sz
		default:
			return ListFilter{}, errors.New("size must be small, medium or large")
		}
	}

	if v := strings.TrimSpace(q.Get("gender")); v != "" {
		g := Gender(strings.ToLower(v))
		switch g {
		case GenderMale, GenderFemale:
			f.Gender = &g
		default:
			return ListFilter{}, errors.New("gender must be male or female")
		}
	}

	f.Province = q.Get("province")

	var err error
	if f.Vaccinated, err = parseBoolParam(q.Get("vaccinated"), "vaccinated"); err != nil {
		return ListFilter{}, err
	}
	if f.Sterilized, err = parseBoolParam(q.Get("sterilized"), "sterilized"); err != nil {
		return ListFilter{}, err
	}

	offset := q.Get("offset")
	if strings.TrimSpace(offset) == "" {
		offset = q.Get("skip")
	}
	if f.Offset, err = parseIntParam(offset, "offset"); err != nil {
		return ListFilter{}, err
	}
	if f.Limit, err = parseIntParam(q.Get("limit"), "limit"); err != nil {
		return ListFilter{}, err
	}

	return f, nil
}

func parseBoolParam(v, name string) (*bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errors.New(name + " must be true or false")
	}
	return &b, nil
}

func parseIntParam(v, name string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return n, nil
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "dog not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		log.Error("dogs request failed", map[string]any{"error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDogResponses(items []Dog) []dogResponse {
	out := make([]dogResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDogResponse(d))
	}
	return out
}

func toDogResponse(d Dog) dogResponse {
	photos := d.Photos
	if photos == nil {
		photos = []string{}
	}
	return dogResponse{
		ID:           d.ID,
		PublisherID:  d.PublisherID,
		Name:         d.Name,
		Breed:        d.Breed,
		Size:         d.Size,
		Gender:       d.Gender,
		AgeYears:     d.AgeYears,
		AgeMonths:    d.AgeMonths,
		Color:        d.Color,
		Description:  d.Description,
		SpecialNeeds: d.SpecialNeeds,
		Vaccinated:   d.Vaccinated,
		Sterilized:   d.Sterilized,
		Dewormed:     d.Dewormed,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		Province:     d.Province,
		Canton:       d.Canton,
		Address:      d.Address,
		ContactPhone: d.ContactPhone,
		ContactEmail: d.ContactEmail,
		HasWhatsApp:  d.HasWhatsApp,
		Photos:       photos,
		Certificate:  d.Certificate,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		AdoptedAt:    d.AdoptedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
