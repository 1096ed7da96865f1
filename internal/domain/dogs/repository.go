package dogs

import (
	"context"
	"strings"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 200
)

// TransitionFunc recibe el estado actual (ya bloqueado) y devuelve el nuevo
// estado más la entrada de historial. Si devuelve error no se escribe nada.
type TransitionFunc func(current Dog) (Dog, HistoryEntry, error)

type Repository interface {
	// CreateWithHistory guarda el perro y su entrada inicial en una sola unidad.
	CreateWithHistory(ctx context.Context, d Dog, entry HistoryEntry) error
	GetByID(ctx context.Context, id string) (Dog, error)
	List(ctx context.Context, filter ListFilter) ([]Dog, error)
	ListByPublisher(ctx context.Context, publisherID string) ([]Dog, error)
	ListByStatus(ctx context.Context, status Status) ([]Dog, error)

	// Update persiste los campos de perfil. Nunca toca status ni adopted_at.
	Update(ctx context.Context, d Dog) error

	// ApplyTransition serializa por perro: lee, aplica fn y guarda perro + historial
	// de forma atómica.
	ApplyTransition(ctx context.Context, id string, fn TransitionFunc) (Dog, HistoryEntry, error)

	// Delete borra el perro y en cascada su historial.
	Delete(ctx context.Context, id string) error
}

// ListFilter: todos los filtros presentes deben cumplirse (AND). nil/"" = sin filtro.
type ListFilter struct {
	Status     *Status
	Size       *Size
	Gender     *Gender
	Province   string
	Vaccinated *bool
	Sterilized *bool

	Offset int
	Limit  int
}

// Normalize aplica defaults de paginación.
func (f ListFilter) Normalize() ListFilter {
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	f.Province = strings.TrimSpace(f.Province)
	return f
}

// Matches evalúa los predicados del filtro (sin paginación).
func (f ListFilter) Matches(d Dog) bool {
	if f.Status != nil && d.Status != *f.Status {
		return false
	}
	if f.Size != nil && d.Size != *f.Size {
		return false
	}
	if f.Gender != nil && d.Gender != *f.Gender {
		return false
	}
	if p := strings.TrimSpace(f.Province); p != "" && d.Province != p {
		return false
	}
	if f.Vaccinated != nil && d.Vaccinated != *f.Vaccinated {
		return false
	}
	if f.Sterilized != nil && d.Sterilized != *f.Sterilized {
		return false
	}
	return true
}
