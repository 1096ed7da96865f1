package history

import (
	"context"

	"pura-pata/internal/domain/dogs"
)

const (
	DefaultLimit = 100
	MaxLimit     = 200
)

// Repository solo lee: las entradas se escriben junto con el cambio de estado
// dentro de dogs.Repository.
type Repository interface {
	// ListByDog devuelve las entradas más recientes primero. Empates en changed_at
	// se resuelven por orden de inserción (la última insertada primero).
	ListByDog(ctx context.Context, dogID string, filter ListFilter) ([]dogs.HistoryEntry, error)
}

type ListFilter struct {
	Offset int
	Limit  int
}

func (f ListFilter) Normalize() ListFilter {
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}
