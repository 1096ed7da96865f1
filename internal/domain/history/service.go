package history

import (
	"context"
	"strings"

	"pura-pata/internal/domain/dogs"
)

// ErrNotFound es el mismo sentinel de dogs: el historial no existe sin su perro.
var ErrNotFound = dogs.ErrNotFound

// DogLookup evita depender del servicio completo de dogs.
type DogLookup interface {
	Exists(ctx context.Context, dogID string) (bool, error)
}

type Service struct {
	repo Repository
	dogs DogLookup
}

func NewService(repo Repository, dogs DogLookup) *Service {
	return &Service{repo: repo, dogs: dogs}
}

// ListByDog devuelve el historial de estados de un perro existente.
func (s *Service) ListByDog(ctx context.Context, dogID string, filter ListFilter) ([]dogs.HistoryEntry, error) {
	if strings.TrimSpace(dogID) == "" {
		return nil, ErrNotFound
	}

	ok, err := s.dogs.Exists(ctx, dogID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return s.repo.ListByDog(ctx, dogID, filter.Normalize())
}
