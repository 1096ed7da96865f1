package dogs

import (
	"context"
	"errors"
)

// OwnerOf expone el publisher de un perro.
// Lo usan otros módulos (history, photos) sin depender del modelo completo.
func (s *Service) OwnerOf(ctx context.Context, dogID string) (string, error) {
	d, err := s.GetByID(ctx, dogID)
	if err != nil {
		return "", err
	}
	return d.PublisherID, nil
}

// Exists indica si el perro existe. Errores distintos de ErrNotFound se propagan.
func (s *Service) Exists(ctx context.Context, dogID string) (bool, error) {
	_, err := s.GetByID(ctx, dogID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
