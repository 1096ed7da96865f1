package publishers

import "context"

type Repository interface {
	// Create devuelve ErrAlreadyExists si ya hay un perfil con ese ID y
	// ErrEmailTaken si otro perfil usa el mismo email (no vacío).
	Create(ctx context.Context, p Publisher) error
	GetByID(ctx context.Context, id string) (Publisher, error)
	Update(ctx context.Context, p Publisher) error
}
