package memory

import (
	"context"
	"errors"
	"strings"

	"pura-pata/internal/domain/publishers"
)

type publisherRepo struct {
	s *Store
}

func (r *publisherRepo) Create(ctx context.Context, p publishers.Publisher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("publisher id required")
	}
	if _, exists := r.s.publishers[p.ID]; exists {
		return publishers.ErrAlreadyExists
	}
	if p.Email != "" {
		for _, other := range r.s.publishers {
			if other.Email == p.Email {
				return publishers.ErrEmailTaken
			}
		}
	}
	r.s.publishers[p.ID] = p
	return nil
}

func (r *publisherRepo) GetByID(ctx context.Context, id string) (publishers.Publisher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.publishers[id]
	if !ok {
		return publishers.Publisher{}, publishers.ErrNotFound
	}
	return p, nil
}

func (r *publisherRepo) Update(ctx context.Context, p publishers.Publisher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.publishers[p.ID]
	if !ok {
		return publishers.ErrNotFound
	}
	p.CreatedAt = current.CreatedAt
	r.s.publishers[p.ID] = p
	return nil
}
