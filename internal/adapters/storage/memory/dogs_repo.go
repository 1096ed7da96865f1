package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pura-pata/internal/domain/dogs"
)

type dogRepo struct {
	s *Store
}

func (r *dogRepo) CreateWithHistory(ctx context.Context, d dogs.Dog, entry dogs.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dog id required")
	}
	if _, exists := r.s.dogs[d.ID]; exists {
		return errors.New("dog already exists")
	}
	if entry.DogID != d.ID {
		return errors.New("history entry does not belong to dog")
	}

	r.s.dogs[d.ID] = cloneDog(d)
	r.s.history = append(r.s.history, entry)
	return nil
}

func (r *dogRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.dogs[id]
	if !ok {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return cloneDog(d), nil
}

func (r *dogRepo) List(ctx context.Context, filter dogs.ListFilter) ([]dogs.Dog, error) {
	filter = filter.Normalize()

	r.s.mu.RLock()
	all := r.collect(filter.Matches)
	r.s.mu.RUnlock()

	if filter.Offset >= len(all) {
		return []dogs.Dog{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[filter.Offset:end], nil
}

func (r *dogRepo) ListByPublisher(ctx context.Context, publisherID string) ([]dogs.Dog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.collect(func(d dogs.Dog) bool { return d.PublisherID == publisherID }), nil
}

func (r *dogRepo) ListByStatus(ctx context.Context, status dogs.Status) ([]dogs.Dog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.collect(func(d dogs.Dog) bool { return d.Status == status }), nil
}

func (r *dogRepo) Update(ctx context.Context, d dogs.Dog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.dogs[d.ID]
	if !ok {
		return dogs.ErrNotFound
	}

	// El estado solo cambia vía ApplyTransition.
	d.PublisherID = current.PublisherID
	d.Status = current.Status
	d.AdoptedAt = current.AdoptedAt
	d.CreatedAt = current.CreatedAt

	r.s.dogs[d.ID] = cloneDog(d)
	return nil
}

func (r *dogRepo) ApplyTransition(ctx context.Context, id string, fn dogs.TransitionFunc) (dogs.Dog, dogs.HistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.dogs[id]
	if !ok {
		return dogs.Dog{}, dogs.HistoryEntry{}, dogs.ErrNotFound
	}

	updated, entry, err := fn(cloneDog(current))
	if err != nil {
		return dogs.Dog{}, dogs.HistoryEntry{}, err
	}

	r.s.dogs[id] = cloneDog(updated)
	r.s.history = append(r.s.history, entry)
	return cloneDog(updated), entry, nil
}

func (r *dogRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.dogs[id]; !ok {
		return dogs.ErrNotFound
	}
	delete(r.s.dogs, id)

	kept := r.s.history[:0]
	for _, e := range r.s.history {
		if e.DogID != id {
			kept = append(kept, e)
		}
	}
	r.s.history = kept
	return nil
}

// collect asume el lock tomado. Orden: created_at desc, id como desempate.
func (r *dogRepo) collect(keep func(dogs.Dog) bool) []dogs.Dog {
	out := make([]dogs.Dog, 0)
	for _, d := range r.s.dogs {
		if keep(d) {
			out = append(out, cloneDog(d))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
