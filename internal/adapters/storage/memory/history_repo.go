package memory

import (
	"context"
	"sort"

	"pura-pata/internal/domain/dogs"
	"pura-pata/internal/domain/history"
)

type historyRepo struct {
	s *Store
}

func (r *historyRepo) ListByDog(ctx context.Context, dogID string, filter history.ListFilter) ([]dogs.HistoryEntry, error) {
	filter = filter.Normalize()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	// Recorrer desde el final da "última insertada primero" para empates.
	// Luego se ordena de forma estable por changed_at desc.
	matched := make([]dogs.HistoryEntry, 0)
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if e := r.s.history[i]; e.DogID == dogID {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ChangedAt.After(matched[j].ChangedAt)
	})

	if filter.Offset >= len(matched) {
		return []dogs.HistoryEntry{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}
