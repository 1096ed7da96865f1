package memory

import (
	"sync"

	"pura-pata/internal/domain/dogs"
	"pura-pata/internal/domain/history"
	"pura-pata/internal/domain/publishers"
)

// Store guarda todo en memoria detrás de un único mutex. Así un cambio de estado
// y su entrada de historial se ven juntos o no se ven, igual que en una transacción.
// Pensado para dev y tests.
type Store struct {
	mu sync.RWMutex

	dogs       map[string]dogs.Dog
	history    []dogs.HistoryEntry // orden de inserción
	publishers map[string]publishers.Publisher
}

func NewStore() *Store {
	return &Store{
		dogs:       make(map[string]dogs.Dog),
		publishers: make(map[string]publishers.Publisher),
	}
}

func (s *Store) Dogs() dogs.Repository {
	return &dogRepo{s: s}
}

func (s *Store) History() history.Repository {
	return &historyRepo{s: s}
}

func (s *Store) Publishers() publishers.Repository {
	return &publisherRepo{s: s}
}

func cloneDog(d dogs.Dog) dogs.Dog {
	if d.Photos != nil {
		d.Photos = append([]string(nil), d.Photos...)
	}
	if d.AdoptedAt != nil {
		t := *d.AdoptedAt
		d.AdoptedAt = &t
	}
	return d
}
