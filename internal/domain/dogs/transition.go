package dogs

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transition aplica un cambio de estado sobre d y devuelve el perro actualizado
// junto con la entrada de historial que lo acompaña.
//
// Primero autoriza (solo el publicador puede cambiar el estado) y luego valida.
// No deduplica: pasar al mismo estado también genera una entrada.
// Es una función pura; la persistencia atómica la hace Repository.ApplyTransition.
func Transition(d Dog, requested string, actorID string, now time.Time) (Dog, HistoryEntry, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" || actorID != d.PublisherID {
		return Dog{}, HistoryEntry{}, ErrForbidden
	}

	next, err := ParseStatus(requested)
	if err != nil {
		return Dog{}, HistoryEntry{}, err
	}

	old := d.Status
	d.Status = next

	switch next {
	case StatusAdopted:
		// adopted_at no se resetea si el perro vuelve a estar disponible y se adopta de nuevo.
		if d.AdoptedAt == nil {
			t := now
			d.AdoptedAt = &t
		}
	case StatusAvailable, StatusReserved:
	}

	d.UpdatedAt = now

	entry := HistoryEntry{
		ID:        uuid.NewString(),
		DogID:     d.ID,
		OldStatus: &old,
		NewStatus: next,
		ChangedAt: now,
	}
	return d, entry, nil
}

// InitialEntry es la primera fila del historial: nil -> available.
func InitialEntry(d Dog) HistoryEntry {
	return HistoryEntry{
		ID:        uuid.NewString(),
		DogID:     d.ID,
		OldStatus: nil,
		NewStatus: StatusAvailable,
		ChangedAt: d.CreatedAt,
	}
}
