package dogs

import (
	"context"
	"time"
)

// StatusChange se emite después de que un cambio de estado quedó confirmado.
type StatusChange struct {
	DogID       string    `json:"dog_id"`
	PublisherID string    `json:"publisher_id"`
	OldStatus   Status    `json:"old_status"`
	NewStatus   Status    `json:"new_status"`
	ChangedAt   time.Time `json:"changed_at"`
}

type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, ev StatusChange) error
}

// NoopPublisher descarta los eventos.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatusChanged(context.Context, StatusChange) error { return nil }
