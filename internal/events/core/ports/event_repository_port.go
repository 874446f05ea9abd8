package ports

import (
	"context"

	"event-aggregation-service/internal/events/core/domain"
)

type EventRepositoryPort interface {
	InsertEvent(ctx context.Context, e *domain.Event) error
	// InsertEvents writes all events in one round trip and returns how many
	// were stored.
	InsertEvents(ctx context.Context, events []domain.Event) (int, error)
}
