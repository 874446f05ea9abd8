package mongo

import (
	"context"
	"time"

	"event-aggregation-service/internal/events/core/domain"
	"event-aggregation-service/internal/events/core/ports"
)

// eventDoc is the stored shape; dt is a BSON date.
type eventDoc struct {
	Dt    time.Time `bson:"dt"`
	Value float64   `bson:"value"`
}

type EventRepository struct {
	coll Collection
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

func NewEventRepository(coll Collection) *EventRepository {
	return &EventRepository{coll: coll}
}

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) error {
	return r.coll.InsertOne(ctx, toDoc(*e))
}

func (r *EventRepository) InsertEvents(ctx context.Context, events []domain.Event) (int, error) {
	docs := make([]any, len(events))
	for i, e := range events {
		docs[i] = toDoc(e)
	}
	return r.coll.InsertMany(ctx, docs)
}

func toDoc(e domain.Event) eventDoc {
	return eventDoc{Dt: e.Dt.UTC(), Value: e.Value}
}
