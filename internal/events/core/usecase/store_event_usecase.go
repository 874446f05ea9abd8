package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	aggdomain "event-aggregation-service/internal/aggregation/core/domain"
	"event-aggregation-service/internal/events/core/domain"
	"event-aggregation-service/internal/events/core/ports"
	"event-aggregation-service/internal/logctx"
)

var ErrInvalidEvent = errors.New("invalid event")

type StoreEventUseCase struct {
	repo ports.EventRepositoryPort
}

func NewStoreEventUseCase(repo ports.EventRepositoryPort) *StoreEventUseCase {
	return &StoreEventUseCase{repo: repo}
}

type StoreEventInput struct {
	Dt    string
	Value *float64
}

func (uc *StoreEventUseCase) Execute(ctx context.Context, in StoreEventInput) error {
	e, err := toEvent(in)
	if err != nil {
		return err
	}

	if err := uc.repo.InsertEvent(ctx, &e); err != nil {
		return fmt.Errorf("%w: %w", aggdomain.ErrStoreUnavailable, err)
	}
	return nil
}

type BulkCreateEventsInput struct {
	Events []StoreEventInput
}

type BulkCreateEventsResult struct {
	Created int
}

// BulkCreateEvents validates every input before writing any of them.
func (uc *StoreEventUseCase) BulkCreateEvents(ctx context.Context, in BulkCreateEventsInput) (BulkCreateEventsResult, error) {
	var res BulkCreateEventsResult

	events := make([]domain.Event, 0, len(in.Events))
	for i, ev := range in.Events {
		e, err := toEvent(ev)
		if err != nil {
			return res, fmt.Errorf("events[%d]: %w", i, err)
		}
		events = append(events, e)
	}
	if len(events) == 0 {
		return res, nil
	}

	n, err := uc.repo.InsertEvents(ctx, events)
	if err != nil {
		return res, fmt.Errorf("%w: %w", aggdomain.ErrStoreUnavailable, err)
	}
	res.Created = n

	logger := logctx.FromContext(ctx)
	logger.Debug().Int("created", n).Msg("bulk insert done")
	return res, nil
}

func toEvent(in StoreEventInput) (domain.Event, error) {
	dt, err := aggdomain.ParseTimestamp(in.Dt)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: dt must be formatted as %s", ErrInvalidEvent, aggdomain.KeyLayout)
	}
	if in.Value == nil {
		return domain.Event{}, fmt.Errorf("%w: value is required", ErrInvalidEvent)
	}
	if math.IsNaN(*in.Value) || math.IsInf(*in.Value, 0) {
		return domain.Event{}, fmt.Errorf("%w: value must be finite", ErrInvalidEvent)
	}
	return domain.Event{Dt: dt, Value: *in.Value}, nil
}
