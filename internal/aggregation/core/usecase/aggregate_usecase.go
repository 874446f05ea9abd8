package usecase

import (
	"context"
	"fmt"

	"event-aggregation-service/internal/aggregation/core/domain"
	"event-aggregation-service/internal/aggregation/core/ports"
	"event-aggregation-service/internal/logctx"
)

type AggregateInput struct {
	DtFrom    string
	DtUpto    string
	GroupType string // "hour" / "day" / "month"
}

type AggregateUseCase struct {
	store ports.EventStorePort
	keyer domain.BucketKeyer
}

type Option func(*AggregateUseCase)

// WithCalendarMonths makes month buckets step to the first of the next
// calendar month instead of by a fixed 31 days.
func WithCalendarMonths(enabled bool) Option {
	return func(uc *AggregateUseCase) {
		uc.keyer.CalendarMonths = enabled
	}
}

func NewAggregateUseCase(store ports.EventStorePort, opts ...Option) *AggregateUseCase {
	uc := &AggregateUseCase{store: store}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute validates the input, runs one grouped-sum query against the store
// and fills the gaps between the returned buckets with zeros.
func (uc *AggregateUseCase) Execute(ctx context.Context, in AggregateInput) (*domain.AggregationResult, error) {
	q, err := parseInput(in)
	if err != nil {
		return nil, err
	}

	totals, err := uc.store.GroupedSum(ctx, ports.GroupedSumQuery{
		From:        q.From,
		To:          q.To,
		Granularity: q.Granularity,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	res, matched, err := domain.Densify(q, totals, uc.keyer)
	if err != nil {
		return nil, err
	}

	logger := logctx.FromContext(ctx)
	if unmatched := len(totals) - matched; unmatched > 0 {
		logger.Warn().
			Str("group_type", in.GroupType).
			Int("unmatched", unmatched).
			Msg("store buckets fell between timeline labels")
	}
	logger.Debug().
		Str("group_type", in.GroupType).
		Int("buckets", len(res.Labels)).
		Int("non_empty", matched).
		Msg("aggregation computed")

	return res, nil
}

func parseInput(in AggregateInput) (domain.AggregationQuery, error) {
	from, err := domain.ParseTimestamp(in.DtFrom)
	if err != nil {
		return domain.AggregationQuery{}, fmt.Errorf("dt_from: %w", err)
	}
	to, err := domain.ParseTimestamp(in.DtUpto)
	if err != nil {
		return domain.AggregationQuery{}, fmt.Errorf("dt_upto: %w", err)
	}
	g, err := domain.ParseGranularity(in.GroupType)
	if err != nil {
		return domain.AggregationQuery{}, fmt.Errorf("group_type: %w", err)
	}

	return domain.AggregationQuery{From: from, To: to, Granularity: g}, nil
}
