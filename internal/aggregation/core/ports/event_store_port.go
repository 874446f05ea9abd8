package ports

import (
	"context"
	"time"

	"event-aggregation-service/internal/aggregation/core/domain"
)

type GroupedSumQuery struct {
	From        time.Time // inclusive
	To          time.Time // inclusive
	Granularity domain.Granularity
}

type EventStorePort interface {
	// GroupedSum sums the value field of every event in [From, To], grouped
	// by bucket key. Rows are sorted ascending by key; empty buckets are
	// absent.
	GroupedSum(ctx context.Context, q GroupedSumQuery) ([]domain.BucketTotal, error)
}
