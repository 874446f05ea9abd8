package mongo

import (
	"context"
	"fmt"

	"event-aggregation-service/internal/aggregation/core/domain"
	"event-aggregation-service/internal/aggregation/core/ports"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// EventStore aggregates documents shaped {dt: Date, value: number}.
type EventStore struct {
	coll Collection
}

var _ ports.EventStorePort = (*EventStore)(nil)

func NewEventStore(coll Collection) *EventStore {
	return &EventStore{coll: coll}
}

// $dateToString formats that produce domain.KeyLayout keys
var dateFormats = map[domain.Granularity]string{
	domain.GranularityHour:  "%Y-%m-%dT%H:00:00",
	domain.GranularityDay:   "%Y-%m-%dT00:00:00",
	domain.GranularityMonth: "%Y-%m-01T00:00:00",
}

type bucketRow struct {
	Key   string  `bson:"_id"`
	Total float64 `bson:"total"`
}

func (s *EventStore) GroupedSum(ctx context.Context, q ports.GroupedSumQuery) ([]domain.BucketTotal, error) {
	pipeline, err := buildPipeline(q)
	if err != nil {
		return nil, err
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []bucketRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	totals := make([]domain.BucketTotal, 0, len(rows))
	for _, r := range rows {
		totals = append(totals, domain.BucketTotal{Key: r.Key, Total: r.Total})
	}
	return totals, nil
}

func buildPipeline(q ports.GroupedSumQuery) ([]bson.M, error) {
	format, ok := dateFormats[q.Granularity]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidGranularity, string(q.Granularity))
	}

	matchStage := bson.M{
		"dt": bson.M{
			"$gte": q.From,
			"$lte": q.To,
		},
	}

	groupStage := bson.M{
		"_id": bson.M{
			"$dateToString": bson.M{
				"format": format,
				"date":   bson.M{"$toDate": "$dt"},
			},
		},
		"total": bson.M{"$sum": "$value"},
	}

	return []bson.M{
		{"$match": matchStage},
		{"$group": groupStage},
		{"$sort": bson.M{"_id": 1}},
	}, nil
}
