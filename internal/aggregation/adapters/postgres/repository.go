package postgres

import (
	"context"
	"fmt"

	"event-aggregation-service/internal/aggregation/core/domain"
	"event-aggregation-service/internal/aggregation/core/ports"

	"github.com/lib/pq"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// EventStore reads events from a table with a naive `dt timestamp` column and
// a numeric `value` column.
type EventStore struct {
	db    DB
	table string
}

var _ ports.EventStorePort = (*EventStore)(nil)

func NewEventStore(db DB, table string) *EventStore {
	return &EventStore{db: db, table: table}
}

// bucket key layout, same as domain.KeyLayout
const keyFormat = `'YYYY-MM-DD"T"HH24:MI:SS'`

var truncUnits = map[domain.Granularity]string{
	domain.GranularityHour:  "hour",
	domain.GranularityDay:   "day",
	domain.GranularityMonth: "month",
}

func (s *EventStore) GroupedSum(ctx context.Context, q ports.GroupedSumQuery) ([]domain.BucketTotal, error) {
	unit, ok := truncUnits[q.Granularity]
	if !ok {
		// usecase validates before we get here
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidGranularity, string(q.Granularity))
	}

	query := fmt.Sprintf(`
SELECT
    to_char(date_trunc('%s', dt), %s) AS bucket,
    SUM(value)::float8 AS total
FROM %s
WHERE dt BETWEEN $1 AND $2
GROUP BY bucket
ORDER BY bucket
`, unit, keyFormat, pq.QuoteIdentifier(s.table))

	rows, err := s.db.QueryContext(ctx, query, q.From, q.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []domain.BucketTotal{}
	for rows.Next() {
		var key string
		var total float64

		if err := rows.Scan(&key, &total); err != nil {
			return nil, err
		}

		totals = append(totals, domain.BucketTotal{Key: key, Total: total})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}
