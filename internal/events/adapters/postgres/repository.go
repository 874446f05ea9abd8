package postgres

import (
	"context"
	"database/sql"
	"fmt"

	aggdomain "event-aggregation-service/internal/aggregation/core/domain"
	"event-aggregation-service/internal/events/core/domain"
	"event-aggregation-service/internal/events/core/ports"

	"github.com/lib/pq"
)

// DB is satisfied by *sql.DB.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type EventRepository struct {
	db        DB
	insertSQL string
	bulkSQL   string
}

func NewEventRepository(db DB, table string) *EventRepository {
	t := pq.QuoteIdentifier(table)
	return &EventRepository{
		db:        db,
		insertSQL: fmt.Sprintf(`INSERT INTO %s (dt, value) VALUES ($1, $2)`, t),
		bulkSQL: fmt.Sprintf(`INSERT INTO %s (dt, value)
SELECT * FROM unnest($1::timestamp[], $2::float8[])`, t),
	}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx, r.insertSQL, e.Dt, e.Value)
	return err
}

// InsertEvents sends the batch as two parallel arrays. Timestamps travel as
// text so the array literal never carries a zone suffix.
func (r *EventRepository) InsertEvents(ctx context.Context, events []domain.Event) (int, error) {
	dts := make([]string, len(events))
	values := make([]float64, len(events))
	for i, e := range events {
		dts[i] = e.Dt.Format(aggdomain.KeyLayout)
		values[i] = e.Value
	}

	res, err := r.db.ExecContext(ctx, r.bulkSQL, pq.Array(dts), pq.Array(values))
	if err != nil {
		return 0, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
