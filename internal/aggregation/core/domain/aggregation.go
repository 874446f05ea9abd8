package domain

import "time"

type AggregationQuery struct {
	From        time.Time
	To          time.Time
	Granularity Granularity
}

// BucketTotal is one non-empty bucket as returned by the event store.
type BucketTotal struct {
	Key   string
	Total float64
}

type AggregationResult struct {
	Dataset []float64
	Labels  []string
}

// Densify walks every bucket from q.From to q.To and lines the sparse store
// totals up against it. totals must be sorted ascending by key with at most
// one entry per key. matched is the number of totals that found a label.
func Densify(q AggregationQuery, totals []BucketTotal, keyer BucketKeyer) (res *AggregationResult, matched int, err error) {
	res = &AggregationResult{
		Dataset: []float64{},
		Labels:  []string{},
	}

	for cursor := q.From; !cursor.After(q.To); {
		key, err := keyer.FormatKey(cursor, q.Granularity)
		if err != nil {
			return nil, 0, err
		}

		if matched < len(totals) && totals[matched].Key == key {
			res.Dataset = append(res.Dataset, totals[matched].Total)
			matched++
		} else {
			res.Dataset = append(res.Dataset, 0)
		}
		res.Labels = append(res.Labels, key)

		cursor, err = keyer.Advance(cursor, q.Granularity)
		if err != nil {
			return nil, 0, err
		}
	}

	return res, matched, nil
}
