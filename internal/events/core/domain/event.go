package domain

import "time"

// Event is one sample: a timestamp and the value summed by aggregation.
type Event struct {
	Dt    time.Time
	Value float64
}
