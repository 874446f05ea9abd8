package domain

import (
	"fmt"
	"time"
)

// ParseTimestamp parses a naive ISO-8601 timestamp (YYYY-MM-DDThh:mm:ss).
// The result is in UTC and is never shifted by a zone offset.
func ParseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(KeyLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
	}
	return t, nil
}
