package domain

import (
	"fmt"
	"time"
)

// KeyLayout is the canonical bucket key layout. It carries no zone offset.
const KeyLayout = "2006-01-02T15:04:05"

// monthStep is the fixed cursor jump used for month buckets. The cursor is
// not renormalized to the first of the month, so it drifts for months
// shorter than 31 days.
const monthStep = 31 * 24 * time.Hour

// BucketKeyer formats bucket keys and advances a timeline cursor.
//
// The zero value steps month cursors by a fixed 31 days. With CalendarMonths
// set, a month cursor moves to the first day of the following month instead.
type BucketKeyer struct {
	CalendarMonths bool
}

var defaultKeyer BucketKeyer

// FormatKey returns the bucket key of t using the fixed 31-day month rule.
func FormatKey(t time.Time, g Granularity) (string, error) {
	return defaultKeyer.FormatKey(t, g)
}

// Advance moves a cursor one bucket forward using the fixed 31-day month rule.
func Advance(t time.Time, g Granularity) (time.Time, error) {
	return defaultKeyer.Advance(t, g)
}

// Truncate returns the start instant of the bucket that contains t.
func (BucketKeyer) Truncate(t time.Time, g Granularity) (time.Time, error) {
	y, m, d := t.Date()
	switch g {
	case GranularityHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location()), nil
	case GranularityDay:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), nil
	case GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidGranularity, string(g))
	}
}

func (k BucketKeyer) FormatKey(t time.Time, g Granularity) (string, error) {
	start, err := k.Truncate(t, g)
	if err != nil {
		return "", err
	}
	return start.Format(KeyLayout), nil
}

func (k BucketKeyer) Advance(t time.Time, g Granularity) (time.Time, error) {
	switch g {
	case GranularityHour:
		return t.Add(time.Hour), nil
	case GranularityDay:
		return t.Add(24 * time.Hour), nil
	case GranularityMonth:
		if k.CalendarMonths {
			y, m, _ := t.Date()
			return time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location()), nil
		}
		return t.Add(monthStep), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidGranularity, string(g))
	}
}
