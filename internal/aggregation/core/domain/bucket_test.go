package domain

import (
	"errors"
	"testing"
	"time"
)

func mustParse(t *testing.T, raw string) time.Time {
	t.Helper()
	ts, err := ParseTimestamp(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return ts
}

// ------------------------------------------------------------
// FormatKey
// ------------------------------------------------------------

func TestFormatKey_TruncatesPerGranularity(t *testing.T) {
	tests := []struct {
		in   string
		g    Granularity
		want string
	}{
		{"2022-09-01T13:45:12", GranularityHour, "2022-09-01T13:00:00"},
		{"2022-09-01T13:45:12", GranularityDay, "2022-09-01T00:00:00"},
		{"2022-09-17T13:45:12", GranularityMonth, "2022-09-01T00:00:00"},
		{"0999-01-02T03:04:05", GranularityHour, "0999-01-02T03:00:00"},
		{"2022-12-31T23:59:59", GranularityMonth, "2022-12-01T00:00:00"},
	}

	for _, tt := range tests {
		t.Run(string(tt.g)+"_"+tt.in, func(t *testing.T) {
			got, err := FormatKey(mustParse(t, tt.in), tt.g)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatKey_SameBucketSameKey(t *testing.T) {
	a := mustParse(t, "2022-03-05T10:00:00")
	b := mustParse(t, "2022-03-05T10:59:59")

	ka, _ := FormatKey(a, GranularityHour)
	kb, _ := FormatKey(b, GranularityHour)
	if ka != kb {
		t.Fatalf("expected identical keys, got %s and %s", ka, kb)
	}

	c := mustParse(t, "2022-03-28T23:00:00")
	km1, _ := FormatKey(a, GranularityMonth)
	km2, _ := FormatKey(c, GranularityMonth)
	if km1 != km2 {
		t.Fatalf("expected identical month keys, got %s and %s", km1, km2)
	}
}

func TestFormatKey_InvalidGranularity(t *testing.T) {
	_, err := FormatKey(time.Now(), Granularity("week"))
	if !errors.Is(err, ErrInvalidGranularity) {
		t.Fatalf("expected ErrInvalidGranularity, got %v", err)
	}
}

// ------------------------------------------------------------
// Advance
// ------------------------------------------------------------

func TestAdvance_HourAndDay(t *testing.T) {
	start := mustParse(t, "2022-02-28T23:30:00")

	next, err := Advance(start, GranularityHour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := next.Format(KeyLayout); got != "2022-03-01T00:30:00" {
		t.Fatalf("expected 2022-03-01T00:30:00, got %s", got)
	}

	next, err = Advance(start, GranularityDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := next.Format(KeyLayout); got != "2022-03-01T23:30:00" {
		t.Fatalf("expected 2022-03-01T23:30:00, got %s", got)
	}
}

func TestAdvance_MonthIsFixed31Days(t *testing.T) {
	start := mustParse(t, "2022-02-01T00:00:00")

	next, err := Advance(start, GranularityMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// not normalized to the first of March
	if got := next.Format(KeyLayout); got != "2022-03-04T00:00:00" {
		t.Fatalf("expected 2022-03-04T00:00:00, got %s", got)
	}
}

func TestAdvance_CalendarMonths(t *testing.T) {
	k := BucketKeyer{CalendarMonths: true}

	tests := []struct {
		in   string
		want string
	}{
		{"2022-01-31T12:00:00", "2022-02-01T00:00:00"},
		{"2022-02-01T00:00:00", "2022-03-01T00:00:00"},
		{"2022-12-15T08:00:00", "2023-01-01T00:00:00"},
	}

	for _, tt := range tests {
		next, err := k.Advance(mustParse(t, tt.in), GranularityMonth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := next.Format(KeyLayout); got != tt.want {
			t.Fatalf("advance %s: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestAdvance_InvalidGranularity(t *testing.T) {
	_, err := Advance(time.Now(), Granularity(""))
	if !errors.Is(err, ErrInvalidGranularity) {
		t.Fatalf("expected ErrInvalidGranularity, got %v", err)
	}
}

// ------------------------------------------------------------
// Parsing
// ------------------------------------------------------------

func TestParseGranularity(t *testing.T) {
	for _, raw := range []string{"hour", "day", "month"} {
		g, err := ParseGranularity(raw)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", raw, err)
		}
		if g.String() != raw {
			t.Fatalf("expected %s, got %s", raw, g)
		}
	}

	for _, raw := range []string{"week", "", "HOUR", "minute"} {
		if _, err := ParseGranularity(raw); !errors.Is(err, ErrInvalidGranularity) {
			t.Fatalf("expected ErrInvalidGranularity for %q, got %v", raw, err)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2022-09-01T05:06:07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Location() != time.UTC {
		t.Fatalf("expected UTC, got %s", ts.Location())
	}

	for _, raw := range []string{"not-a-date", "", "2022-09-01", "2022-09-01 00:00:00", "2022-13-01T00:00:00", "2022-09-01T00:00:00Z"} {
		if _, err := ParseTimestamp(raw); !errors.Is(err, ErrInvalidTimestamp) {
			t.Fatalf("expected ErrInvalidTimestamp for %q, got %v", raw, err)
		}
	}
}
