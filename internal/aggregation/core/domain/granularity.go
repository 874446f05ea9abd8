package domain

import "fmt"

// Granularity is the width of one bucket in an aggregation timeline.
type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// ParseGranularity maps a raw group_type value onto a Granularity.
func ParseGranularity(raw string) (Granularity, error) {
	g := Granularity(raw)
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, raw)
	}
	return g, nil
}

func (g Granularity) Valid() bool {
	switch g {
	case GranularityHour, GranularityDay, GranularityMonth:
		return true
	default:
		return false
	}
}

func (g Granularity) String() string {
	return string(g)
}
