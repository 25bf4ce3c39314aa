// Package timeframe provides the time period value type used to bound
// aggregation queries.
package timeframe

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPeriodDays is the span used when a caller omits period bounds:
// the comparison period covers the last seven days and the baseline period
// the seven days before that.
const DefaultPeriodDays = 7

// Period is an inclusive start/end time range, normalized to naive UTC.
type Period struct {
	From time.Time `json:"start"`
	To   time.Time `json:"end"`
}

// NewPeriod builds a period from the given bounds, normalizing both to naive
// UTC. Returns an error when the range is inverted.
func NewPeriod(from, to time.Time) (Period, error) {
	from = ToNaiveUTC(from)
	to = ToNaiveUTC(to)
	if to.Before(from) {
		return Period{}, fmt.Errorf("invalid period: end %s precedes start %s", to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	return Period{From: from, To: to}, nil
}

// ParsePeriod parses RFC3339 start/end strings into a period. Either bound may
// be empty, in which case the corresponding fallback is used.
func ParsePeriod(startStr, endStr string, fallback Period) (Period, error) {
	from := fallback.From
	to := fallback.To

	if startStr != "" {
		t, err := parseTimestamp(startStr)
		if err != nil {
			return Period{}, fmt.Errorf("invalid period start: %w", err)
		}
		from = t
	}

	if endStr != "" {
		t, err := parseTimestamp(endStr)
		if err != nil {
			return Period{}, fmt.Errorf("invalid period end: %w", err)
		}
		to = t
	}

	return NewPeriod(from, to)
}

// DefaultComparisonPeriods returns the baseline and comparison periods used
// when the caller supplies none: two adjacent spans of DefaultPeriodDays
// ending at now.
func DefaultComparisonPeriods(now time.Time) (baseline Period, comparison Period) {
	now = ToNaiveUTC(now)
	span := time.Duration(DefaultPeriodDays) * 24 * time.Hour

	comparison = Period{From: now.Add(-span), To: now}
	baseline = Period{From: now.Add(-2 * span), To: now.Add(-span)}
	return baseline, comparison
}

// Contains reports whether t falls within the period's inclusive bounds.
func (p Period) Contains(t time.Time) bool {
	t = ToNaiveUTC(t)
	return !t.Before(p.From) && !t.After(p.To)
}

// Duration returns the length of the period.
func (p Period) Duration() time.Duration {
	return p.To.Sub(p.From)
}

// String renders the period for log output.
func (p Period) String() string {
	return fmt.Sprintf("%s - %s", p.From.Format(time.RFC3339), p.To.Format(time.RFC3339))
}

// ToNaiveUTC converts a timestamp to UTC and drops the location association,
// matching the timezone convention of stored records.
func ToNaiveUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}

// parseTimestamp accepts RFC3339 with or without the trailing Z offset marker.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// Naive timestamps without offset are treated as UTC.
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
	}
	return t.UTC(), nil
}
