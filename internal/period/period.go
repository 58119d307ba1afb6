// Package period buckets enriched sales rows into calendar periods and
// derives period-over-period and year-over-year deltas.
package period

import (
	"fmt"
	"time"
)

// Granularity selects the calendar bucket size.
type Granularity string

const (
	Month   Granularity = "month"
	Week    Granularity = "week" // Monday-start
	Quarter Granularity = "quarter"
	Year    Granularity = "year"
)

// yoyLag is the fixed bucket-count shift used for year-over-year
// comparison: one calendar year's worth of buckets, not a calendar-
// aligned lookup. 52 is an approximation for weekly buckets (ISO years
// with 53 weeks are not special-cased); this matches observed behavior
// and is kept as-is pending product-owner clarification.
var yoyLag = map[Granularity]int{
	Month:   12,
	Week:    52,
	Quarter: 4,
	Year:    1,
}

// ParseGranularity maps a CLI/config string onto a Granularity.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case Month, Week, Quarter, Year:
		return Granularity(s), true
	}
	return "", false
}

// Period is one calendar bucket. Start is the bucket's first day
// (midnight UTC) and identifies the bucket.
type Period struct {
	Start       time.Time
	Granularity Granularity
}

// Bucket returns the period containing t.
func Bucket(t time.Time, g Granularity) Period {
	y, m, d := t.Date()
	var start time.Time
	switch g {
	case Week:
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // days since Monday
		start = day.AddDate(0, 0, -offset)
	case Quarter:
		qm := time.Month((int(m)-1)/3*3 + 1)
		start = time.Date(y, qm, 1, 0, 0, 0, 0, time.UTC)
	case Year:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default: // Month
		start = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}
	return Period{Start: start, Granularity: g}
}

// End returns the bucket's last day (midnight UTC).
func (p Period) End() time.Time {
	switch p.Granularity {
	case Week:
		return p.Start.AddDate(0, 0, 6)
	case Quarter:
		return p.Start.AddDate(0, 3, -1)
	case Year:
		return p.Start.AddDate(1, 0, -1)
	default:
		return p.Start.AddDate(0, 1, -1)
	}
}

// Label renders the period for display: calendar-aligned buckets get a
// compact form ("2024-03", "2024Q1", "2024"), weeks a range string.
func (p Period) Label() string {
	switch p.Granularity {
	case Week:
		end := p.End()
		return fmt.Sprintf("%s週 (%s〜%s)",
			p.Start.Format("2006-01-02"),
			p.Start.Format("01/02"),
			end.Format("01/02"),
		)
	case Quarter:
		return fmt.Sprintf("%dQ%d", p.Start.Year(), (int(p.Start.Month())-1)/3+1)
	case Year:
		return fmt.Sprintf("%d", p.Start.Year())
	default:
		return p.Start.Format("2006-01")
	}
}
