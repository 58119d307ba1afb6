package schema

import (
	"fmt"
	"strings"
	"time"
)

// Month is a calendar-month period ("2024-03"). The zero value is no month.
type Month struct {
	Year int
	Mon  time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// monthLayouts are tried in order when parsing a month cell. Full-date
// layouts are included because KPI feeds often carry "2024-03-01".
var monthLayouts = []string{
	"2006-01",
	"2006/01",
	"2006年01月",
	"2006年1月",
	"200601",
	"2006-01-02",
	"2006/01/02",
}

// ParseMonth parses a month in any of the accepted layouts.
func ParseMonth(s string) (Month, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Month{}, false
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthOf(t), true
		}
	}
	return Month{}, false
}

// IsZero reports whether m is the absent month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following month.
func (m Month) Next() Month {
	return MonthOf(m.Time().AddDate(0, 1, 0))
}

// Before reports whether m precedes o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Mon < o.Mon
}

func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}
