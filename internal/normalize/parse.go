package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// dateLayouts are tried in order when parsing an order date. Marketplace
// exports mix ISO, slash, and compact Japanese forms.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02T15:04:05",
	"2006年01月02日",
	"2006年1月2日",
	"20060102",
}

// parseDate parses a date cell leniently.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseFloatOr parses a numeric cell, returning def on empty or
// malformed input. Thousands separators and a yen sign are tolerated.
func parseFloatOr(s string, def float64) float64 {
	v, ok := parseFloat(s)
	if !ok {
		return def
	}
	return v
}

// parseFloatNull parses a numeric cell into a nullable metric.
func parseFloatNull(s string) schema.NullFloat {
	v, ok := parseFloat(s)
	if !ok {
		return schema.Null()
	}
	return schema.F(v)
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "¥")
	s = strings.TrimPrefix(s, "￥")
	s = strings.TrimSuffix(s, "円")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// stringOr returns s, or def when the cell is empty.
func stringOr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}
