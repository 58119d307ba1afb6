package session

import (
	"time"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// FilterOptions narrows the enriched dataset before reporting. Empty
// slices and zero times mean "no restriction" for that axis.
type FilterOptions struct {
	Channels   []string
	Categories []string
	From       time.Time
	To         time.Time // inclusive
}

// Filter returns the records matching every set restriction, preserving
// input order.
func Filter(records []schema.EnrichedRecord, opts FilterOptions) []schema.EnrichedRecord {
	channels := toSet(opts.Channels)
	categories := toSet(opts.Categories)

	var out []schema.EnrichedRecord
	for _, rec := range records {
		if channels != nil {
			if _, ok := channels[rec.Channel]; !ok {
				continue
			}
		}
		if categories != nil {
			if _, ok := categories[rec.Category]; !ok {
				continue
			}
		}
		if !opts.From.IsZero() && rec.OrderDate.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && rec.OrderDate.After(opts.To) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
