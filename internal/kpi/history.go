package kpi

import (
	"sort"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// BuildHistory computes one snapshot per distinct month present in the
// enriched data, ascending. The same overrides apply to every month,
// matching how manual KPI inputs behave in the dashboard.
func BuildHistory(records []schema.EnrichedRecord, subs []schema.SubscriptionRecord, overrides Overrides) []Snapshot {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[schema.Month]struct{})
	months := make([]schema.Month, 0)
	for _, rec := range records {
		if _, ok := seen[rec.OrderMonth]; ok {
			continue
		}
		seen[rec.OrderMonth] = struct{}{}
		months = append(months, rec.OrderMonth)
	}
	sort.Slice(months, func(a, b int) bool { return months[a].Before(months[b]) })

	history := make([]Snapshot, 0, len(months))
	for _, month := range months {
		if snap, ok := Calculate(records, subs, month, overrides); ok {
			history = append(history, snap)
		}
	}
	return history
}
