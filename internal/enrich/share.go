package enrich

import (
	"sort"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// Share is one slice of a sales-composition breakdown.
type Share struct {
	Key         string
	SalesAmount float64
}

// ChannelShare sums sales by channel, descending by amount.
func ChannelShare(records []schema.EnrichedRecord) []Share {
	return shareBy(records, func(r schema.EnrichedRecord) string { return r.Channel })
}

// CategoryShare sums sales by product category, descending by amount.
func CategoryShare(records []schema.EnrichedRecord) []Share {
	return shareBy(records, func(r schema.EnrichedRecord) string { return r.Category })
}

func shareBy(records []schema.EnrichedRecord, key func(schema.EnrichedRecord) string) []Share {
	if len(records) == 0 {
		return nil
	}

	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, rec := range records {
		k := key(rec)
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += rec.SalesAmount
	}

	shares := make([]Share, 0, len(order))
	for _, k := range order {
		shares = append(shares, Share{Key: k, SalesAmount: totals[k]})
	}
	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].SalesAmount > shares[b].SalesAmount
	})
	return shares
}
