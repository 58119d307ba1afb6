package kpi

import (
	"sort"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// Dimension selects the grouping key for a KPI breakdown.
type Dimension string

const (
	ByChannel  Dimension = "channel"
	ByCategory Dimension = "category"
)

// BreakdownRow is one group of a per-dimension KPI breakdown. The
// marketing cost and cancellation figures are the snapshot totals
// apportioned by sales share, so they are estimates rather than measured
// per-group values.
type BreakdownRow struct {
	Key             string
	SalesAmount     float64
	NetGrossProfit  float64
	SalesShare      schema.NullFloat
	GrossMarginRate schema.NullFloat
	MarketingCost   schema.NullFloat // totals.MarketingCost × share
	CancelledEst    schema.NullFloat // totals.CancelledSubscriptions × share
}

// Breakdown groups enriched rows by the dimension and apportions the
// snapshot's marketing cost and cancellations by each group's sales
// share, descending by sales.
func Breakdown(records []schema.EnrichedRecord, dim Dimension, totals Snapshot) []BreakdownRow {
	if len(records) == 0 {
		return nil
	}

	keyOf := func(rec schema.EnrichedRecord) string {
		if dim == ByCategory {
			return rec.Category
		}
		return rec.Channel
	}

	groups := make(map[string]*BreakdownRow)
	order := make([]string, 0)
	var totalSales float64
	for _, rec := range records {
		k := keyOf(rec)
		row, ok := groups[k]
		if !ok {
			row = &BreakdownRow{Key: k}
			groups[k] = row
			order = append(order, k)
		}
		row.SalesAmount += rec.SalesAmount
		row.NetGrossProfit += rec.NetGrossProfit
		totalSales += rec.SalesAmount
	}

	rows := make([]BreakdownRow, 0, len(order))
	for _, k := range order {
		row := *groups[k]
		row.SalesShare = schema.Ratio(row.SalesAmount, schema.F(totalSales))
		row.GrossMarginRate = schema.Ratio(row.NetGrossProfit, schema.F(row.SalesAmount))
		if row.SalesShare.Valid {
			share := row.SalesShare.Float64
			if totals.MarketingCost.Valid {
				row.MarketingCost = schema.F(totals.MarketingCost.Float64 * share)
			}
			if totals.CancelledSubscriptions.Valid {
				row.CancelledEst = schema.F(totals.CancelledSubscriptions.Float64 * share)
			}
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].SalesAmount > rows[b].SalesAmount
	})
	return rows
}
