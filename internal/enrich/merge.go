package enrich

import (
	"go.uber.org/zap"

	"github.com/kurashi-ikiiki/keisu-cli/internal/normalize"
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// DefaultCostRate is the documented business assumption applied to
// sales rows with no matching cost record. It is a fixed default, never
// inferred from the data.
const DefaultCostRate = 0.30

// Cost rates are clamped into [0, costRateMax] at merge time so one bad
// cost row cannot turn gross profit negative across the board.
const costRateMax = 0.95

// Merge left-joins sales rows with cost rows and derives the profit
// fields. The join key is product_code; when the cost table carries no
// real codes (every code is the "NA" sentinel) the join falls back to
// product_name for the whole table, never a silent partial mix of keys.
// Unmatched rows get DefaultCostRate so the arithmetic never sees null.
func Merge(sales []schema.SalesRecord, costs []schema.CostRecord, fees FeeTable) []schema.EnrichedRecord {
	if len(sales) == 0 {
		return nil
	}
	if fees == nil {
		fees = DefaultFeeTable()
	}

	byKey, byName := indexCosts(costs)

	enriched := make([]schema.EnrichedRecord, 0, len(sales))
	unmatched := 0
	for _, rec := range sales {
		var cost *schema.CostRecord
		if byName {
			cost = byKey[rec.ProductName]
		} else {
			cost = byKey[rec.ProductCode]
		}

		rate := DefaultCostRate
		margin := 1 - DefaultCostRate
		if cost != nil {
			rate = clampRate(cost.CostRate.Or(DefaultCostRate))
			margin = 1 - rate
		} else {
			unmatched++
		}

		row := schema.EnrichedRecord{
			SalesRecord:     rec,
			CostRate:        rate,
			GrossMarginRate: margin,
			ChannelFeeRate:  fees.Rate(rec.Channel),
		}
		row.EstimatedCost = row.SalesAmount * row.CostRate
		row.GrossProfit = row.SalesAmount - row.EstimatedCost
		row.ChannelFeeAmount = row.SalesAmount * row.ChannelFeeRate
		row.NetGrossProfit = row.GrossProfit - row.ChannelFeeAmount
		enriched = append(enriched, row)
	}

	if unmatched > 0 && len(costs) > 0 {
		zap.L().Debug("enrich: sales rows without cost match, default rate applied",
			zap.Int("unmatched", unmatched),
			zap.Float64("default_cost_rate", DefaultCostRate),
		)
	}
	return enriched
}

// indexCosts builds the lookup map and reports whether the name
// fallback is in effect. The fallback is all-or-nothing: it triggers
// only when every cost row carries the sentinel code.
func indexCosts(costs []schema.CostRecord) (map[string]*schema.CostRecord, bool) {
	if len(costs) == 0 {
		return nil, false
	}

	byName := true
	for _, c := range costs {
		if c.ProductCode != normalize.DefaultProductCode {
			byName = false
			break
		}
	}

	idx := make(map[string]*schema.CostRecord, len(costs))
	for i := range costs {
		key := costs[i].ProductCode
		if byName {
			key = costs[i].ProductName
		}
		// First row wins on key collision, matching a left join that
		// keeps one match per sales row.
		if _, dup := idx[key]; !dup {
			idx[key] = &costs[i]
		}
	}

	if byName {
		zap.L().Debug("enrich: cost table has no product codes, joining on product_name")
	}
	return idx, byName
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > costRateMax {
		return costRateMax
	}
	return rate
}
