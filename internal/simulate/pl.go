// Package simulate builds the baseline monthly P&L and runs what-if
// scenarios over it.
package simulate

import (
	"github.com/kurashi-ikiiki/keisu-cli/internal/period"
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// PL is a single-month profit-and-loss model. GrossProfit is net of
// channel fees, so COGS here absorbs both product cost and fees.
type PL struct {
	Sales           float64
	COGS            float64
	GrossProfit     float64
	SGA             float64
	OperatingProfit float64
}

// CurrentPL assembles the baseline P&L from the latest month of
// enriched sales. SG&A is the caller's fixed cost plus that month's
// marketing cost from the subscription feed. With no sales data the
// baseline is an all-zero P&L carrying only the fixed cost.
func CurrentPL(records []schema.EnrichedRecord, subs []schema.SubscriptionRecord, fixedCost float64) PL {
	if len(records) == 0 {
		return PL{SGA: fixedCost, OperatingProfit: -fixedCost}
	}

	monthly := period.MonthlySummary(records)
	latest := monthly[len(monthly)-1]

	marketing := 0.0
	latestMonth := schema.MonthOf(latest.PeriodStart)
	for _, sub := range subs {
		if sub.Month == latestMonth {
			marketing = sub.MarketingCost.Or(0)
			break
		}
	}

	pl := PL{
		Sales:       latest.SalesAmount,
		COGS:        latest.SalesAmount - latest.NetGrossProfit,
		GrossProfit: latest.NetGrossProfit,
		SGA:         fixedCost + marketing,
	}
	pl.OperatingProfit = pl.GrossProfit - pl.SGA
	return pl
}

// ScenarioRow is one line of the simulation output.
type ScenarioRow struct {
	Item     string
	Baseline float64
	Scenario float64
	Delta    float64
}

// Simulate applies the four scenario knobs to a baseline P&L and
// returns the fixed five-row comparison (revenue, COGS, gross profit,
// SG&A, operating profit).
//
// The scenario cost ratio is the baseline COGS/sales ratio plus the
// adjustment, clamped at zero but deliberately uncapped above 1: a
// scenario may model selling below cost.
func Simulate(base PL, salesGrowthRate, costRateAdjustment, sgaChangeRate, additionalAdCost float64) []ScenarioRow {
	baseGross := base.GrossProfit
	if baseGross == 0 && base.Sales != 0 {
		baseGross = base.Sales - base.COGS
	}
	baseOperating := baseGross - base.SGA

	baseCostRatio := 0.0
	if base.Sales != 0 {
		baseCostRatio = base.COGS / base.Sales
	}

	newSales := base.Sales * (1 + salesGrowthRate)
	newCostRatio := baseCostRatio + costRateAdjustment
	if newCostRatio < 0 {
		newCostRatio = 0
	}
	newCOGS := newSales * newCostRatio
	newGross := newSales - newCOGS
	newSGA := base.SGA*(1+sgaChangeRate) + additionalAdCost
	newOperating := newGross - newSGA

	rows := []ScenarioRow{
		{Item: "売上高", Baseline: base.Sales, Scenario: newSales},
		{Item: "売上原価", Baseline: base.COGS, Scenario: newCOGS},
		{Item: "粗利", Baseline: baseGross, Scenario: newGross},
		{Item: "販管費", Baseline: base.SGA, Scenario: newSGA},
		{Item: "営業利益", Baseline: baseOperating, Scenario: newOperating},
	}
	for i := range rows {
		rows[i].Delta = rows[i].Scenario - rows[i].Baseline
	}
	return rows
}
