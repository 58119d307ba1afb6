package simulate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

func TestSimulateGrowthOnly(t *testing.T) {
	base := PL{
		Sales:       1_000_000,
		COGS:        300_000,
		GrossProfit: 700_000,
		SGA:         500_000,
	}
	rows := Simulate(base, 0.10, 0, 0, 0)
	require.Len(t, rows, 5)

	byItem := map[string]ScenarioRow{}
	for _, row := range rows {
		byItem[row.Item] = row
	}

	assert.InDelta(t, 1_100_000, byItem["売上高"].Scenario, 1e-6)
	assert.InDelta(t, 330_000, byItem["売上原価"].Scenario, 1e-6)
	assert.InDelta(t, 770_000, byItem["粗利"].Scenario, 1e-6)
	assert.InDelta(t, 500_000, byItem["販管費"].Scenario, 1e-6)
	assert.InDelta(t, 270_000, byItem["営業利益"].Scenario, 1e-6)
	assert.InDelta(t, 70_000, byItem["営業利益"].Delta, 1e-6)
	assert.InDelta(t, 200_000, byItem["営業利益"].Baseline, 1e-6)
}

func TestSimulateCostRateClampedAtZero(t *testing.T) {
	base := PL{Sales: 1000, COGS: 100, GrossProfit: 900, SGA: 0}
	rows := Simulate(base, 0, -0.5, 0, 0)
	byItem := map[string]ScenarioRow{}
	for _, row := range rows {
		byItem[row.Item] = row
	}
	assert.Equal(t, 0.0, byItem["売上原価"].Scenario)
	assert.Equal(t, 1000.0, byItem["粗利"].Scenario)
}

func TestSimulateCostRateUncappedAboveOne(t *testing.T) {
	// A scenario may model selling below cost.
	base := PL{Sales: 1000, COGS: 900, GrossProfit: 100, SGA: 0}
	rows := Simulate(base, 0, 0.3, 0, 0)
	byItem := map[string]ScenarioRow{}
	for _, row := range rows {
		byItem[row.Item] = row
	}
	assert.InDelta(t, 1200, byItem["売上原価"].Scenario, 1e-9)
	assert.InDelta(t, -200, byItem["粗利"].Scenario, 1e-9)
}

func TestSimulateSGAKnobs(t *testing.T) {
	base := PL{Sales: 1000, COGS: 400, GrossProfit: 600, SGA: 200}
	rows := Simulate(base, 0, 0, 0.10, 50)
	byItem := map[string]ScenarioRow{}
	for _, row := range rows {
		byItem[row.Item] = row
	}
	assert.InDelta(t, 270, byItem["販管費"].Scenario, 1e-9)
	assert.InDelta(t, 330, byItem["営業利益"].Scenario, 1e-9)
}

func TestSimulateZeroSales(t *testing.T) {
	rows := Simulate(PL{}, 0.5, 0.1, 0, 0)
	byItem := map[string]ScenarioRow{}
	for _, row := range rows {
		byItem[row.Item] = row
	}
	assert.Equal(t, 0.0, byItem["売上高"].Scenario)
	assert.Equal(t, 0.0, byItem["売上原価"].Scenario)
}

func TestCurrentPLLatestMonth(t *testing.T) {
	jan := schema.Month{Year: 2024, Mon: time.January}
	feb := schema.Month{Year: 2024, Mon: time.February}

	records := []schema.EnrichedRecord{
		{SalesRecord: schema.SalesRecord{OrderDate: jan.Time(), SalesAmount: 500, OrderMonth: jan}, NetGrossProfit: 250},
		{SalesRecord: schema.SalesRecord{OrderDate: feb.Time(), SalesAmount: 1000, OrderMonth: feb}, NetGrossProfit: 700},
	}
	subs := []schema.SubscriptionRecord{
		{Month: feb, MarketingCost: schema.F(100)},
	}

	pl := CurrentPL(records, subs, 2000)
	assert.Equal(t, 1000.0, pl.Sales)
	assert.Equal(t, 300.0, pl.COGS)
	assert.Equal(t, 700.0, pl.GrossProfit)
	assert.Equal(t, 2100.0, pl.SGA)
	assert.Equal(t, -1400.0, pl.OperatingProfit)
}

func TestCurrentPLNoData(t *testing.T) {
	pl := CurrentPL(nil, nil, 2_500_000)
	assert.Equal(t, 0.0, pl.Sales)
	assert.Equal(t, 2_500_000.0, pl.SGA)
	assert.Equal(t, -2_500_000.0, pl.OperatingProfit)
}
