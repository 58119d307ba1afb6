package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

func monthRow(month schema.Month, sales, net float64) schema.EnrichedRecord {
	return schema.EnrichedRecord{
		SalesRecord: schema.SalesRecord{
			OrderDate:   month.Time(),
			SalesAmount: sales,
			OrderMonth:  month,
		},
		NetGrossProfit: net,
	}
}

var (
	jan = schema.Month{Year: 2024, Mon: time.January}
	feb = schema.Month{Year: 2024, Mon: time.February}
	mar = schema.Month{Year: 2024, Mon: time.March}
)

func TestCalculateFromSubscriptionFeed(t *testing.T) {
	records := []schema.EnrichedRecord{monthRow(feb, 1_000_000, 650_000)}
	subs := []schema.SubscriptionRecord{{
		Month:                   feb,
		ActiveCustomers:         schema.F(400),
		PreviousActiveCustomers: schema.F(380),
		NewCustomers:            schema.F(50),
		RepeatCustomers:         schema.F(300),
		CancelledSubscriptions:  schema.F(19),
		MarketingCost:           schema.F(200_000),
		LTV:                     schema.F(25_000),
	}}

	snap, ok := Calculate(records, subs, feb, nil)
	require.True(t, ok)
	assert.Equal(t, 1_000_000.0, snap.Sales)
	assert.Equal(t, 650_000.0, snap.GrossProfit)
	assert.Equal(t, schema.F(2500), snap.ARPU)
	assert.Equal(t, schema.F(0.05), snap.ChurnRate)
	assert.Equal(t, schema.F(0.75), snap.RepeatRate)
	assert.Equal(t, schema.F(5), snap.ROAS)
	assert.Equal(t, schema.F(0.2), snap.AdvRatio)
	assert.Equal(t, schema.F(0.65), snap.GrossMarginRate)
	assert.Equal(t, schema.F(4000), snap.CAC)
	assert.Equal(t, schema.F(25_000), snap.LTV)
}

func TestCalculateNoSubscriptionFeed(t *testing.T) {
	records := []schema.EnrichedRecord{monthRow(feb, 500_000, 300_000)}
	snap, ok := Calculate(records, nil, feb, nil)
	require.True(t, ok)

	// Money KPIs still work; customer KPIs stay absent rather than zero.
	assert.Equal(t, schema.F(0.6), snap.GrossMarginRate)
	assert.False(t, snap.ARPU.Valid)
	assert.False(t, snap.ChurnRate.Valid)
	assert.False(t, snap.ROAS.Valid)
	assert.False(t, snap.CAC.Valid)
}

func TestCalculateOverridesBeatFeed(t *testing.T) {
	records := []schema.EnrichedRecord{monthRow(feb, 100_000, 50_000)}
	subs := []schema.SubscriptionRecord{{Month: feb, ActiveCustomers: schema.F(100)}}

	snap, ok := Calculate(records, subs, feb, Overrides{KeyActiveCustomers: 200})
	require.True(t, ok)
	assert.Equal(t, schema.F(200), snap.ActiveCustomers)
	assert.Equal(t, schema.F(500), snap.ARPU)
}

func TestCalculateOperationalKPIsAreOverrideOnly(t *testing.T) {
	records := []schema.EnrichedRecord{monthRow(feb, 100, 50)}
	snap, ok := Calculate(records, nil, feb, Overrides{
		KeyInventoryTurnoverDays: 45,
		KeyStockoutRate:          0.02,
	})
	require.True(t, ok)
	assert.Equal(t, schema.F(45), snap.InventoryTurnoverDays)
	assert.Equal(t, schema.F(0.02), snap.StockoutRate)
	assert.False(t, snap.TrainingSessions.Valid)
	assert.False(t, snap.NewProductCount.Valid)
}

func TestCalculateZeroMonthPicksLatest(t *testing.T) {
	records := []schema.EnrichedRecord{
		monthRow(jan, 100, 50),
		monthRow(mar, 300, 150),
		monthRow(feb, 200, 100),
	}
	snap, ok := Calculate(records, nil, schema.Month{}, nil)
	require.True(t, ok)
	assert.Equal(t, mar, snap.Month)
	assert.Equal(t, 300.0, snap.Sales)
}

func TestCalculateNoData(t *testing.T) {
	_, ok := Calculate(nil, nil, feb, nil)
	assert.False(t, ok)
}

func TestBuildHistory(t *testing.T) {
	records := []schema.EnrichedRecord{
		monthRow(feb, 200, 100),
		monthRow(jan, 100, 50),
		monthRow(feb, 50, 25),
	}
	history := BuildHistory(records, nil, nil)
	require.Len(t, history, 2)
	assert.Equal(t, jan, history[0].Month)
	assert.Equal(t, feb, history[1].Month)
	assert.Equal(t, 250.0, history[1].Sales)
}
