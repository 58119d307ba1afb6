package kpi

import (
	"sort"
	"time"

	"github.com/kurashi-ikiiki/keisu-cli/internal/period"
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// PeriodRow is the KPI history re-bucketed at a coarser granularity.
// Additive fields are sums over the bucket's months; active customers
// and LTV are means; the ratio KPIs are recomputed from the
// re-aggregated values rather than averaged (averaging monthly ratios
// would weight small months the same as large ones).
type PeriodRow struct {
	Period      period.Period
	PeriodStart time.Time
	PeriodEnd   time.Time
	Label       string

	Sales                   float64
	GrossProfit             float64
	MarketingCost           float64
	ActiveCustomersAvg      schema.NullFloat
	NewCustomers            float64
	RepeatCustomers         float64
	CancelledSubscriptions  float64
	PreviousActiveCustomers float64
	LTV                     schema.NullFloat

	ARPU            schema.NullFloat
	ChurnRate       schema.NullFloat
	RepeatRate      schema.NullFloat
	GrossMarginRate schema.NullFloat

	InventoryTurnoverDays schema.NullFloat
	StockoutRate          schema.NullFloat
	TrainingSessions      float64
	NewProductCount       float64

	LTVPrev                schema.NullFloat
	LTVDelta               schema.NullFloat
	ARPUPrev               schema.NullFloat
	ARPUDelta              schema.NullFloat
	ChurnPrev              schema.NullFloat
	ChurnDelta             schema.NullFloat
	GrossMarginPrev        schema.NullFloat
	GrossMarginDelta       schema.NullFloat
	RepeatPrev             schema.NullFloat
	RepeatDelta            schema.NullFloat
	InventoryTurnoverPrev  schema.NullFloat
	InventoryTurnoverDelta schema.NullFloat
	StockoutPrev           schema.NullFloat
	StockoutDelta          schema.NullFloat
	TrainingPrev           schema.NullFloat
	TrainingDelta          schema.NullFloat
	NewProductPrev         schema.NullFloat
	NewProductDelta        schema.NullFloat
}

// meanAcc accumulates a null-skipping arithmetic mean.
type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v schema.NullFloat) {
	if v.Valid {
		m.sum += v.Float64
		m.n++
	}
}

func (m meanAcc) value() schema.NullFloat {
	if m.n == 0 {
		return schema.Null()
	}
	return schema.F(m.sum / float64(m.n))
}

// aggregateAcc is the working state for one coarser bucket.
type aggregateAcc struct {
	row                 PeriodRow
	active, ltv         meanAcc
	inventory, stockout meanAcc
}

// AggregateHistory re-buckets monthly KPI snapshots at the requested
// granularity and appends shift-by-one-bucket prev/delta pairs for the
// trend KPIs.
func AggregateHistory(history []Snapshot, g period.Granularity) []PeriodRow {
	if len(history) == 0 {
		return nil
	}

	byStart := make(map[time.Time]*aggregateAcc)
	for _, snap := range history {
		if snap.Month.IsZero() {
			continue
		}
		p := period.Bucket(snap.Month.Time(), g)
		acc, ok := byStart[p.Start]
		if !ok {
			acc = &aggregateAcc{row: PeriodRow{
				Period:      p,
				PeriodStart: p.Start,
				PeriodEnd:   p.End(),
				Label:       p.Label(),
			}}
			byStart[p.Start] = acc
		}

		acc.row.Sales += snap.Sales
		acc.row.GrossProfit += snap.GrossProfit
		acc.row.MarketingCost += snap.MarketingCost.Or(0)
		acc.row.NewCustomers += snap.NewCustomers.Or(0)
		acc.row.RepeatCustomers += snap.RepeatCustomers.Or(0)
		acc.row.CancelledSubscriptions += snap.CancelledSubscriptions.Or(0)
		acc.row.PreviousActiveCustomers += snap.PreviousActiveCustomers.Or(0)
		acc.row.TrainingSessions += snap.TrainingSessions.Or(0)
		acc.row.NewProductCount += snap.NewProductCount.Or(0)
		acc.active.add(snap.ActiveCustomers)
		acc.ltv.add(snap.LTV)
		acc.inventory.add(snap.InventoryTurnoverDays)
		acc.stockout.add(snap.StockoutRate)
	}

	rows := make([]PeriodRow, 0, len(byStart))
	for _, acc := range byStart {
		row := acc.row
		row.ActiveCustomersAvg = acc.active.value()
		row.LTV = acc.ltv.value()
		row.InventoryTurnoverDays = acc.inventory.value()
		row.StockoutRate = acc.stockout.value()

		// Recompute ratios from the re-aggregated values.
		row.ARPU = schema.Ratio(row.Sales, row.ActiveCustomersAvg)
		row.ChurnRate = schema.Ratio(row.CancelledSubscriptions, schema.F(row.PreviousActiveCustomers))
		row.RepeatRate = schema.Ratio(row.RepeatCustomers, row.ActiveCustomersAvg)
		row.GrossMarginRate = schema.Ratio(row.GrossProfit, schema.F(row.Sales))

		rows = append(rows, row)
	}
	sort.Slice(rows, func(a, b int) bool {
		return rows[a].PeriodStart.Before(rows[b].PeriodStart)
	})

	for i := 1; i < len(rows); i++ {
		cur, prev := &rows[i], rows[i-1]
		cur.LTVPrev = prev.LTV
		cur.LTVDelta = cur.LTV.Sub(prev.LTV)
		cur.ARPUPrev = prev.ARPU
		cur.ARPUDelta = cur.ARPU.Sub(prev.ARPU)
		cur.ChurnPrev = prev.ChurnRate
		cur.ChurnDelta = cur.ChurnRate.Sub(prev.ChurnRate)
		cur.GrossMarginPrev = prev.GrossMarginRate
		cur.GrossMarginDelta = cur.GrossMarginRate.Sub(prev.GrossMarginRate)
		cur.RepeatPrev = prev.RepeatRate
		cur.RepeatDelta = cur.RepeatRate.Sub(prev.RepeatRate)
		cur.InventoryTurnoverPrev = prev.InventoryTurnoverDays
		cur.InventoryTurnoverDelta = cur.InventoryTurnoverDays.Sub(prev.InventoryTurnoverDays)
		cur.StockoutPrev = prev.StockoutRate
		cur.StockoutDelta = cur.StockoutRate.Sub(prev.StockoutRate)
		cur.TrainingPrev = schema.F(prev.TrainingSessions)
		cur.TrainingDelta = schema.F(cur.TrainingSessions - prev.TrainingSessions)
		cur.NewProductPrev = schema.F(prev.NewProductCount)
		cur.NewProductDelta = schema.F(cur.NewProductCount - prev.NewProductCount)
	}
	return rows
}
