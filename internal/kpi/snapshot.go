// Package kpi derives the monthly KPI snapshot (LTV, ARPU, churn, ROAS,
// CAC, repeat rate, margin) from enriched sales plus the optional
// subscription feed, builds the per-month history, and re-aggregates it
// at coarser granularities.
package kpi

import (
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// Overrides carries caller-supplied manual KPI inputs. A present key
// takes precedence over the subscription feed for that month.
type Overrides map[string]float64

// Override keys understood by Calculate.
const (
	KeyActiveCustomers         = "active_customers"
	KeyNewCustomers            = "new_customers"
	KeyRepeatCustomers         = "repeat_customers"
	KeyCancelledSubscriptions  = "cancelled_subscriptions"
	KeyPreviousActiveCustomers = "previous_active_customers"
	KeyMarketingCost           = "marketing_cost"
	KeyLTV                     = "ltv"
	KeyInventoryTurnoverDays   = "inventory_turnover_days"
	KeyStockoutRate            = "stockout_rate"
	KeyTrainingSessions        = "training_sessions"
	KeyNewProductCount         = "new_product_count"
)

func (o Overrides) get(key string) (schema.NullFloat, bool) {
	if o == nil {
		return schema.Null(), false
	}
	v, ok := o[key]
	if !ok {
		return schema.Null(), false
	}
	return schema.F(v), true
}

// Snapshot is the KPI set for one month. Every ratio field is absent
// whenever its denominator is absent or zero.
type Snapshot struct {
	Month       schema.Month
	Sales       float64
	GrossProfit float64 // net gross profit (after channel fees)

	ActiveCustomers         schema.NullFloat
	PreviousActiveCustomers schema.NullFloat
	NewCustomers            schema.NullFloat
	RepeatCustomers         schema.NullFloat
	CancelledSubscriptions  schema.NullFloat
	MarketingCost           schema.NullFloat
	LTV                     schema.NullFloat

	ARPU            schema.NullFloat // sales / active_customers
	RepeatRate      schema.NullFloat // repeat_customers / active_customers
	ChurnRate       schema.NullFloat // cancelled / previous_active_customers
	ROAS            schema.NullFloat // sales / marketing_cost
	AdvRatio        schema.NullFloat // marketing_cost / sales
	GrossMarginRate schema.NullFloat // gross_profit / sales
	CAC             schema.NullFloat // marketing_cost / new_customers

	// Override-only operational KPIs (no automated source feeds these).
	InventoryTurnoverDays schema.NullFloat
	StockoutRate          schema.NullFloat
	TrainingSessions      schema.NullFloat
	NewProductCount       schema.NullFloat
}

// Calculate derives the KPI snapshot for one month. A zero month means
// the latest month present in the enriched data. Each subscription-
// derived field resolves as override → matched subscription row → null.
// Returns false when there is no sales data at all.
func Calculate(records []schema.EnrichedRecord, subs []schema.SubscriptionRecord, month schema.Month, overrides Overrides) (Snapshot, bool) {
	if len(records) == 0 {
		return Snapshot{}, false
	}

	if month.IsZero() {
		for _, rec := range records {
			if month.Before(rec.OrderMonth) {
				month = rec.OrderMonth
			}
		}
	}

	snap := Snapshot{Month: month}
	for _, rec := range records {
		if rec.OrderMonth != month {
			continue
		}
		snap.Sales += rec.SalesAmount
		snap.GrossProfit += rec.NetGrossProfit
	}

	var sub *schema.SubscriptionRecord
	for i := range subs {
		if subs[i].Month == month {
			sub = &subs[i]
			break
		}
	}

	resolve := func(key string, fromSub func(*schema.SubscriptionRecord) schema.NullFloat) schema.NullFloat {
		if v, ok := overrides.get(key); ok {
			return v
		}
		if sub != nil {
			return fromSub(sub)
		}
		return schema.Null()
	}

	snap.ActiveCustomers = resolve(KeyActiveCustomers, func(s *schema.SubscriptionRecord) schema.NullFloat { return s.ActiveCustomers })
	snap.NewCustomers = resolve(KeyNewCustomers, func(s *schema.SubscriptionRecord) schema.NullFloat { return s.NewCustomers })
	snap.RepeatCustomers = resolve(KeyRepeatCustomers, func(s *schema.SubscriptionRecord) schema.NullFloat { return s.RepeatCustomers })
	snap.CancelledSubscriptions = resolve(KeyCancelledSubscriptions, func(s *schema.SubscriptionRecord) schema.NullFloat { return s.CancelledSubscriptions })
	snap.PreviousActiveCustomers = resolve(KeyPreviousActiveCustomers, func(s *schema.SubscriptionRecord) schema.NullFloat { return s.PreviousActiveCustomers })
	snap.MarketingCost = resolve(KeyMarketingCost, func(s *schema.SubscriptionRecord) schema.NullFloat { return s.MarketingCost })
	snap.LTV = resolve(KeyLTV, func(s *schema.SubscriptionRecord) schema.NullFloat { return s.LTV })

	// Operational KPIs come from manual input only.
	snap.InventoryTurnoverDays, _ = overrides.get(KeyInventoryTurnoverDays)
	snap.StockoutRate, _ = overrides.get(KeyStockoutRate)
	snap.TrainingSessions, _ = overrides.get(KeyTrainingSessions)
	snap.NewProductCount, _ = overrides.get(KeyNewProductCount)

	snap.ARPU = schema.Ratio(snap.Sales, snap.ActiveCustomers)
	snap.RepeatRate = schema.RatioN(snap.RepeatCustomers, snap.ActiveCustomers)
	snap.ChurnRate = schema.RatioN(snap.CancelledSubscriptions, snap.PreviousActiveCustomers)
	snap.ROAS = schema.Ratio(snap.Sales, snap.MarketingCost)
	snap.AdvRatio = schema.RatioN(snap.MarketingCost, schema.F(snap.Sales))
	snap.GrossMarginRate = schema.Ratio(snap.GrossProfit, schema.F(snap.Sales))
	snap.CAC = schema.RatioN(snap.MarketingCost, snap.NewCustomers)

	return snap, true
}
