package schema

import "time"

// Table is a raw tabular input: a header row plus string cells, as
// produced by the CSV/XLSX readers or a remote JSON fetch. Column names
// are arbitrary; the normalizer maps them onto canonical fields.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table carries no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// SalesRecord is one normalized sales row. OrderDate is always set
// (rows without a parseable date never survive normalization) and
// string fields always carry their documented defaults.
type SalesRecord struct {
	OrderDate   time.Time
	Channel     string
	ProductCode string
	ProductName string
	Category    string
	Quantity    float64
	SalesAmount float64
	CustomerID  string

	// Derived at normalization time.
	UnitPrice  float64 // sales_amount/quantity, or sales_amount when quantity is 0
	OrderMonth Month
}

// CostRecord is one normalized cost-table row. CostRate may be absent
// when neither a rate nor a price is available; the merge stage applies
// the documented default instead.
type CostRecord struct {
	ProductCode     string
	ProductName     string
	Category        string
	Price           NullFloat
	Cost            NullFloat
	CostRate        NullFloat
	GrossMarginRate float64 // 1 − cost_rate, with absent cost_rate read as 0
}

// SubscriptionRecord is one monthly subscription/KPI feed row. Every
// numeric field is nullable; absence propagates downstream as null.
type SubscriptionRecord struct {
	Month                   Month
	ActiveCustomers         NullFloat
	PreviousActiveCustomers NullFloat
	NewCustomers            NullFloat
	RepeatCustomers         NullFloat
	CancelledSubscriptions  NullFloat
	MarketingCost           NullFloat
	LTV                     NullFloat
	TotalSales              NullFloat
}

// EnrichedRecord is a sales row joined with cost data plus the derived
// profit fields. CostRate is always concrete here (clamped, defaulted),
// so the profit arithmetic never sees a null.
type EnrichedRecord struct {
	SalesRecord

	CostRate         float64
	GrossMarginRate  float64
	EstimatedCost    float64 // sales_amount × cost_rate
	GrossProfit      float64 // sales_amount − estimated_cost
	ChannelFeeRate   float64
	ChannelFeeAmount float64 // sales_amount × channel_fee_rate
	NetGrossProfit   float64 // gross_profit − channel_fee_amount
}
