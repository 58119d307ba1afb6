package normalize

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// Default values applied when a canonical column is missing or a cell
// is blank. These mirror the canonical ingestion policy and are relied
// on by the merge stage (e.g. the "NA" product-code sentinel).
const (
	DefaultChannel     = "不明"
	DefaultProductCode = "NA"
	DefaultProductName = "不明商品"
	DefaultCategory    = "未分類"
	DefaultCustomerID  = "anonymous"
)

// Skip records one input row that could not be normalized, with the
// zero-based data row index and a human-readable reason. Skipping is
// policy, not failure: callers surface these as validation warnings.
type Skip struct {
	Row    int
	Reason string
}

// SalesResult carries normalized sales rows plus the rows dropped on
// the way, so lenient ingestion never silently discards information.
type SalesResult struct {
	Records []schema.SalesRecord
	Skipped []Skip
}

// Sales normalizes a raw sales table. channelHint names the channel for
// tables that carry no channel column (typically per-marketplace files);
// an empty hint falls back to DefaultChannel. Rows without a parseable
// order date are skipped.
func Sales(t schema.Table, channelHint string) SalesResult {
	var out SalesResult
	if t.Empty() {
		return out
	}

	cols := resolveColumns(t.Header, salesAliases)
	if channelHint == "" {
		channelHint = DefaultChannel
	}

	for i, row := range t.Rows {
		rawDate, _ := cols.cell(row, "order_date")
		date, ok := parseDate(rawDate)
		if !ok {
			out.Skipped = append(out.Skipped, Skip{
				Row:    i,
				Reason: fmt.Sprintf("注文日を解釈できません: %q", rawDate),
			})
			continue
		}

		channel, _ := cols.cell(row, "channel")
		code, _ := cols.cell(row, "product_code")
		name, _ := cols.cell(row, "product_name")
		category, _ := cols.cell(row, "category")
		quantityCell, hasQuantity := cols.cell(row, "quantity")
		amountCell, _ := cols.cell(row, "sales_amount")
		customer, _ := cols.cell(row, "customer_id")

		quantity := 1.0
		if hasQuantity {
			quantity = parseFloatOr(quantityCell, 1)
		}
		amount := parseFloatOr(amountCell, 0)

		rec := schema.SalesRecord{
			OrderDate:   date,
			Channel:     stringOr(channel, channelHint),
			ProductCode: stringOr(code, DefaultProductCode),
			ProductName: stringOr(name, DefaultProductName),
			Category:    stringOr(category, DefaultCategory),
			Quantity:    quantity,
			SalesAmount: amount,
			CustomerID:  stringOr(customer, DefaultCustomerID),
			OrderMonth:  schema.MonthOf(date),
		}
		// Unit price avoids dividing by a zero quantity.
		if rec.Quantity != 0 {
			rec.UnitPrice = rec.SalesAmount / rec.Quantity
		} else {
			rec.UnitPrice = rec.SalesAmount
		}
		out.Records = append(out.Records, rec)
	}

	sort.SliceStable(out.Records, func(a, b int) bool {
		return out.Records[a].OrderDate.Before(out.Records[b].OrderDate)
	})

	if len(out.Skipped) > 0 {
		zap.L().Debug("normalize: sales rows skipped",
			zap.Int("skipped", len(out.Skipped)),
			zap.Int("kept", len(out.Records)),
		)
	}
	return out
}

// CostResult carries normalized cost rows plus skipped-row reasons.
type CostResult struct {
	Records []schema.CostRecord
	Skipped []Skip
}

// Costs normalizes a raw cost table. A missing cost_rate is derived
// from cost/price per row when the price is usable, otherwise left
// absent for the merge stage to default.
func Costs(t schema.Table) CostResult {
	var out CostResult
	if t.Empty() {
		return out
	}

	cols := resolveColumns(t.Header, costAliases)
	for _, row := range t.Rows {
		code, _ := cols.cell(row, "product_code")
		name, _ := cols.cell(row, "product_name")
		category, _ := cols.cell(row, "category")
		priceCell, _ := cols.cell(row, "price")
		costCell, _ := cols.cell(row, "cost")
		rateCell, _ := cols.cell(row, "cost_rate")

		rec := schema.CostRecord{
			ProductCode: stringOr(code, DefaultProductCode),
			ProductName: stringOr(name, DefaultProductName),
			Category:    stringOr(category, DefaultCategory),
			Price:       parseFloatNull(priceCell),
			Cost:        parseFloatNull(costCell),
			CostRate:    parseFloatNull(rateCell),
		}
		if !rec.CostRate.Valid {
			rec.CostRate = schema.RatioN(rec.Cost, rec.Price)
		}
		rec.GrossMarginRate = 1 - rec.CostRate.Or(0)
		out.Records = append(out.Records, rec)
	}
	return out
}

// SubscriptionResult carries normalized subscription/KPI rows plus
// skipped-row reasons.
type SubscriptionResult struct {
	Records []schema.SubscriptionRecord
	Skipped []Skip
}

// Subscription normalizes a raw subscription/KPI table. Numeric fields
// stay null when absent; rows without a parseable month are skipped.
func Subscription(t schema.Table) SubscriptionResult {
	var out SubscriptionResult
	if t.Empty() {
		return out
	}

	cols := resolveColumns(t.Header, subscriptionAliases)
	for i, row := range t.Rows {
		rawMonth, _ := cols.cell(row, "month")
		month, ok := schema.ParseMonth(rawMonth)
		if !ok {
			out.Skipped = append(out.Skipped, Skip{
				Row:    i,
				Reason: fmt.Sprintf("対象月を解釈できません: %q", rawMonth),
			})
			continue
		}

		get := func(field string) schema.NullFloat {
			cell, _ := cols.cell(row, field)
			return parseFloatNull(cell)
		}

		out.Records = append(out.Records, schema.SubscriptionRecord{
			Month:                   month,
			ActiveCustomers:         get("active_customers"),
			PreviousActiveCustomers: get("previous_active_customers"),
			NewCustomers:            get("new_customers"),
			RepeatCustomers:         get("repeat_customers"),
			CancelledSubscriptions:  get("cancelled_subscriptions"),
			MarketingCost:           get("marketing_cost"),
			LTV:                     get("ltv"),
			TotalSales:              get("total_sales"),
		})
	}

	sort.SliceStable(out.Records, func(a, b int) bool {
		return out.Records[a].Month.Before(out.Records[b].Month)
	})
	return out
}
