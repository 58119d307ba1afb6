package period

import (
	"sort"
	"time"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// Summary is the aggregate for one calendar bucket. Prior-value fields
// are absent when the series has no bucket that far back; deltas are
// fractional changes and absent whenever the prior value is absent or
// exactly zero.
type Summary struct {
	Period      Period
	PeriodStart time.Time
	PeriodEnd   time.Time
	Label       string

	SalesAmount     float64
	GrossProfit     float64
	NetGrossProfit  float64
	GrossMarginRate schema.NullFloat // net gross profit / sales

	PrevPeriodSales schema.NullFloat
	SalesMoM        schema.NullFloat
	PrevYearSales   schema.NullFloat
	SalesYoY        schema.NullFloat

	PrevPeriodGross schema.NullFloat
	GrossMoM        schema.NullFloat
	PrevYearGross   schema.NullFloat
	GrossYoY        schema.NullFloat
}

// Summarize buckets enriched rows by order date at the requested
// granularity, sums the money fields per bucket, and derives the
// period-over-period and year-over-year deltas. Buckets with no data do
// not appear; lags shift over existing buckets, not the calendar.
func Summarize(records []schema.EnrichedRecord, g Granularity) []Summary {
	if len(records) == 0 {
		return nil
	}

	byStart := make(map[time.Time]*Summary)
	for _, rec := range records {
		p := Bucket(rec.OrderDate, g)
		s, ok := byStart[p.Start]
		if !ok {
			s = &Summary{
				Period:      p,
				PeriodStart: p.Start,
				PeriodEnd:   p.End(),
				Label:       p.Label(),
			}
			byStart[p.Start] = s
		}
		s.SalesAmount += rec.SalesAmount
		s.GrossProfit += rec.GrossProfit
		s.NetGrossProfit += rec.NetGrossProfit
	}

	summaries := make([]Summary, 0, len(byStart))
	for _, s := range byStart {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(a, b int) bool {
		return summaries[a].PeriodStart.Before(summaries[b].PeriodStart)
	})

	lag := yoyLag[g]
	for i := range summaries {
		s := &summaries[i]
		if s.SalesAmount != 0 {
			s.GrossMarginRate = schema.F(s.NetGrossProfit / s.SalesAmount)
		}

		if i >= 1 {
			prev := summaries[i-1]
			s.PrevPeriodSales = schema.F(prev.SalesAmount)
			s.SalesMoM = fractionalChange(s.SalesAmount, prev.SalesAmount)
			s.PrevPeriodGross = schema.F(prev.NetGrossProfit)
			s.GrossMoM = fractionalChange(s.NetGrossProfit, prev.NetGrossProfit)
		}
		if lag > 0 && i >= lag {
			prior := summaries[i-lag]
			s.PrevYearSales = schema.F(prior.SalesAmount)
			s.SalesYoY = fractionalChange(s.SalesAmount, prior.SalesAmount)
			s.PrevYearGross = schema.F(prior.NetGrossProfit)
			s.GrossYoY = fractionalChange(s.NetGrossProfit, prior.NetGrossProfit)
		}
	}
	return summaries
}

// MonthlySummary is Summarize at monthly granularity, the form consumed
// by the KPI, P&L, and alert stages.
func MonthlySummary(records []schema.EnrichedRecord) []Summary {
	return Summarize(records, Month)
}

// fractionalChange returns (current − prior)/prior, absent when prior
// is exactly zero.
func fractionalChange(current, prior float64) schema.NullFloat {
	if prior == 0 {
		return schema.Null()
	}
	return schema.F((current - prior) / prior)
}
