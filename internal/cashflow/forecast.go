// Package cashflow computes a running cash-balance forecast from a
// monthly plan of operating, investment, and financing cash flows.
package cashflow

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/kurashi-ikiiki/keisu-cli/internal/period"
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// Defaults for the generated plan, matching the documented assumptions.
const (
	DefaultLoanRepayment = 600_000
	defaultInvestmentCF  = -250_000
	operatingCFRatio     = 0.75 // share of recent net gross profit treated as operating CF
	trailingMonths       = 6
)

// PlanRow is one month of the cash-flow plan.
type PlanRow struct {
	Month         schema.Month
	OperatingCF   float64
	InvestmentCF  float64
	FinancingCF   float64
	LoanRepayment float64
}

// ForecastRow is one month of the computed forecast.
type ForecastRow struct {
	Month       schema.Month
	NetCF       float64
	CashBalance float64
}

// Forecast folds the plan into a running balance, strictly in the given
// row order; the caller supplies chronological order. Pure
// accumulation: net_cf = operating + financing − investment − loan.
func Forecast(plan []PlanRow, openingCash float64) []ForecastRow {
	if len(plan) == 0 {
		return nil
	}

	rows := make([]ForecastRow, 0, len(plan))
	cash := openingCash
	for _, p := range plan {
		net := p.OperatingCF + p.FinancingCF - p.InvestmentCF - p.LoanRepayment
		cash += net
		rows = append(rows, ForecastRow{Month: p.Month, NetCF: net, CashBalance: cash})
	}
	return rows
}

// DefaultPlan derives a starter plan from recent results: operating CF
// is 75% of the trailing-6-month mean net gross profit, starting the
// month after the last month with data. With no sales data the plan
// starts from the given fallback month with zero operating CF.
func DefaultPlan(records []schema.EnrichedRecord, horizonMonths int, fallbackStart schema.Month) []PlanRow {
	if horizonMonths <= 0 {
		return nil
	}

	operatingCF := 0.0
	start := fallbackStart
	if len(records) > 0 {
		monthly := period.MonthlySummary(records)
		tail := monthly
		if len(tail) > trailingMonths {
			tail = tail[len(tail)-trailingMonths:]
		}
		var sum float64
		for _, s := range tail {
			sum += s.NetGrossProfit
		}
		operatingCF = sum / float64(len(tail)) * operatingCFRatio
		start = schema.MonthOf(monthly[len(monthly)-1].PeriodStart).Next()
	}

	investment := 0.0
	if len(records) > 0 {
		investment = defaultInvestmentCF
	}

	plan := make([]PlanRow, 0, horizonMonths)
	month := start
	for i := 0; i < horizonMonths; i++ {
		plan = append(plan, PlanRow{
			Month:         month,
			OperatingCF:   operatingCF,
			InvestmentCF:  investment,
			LoanRepayment: DefaultLoanRepayment,
		})
		month = month.Next()
	}
	return plan
}

// planFileRow is the YAML representation of one plan month.
type planFileRow struct {
	Month         string  `yaml:"month"`
	OperatingCF   float64 `yaml:"operating_cf"`
	InvestmentCF  float64 `yaml:"investment_cf"`
	FinancingCF   float64 `yaml:"financing_cf"`
	LoanRepayment float64 `yaml:"loan_repayment"`
}

// LoadPlan reads a cash-flow plan from a YAML file. Rows keep file
// order; a row with an unparseable month is an error here (the plan is
// caller-authored configuration, not lenient bulk data).
func LoadPlan(path string) ([]PlanRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "cashflow: read plan %s", path)
	}

	var wrapper struct {
		Plan []planFileRow `yaml:"plan"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "cashflow: parse plan")
	}

	plan := make([]PlanRow, 0, len(wrapper.Plan))
	for _, row := range wrapper.Plan {
		month, ok := schema.ParseMonth(row.Month)
		if !ok {
			return nil, eris.Errorf("cashflow: invalid plan month %q", row.Month)
		}
		plan = append(plan, PlanRow{
			Month:         month,
			OperatingCF:   row.OperatingCF,
			InvestmentCF:  row.InvestmentCF,
			FinancingCF:   row.FinancingCF,
			LoanRepayment: row.LoanRepayment,
		})
	}
	return plan, nil
}
