package cashflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

func month(y int, m time.Month) schema.Month {
	return schema.Month{Year: y, Mon: m}
}

func TestForecastAccumulates(t *testing.T) {
	plan := []PlanRow{
		{Month: month(2024, 4), OperatingCF: 800_000, LoanRepayment: 600_000},
		{Month: month(2024, 5), OperatingCF: 800_000, InvestmentCF: 250_000, LoanRepayment: 600_000},
		{Month: month(2024, 6), OperatingCF: 100_000, FinancingCF: 500_000, LoanRepayment: 600_000},
	}
	rows := Forecast(plan, 1_000_000)
	require.Len(t, rows, 3)

	assert.Equal(t, 200_000.0, rows[0].NetCF)
	assert.Equal(t, 1_200_000.0, rows[0].CashBalance)
	assert.Equal(t, -50_000.0, rows[1].NetCF)
	assert.Equal(t, 1_150_000.0, rows[1].CashBalance)
	assert.Equal(t, 0.0, rows[2].NetCF)
	assert.Equal(t, 1_150_000.0, rows[2].CashBalance)
}

func TestForecastZeroNetCFKeepsOpeningCash(t *testing.T) {
	// Every month nets to zero; the balance must round-trip exactly.
	plan := make([]PlanRow, 6)
	m := month(2024, 1)
	for i := range plan {
		plan[i] = PlanRow{
			Month:         m,
			OperatingCF:   600_000,
			LoanRepayment: 600_000,
		}
		m = m.Next()
	}
	rows := Forecast(plan, 3_000_000)
	require.Len(t, rows, 6)
	for _, row := range rows {
		assert.Equal(t, 0.0, row.NetCF)
		assert.Equal(t, 3_000_000.0, row.CashBalance)
	}
}

func TestForecastEmptyPlan(t *testing.T) {
	assert.Nil(t, Forecast(nil, 100))
}

func TestDefaultPlanFromRecords(t *testing.T) {
	var records []schema.EnrichedRecord
	m := month(2023, 9)
	for i := 0; i < 8; i++ {
		records = append(records, schema.EnrichedRecord{
			SalesRecord: schema.SalesRecord{
				OrderDate:   m.Time(),
				SalesAmount: 1_000_000,
				OrderMonth:  m,
			},
			NetGrossProfit: 400_000,
		})
		m = m.Next()
	}

	plan := DefaultPlan(records, 6, schema.Month{})
	require.Len(t, plan, 6)

	// Starts the month after the last data month.
	assert.Equal(t, month(2024, 5), plan[0].Month)
	assert.Equal(t, month(2024, 10), plan[5].Month)
	// Operating CF is 75% of the trailing-6-month mean net gross profit.
	assert.InDelta(t, 300_000, plan[0].OperatingCF, 1e-6)
	assert.Equal(t, -250_000.0, plan[0].InvestmentCF)
	assert.Equal(t, float64(DefaultLoanRepayment), plan[0].LoanRepayment)
}

func TestDefaultPlanNoRecords(t *testing.T) {
	start := month(2024, 7)
	plan := DefaultPlan(nil, 3, start)
	require.Len(t, plan, 3)
	assert.Equal(t, start, plan[0].Month)
	assert.Equal(t, 0.0, plan[0].OperatingCF)
	assert.Equal(t, 0.0, plan[0].InvestmentCF)
}

func TestDefaultPlanZeroHorizon(t *testing.T) {
	assert.Nil(t, DefaultPlan(nil, 0, schema.Month{}))
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	content := `plan:
  - month: 2024-04
    operating_cf: 800000
    investment_cf: 250000
    financing_cf: 0
    loan_repayment: 600000
  - month: 2024-05
    operating_cf: 900000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, month(2024, 4), plan[0].Month)
	assert.Equal(t, 800_000.0, plan[0].OperatingCF)
	assert.Equal(t, 250_000.0, plan[0].InvestmentCF)
	assert.Equal(t, 600_000.0, plan[0].LoanRepayment)
	assert.Equal(t, month(2024, 5), plan[1].Month)
}

func TestLoadPlanBadMonth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plan:\n  - month: いつか\n"), 0o644))
	_, err := LoadPlan(path)
	assert.Error(t, err)
}
