// Package alert evaluates the monthly summary, KPI snapshot, and cash
// forecast against fixed thresholds and produces reader-facing alert
// strings.
package alert

import (
	"fmt"

	"github.com/kurashi-ikiiki/keisu-cli/internal/cashflow"
	"github.com/kurashi-ikiiki/keisu-cli/internal/kpi"
	"github.com/kurashi-ikiiki/keisu-cli/internal/period"
)

// Thresholds configures the alert rules. Zero-value callers should use
// DefaultThresholds; a zero CashBalance is a meaningful threshold.
type Thresholds struct {
	RevenueDropPct  float64 // alert when sales fall more than this fraction MoM
	ChurnRate       float64 // alert when churn exceeds this
	GrossMarginRate float64 // alert when margin falls below this
	CashBalance     float64 // alert when forecast balance falls below this
}

// DefaultThresholds returns the standard rule set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RevenueDropPct:  0.30,
		ChurnRate:       0.05,
		GrossMarginRate: 0.60,
		CashBalance:     0,
	}
}

// Build runs the checks in fixed order (revenue drop, churn, margin,
// cash shortfall) and returns one message per breached rule. A check
// whose inputs are missing is skipped silently.
func Build(monthly []period.Summary, snap *kpi.Snapshot, forecast []cashflow.ForecastRow, th Thresholds) []string {
	var alerts []string

	if len(monthly) >= 2 {
		latest := monthly[len(monthly)-1]
		prev := monthly[len(monthly)-2]
		if prev.SalesAmount != 0 && latest.SalesAmount < prev.SalesAmount*(1-th.RevenueDropPct) {
			drop := (latest.SalesAmount - prev.SalesAmount) / prev.SalesAmount
			alerts = append(alerts,
				fmt.Sprintf("売上が前月比で%.1f%%減少しています。原因分析を行ってください。", drop*100))
		}
	}

	if snap != nil && snap.ChurnRate.Valid && snap.ChurnRate.Float64 > th.ChurnRate {
		alerts = append(alerts,
			fmt.Sprintf("解約率が%.1f%%と高水準です。定期顧客のフォローを見直してください。", snap.ChurnRate.Float64*100))
	}

	if snap != nil && snap.GrossMarginRate.Valid && snap.GrossMarginRate.Float64 < th.GrossMarginRate {
		alerts = append(alerts,
			fmt.Sprintf("粗利率が%.1f%%と目標を下回っています。商品ミックスを確認しましょう。", snap.GrossMarginRate.Float64*100))
	}

	if len(forecast) > 0 {
		minBalance := forecast[0].CashBalance
		for _, row := range forecast[1:] {
			if row.CashBalance < minBalance {
				minBalance = row.CashBalance
			}
		}
		if minBalance < th.CashBalance {
			alerts = append(alerts, "将来の資金残高がマイナスに落ち込む見込みです。資金繰り対策を検討してください。")
		}
	}

	return alerts
}
