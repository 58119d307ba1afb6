package validate

import (
	"fmt"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// costRateCeiling matches the clamp applied at merge time; rows sitting
// exactly at the ceiling usually indicate bad cost data, not a real rate.
const costRateCeiling = 0.95

// maxAnomalySample bounds how many offending rows a message carries.
const maxAnomalySample = 5

// ChannelFees inspects enriched rows for fee and margin anomalies and
// returns a report of warnings: channels whose fee deduction leaves the
// period's net gross profit negative, and rows whose cost rate was
// clamped at the ceiling.
func ChannelFees(records []schema.EnrichedRecord) *Report {
	report := &Report{}
	if len(records) == 0 {
		return report
	}

	netByChannel := make(map[string]float64)
	rowsByChannel := make(map[string]int)
	var clamped []schema.EnrichedRecord

	for _, rec := range records {
		netByChannel[rec.Channel] += rec.NetGrossProfit
		rowsByChannel[rec.Channel]++
		if rec.CostRate >= costRateCeiling {
			clamped = append(clamped, rec)
		}
	}

	// Deterministic message order: follow first appearance in the input.
	seen := make(map[string]struct{}, len(netByChannel))
	for _, rec := range records {
		if _, done := seen[rec.Channel]; done {
			continue
		}
		seen[rec.Channel] = struct{}{}
		if net := netByChannel[rec.Channel]; net < 0 {
			report.AddMessageWithContext(LevelWarning,
				fmt.Sprintf("チャネル「%s」は手数料控除後の粗利がマイナスです（%.0f円）。手数料率と原価設定を確認してください。", rec.Channel, net),
				rowsByChannel[rec.Channel], nil)
		}
	}

	if len(clamped) > 0 {
		sample := make([]schema.SalesRecord, 0, maxAnomalySample)
		for _, rec := range clamped {
			if len(sample) == maxAnomalySample {
				break
			}
			sample = append(sample, rec.SalesRecord)
		}
		report.AddMessageWithContext(LevelWarning,
			fmt.Sprintf("原価率が上限(%.0f%%)で丸められた売上行が%d件あります。原価表の売価・原価を確認してください。", costRateCeiling*100, len(clamped)),
			len(clamped), sample)
	}

	return report
}
