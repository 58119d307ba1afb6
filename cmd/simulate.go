package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kurashi-ikiiki/keisu-cli/internal/simulate"
)

var (
	simSalesGrowth  float64
	simCostRateAdj  float64
	simSGAChange    float64
	simAdditionalAd float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "What-if P&L simulation against the latest month",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		base := simulate.CurrentPL(ds.Enriched, ds.Snapshot.Subscription, cfg.Report.FixedCost)
		rows := simulate.Simulate(base, simSalesGrowth, simCostRateAdj, simSGAChange, simAdditionalAd)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "前提: 売上成長 %+.1f%% / 原価率 %+.1fpt / 販管費 %+.1f%% / 追加広告費 %s\n\n",
			simSalesGrowth*100, simCostRateAdj*100, simSGAChange*100, money(simAdditionalAd))

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "項目\t現状\tシナリオ\t差分")
		_, _ = fmt.Fprintln(w, "----\t----\t--------\t----")
		for _, row := range rows {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%+.0f\n",
				row.Item, money(row.Baseline), money(row.Scenario), row.Delta)
		}
		_ = w.Flush()

		printFindings(out, ds.Snapshot.Validation)
		return nil
	},
}

func init() {
	addDatasetFlags(simulateCmd)
	simulateCmd.Flags().Float64Var(&simSalesGrowth, "sales-growth", 0, "sales growth rate, e.g. 0.10 for +10%")
	simulateCmd.Flags().Float64Var(&simCostRateAdj, "cost-rate-adj", 0, "cost ratio adjustment in points, e.g. -0.02")
	simulateCmd.Flags().Float64Var(&simSGAChange, "sga-change", 0, "SG&A change rate, e.g. 0.05 for +5%")
	simulateCmd.Flags().Float64Var(&simAdditionalAd, "additional-ad", 0, "additional monthly ad spend in yen")
	rootCmd.AddCommand(simulateCmd)
}
