package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kurashi-ikiiki/keisu-cli/internal/cashflow"
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Monthly cash-flow forecast",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		var plan []cashflow.PlanRow
		if cfg.Cashflow.PlanFile != "" {
			plan, err = cashflow.LoadPlan(cfg.Cashflow.PlanFile)
			if err != nil {
				return err
			}
		} else {
			plan = cashflow.DefaultPlan(ds.Enriched, cfg.Cashflow.HorizonMonths, schema.MonthOf(ds.Snapshot.CreatedAt))
			for i := range plan {
				plan[i].LoanRepayment = cfg.Cashflow.LoanRepayment
			}
		}

		rows := cashflow.Forecast(plan, cfg.Cashflow.OpeningCash)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "期首残高: %s\n\n", money(cfg.Cashflow.OpeningCash))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "月\t純CF\t残高")
		_, _ = fmt.Fprintln(w, "--\t----\t----")
		for _, row := range rows {
			_, _ = fmt.Fprintf(w, "%s\t%+.0f\t%s\n", row.Month, row.NetCF, money(row.CashBalance))
		}
		_ = w.Flush()

		printFindings(out, ds.Snapshot.Validation)
		return nil
	},
}

func init() {
	addDatasetFlags(forecastCmd)
	rootCmd.AddCommand(forecastCmd)
}
