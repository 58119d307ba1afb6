package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kurashi-ikiiki/keisu-cli/internal/alert"
	"github.com/kurashi-ikiiki/keisu-cli/internal/cashflow"
	"github.com/kurashi-ikiiki/keisu-cli/internal/kpi"
	"github.com/kurashi-ikiiki/keisu-cli/internal/notify"
	"github.com/kurashi-ikiiki/keisu-cli/internal/period"
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
	"github.com/kurashi-ikiiki/keisu-cli/internal/simulate"
)

var alertsPush bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Evaluate alert rules, optionally pushing the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		monthly := period.MonthlySummary(ds.Enriched)

		var snapPtr *kpi.Snapshot
		if snap, ok := kpi.Calculate(ds.Enriched, ds.Snapshot.Subscription, schema.Month{}, nil); ok {
			snapPtr = &snap
		}

		plan := cashflow.DefaultPlan(ds.Enriched, cfg.Cashflow.HorizonMonths, schema.MonthOf(ds.Snapshot.CreatedAt))
		for i := range plan {
			plan[i].LoanRepayment = cfg.Cashflow.LoanRepayment
		}
		forecast := cashflow.Forecast(plan, cfg.Cashflow.OpeningCash)

		th := alert.Thresholds{
			RevenueDropPct:  cfg.Alerts.RevenueDropRate,
			ChurnRate:       cfg.Alerts.ChurnRate,
			GrossMarginRate: cfg.Alerts.MinMarginRate,
			CashBalance:     cfg.Alerts.MinCashBalance,
		}
		alerts := alert.Build(monthly, snapPtr, forecast, th)

		out := cmd.OutOrStdout()
		if len(alerts) == 0 {
			fmt.Fprintln(out, "アラートはありません。")
		}
		for _, a := range alerts {
			fmt.Fprintf(out, "⚠ %s\n", a)
		}

		if alertsPush && len(alerts) > 0 {
			svc := notify.NewService(notify.Config{
				ServerKey:    cfg.Notify.ServerKey,
				DeviceTokens: cfg.Notify.DeviceTokens,
				Topic:        cfg.Notify.Topic,
				DryRun:       cfg.Notify.DryRun,
			})
			sent := svc.SendAlerts(cmd.Context(), alerts, "経営アラート", map[string]string{
				"baseline_profit": fmt.Sprintf("%.0f", simulate.CurrentPL(ds.Enriched, ds.Snapshot.Subscription, cfg.Report.FixedCost).OperatingProfit),
			}, nil)
			zap.L().Info("alerts: push attempted", zap.Bool("sent", sent))
		}

		printFindings(out, ds.Snapshot.Validation)
		return nil
	},
}

func init() {
	addDatasetFlags(alertsCmd)
	alertsCmd.Flags().BoolVar(&alertsPush, "push", false, "send breached alerts as a push notification")
	rootCmd.AddCommand(alertsCmd)
}
