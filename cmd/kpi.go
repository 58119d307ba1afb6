package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kurashi-ikiiki/keisu-cli/internal/kpi"
	"github.com/kurashi-ikiiki/keisu-cli/internal/period"
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

var (
	kpiMonth       string
	kpiOverrides   []string
	kpiGranularity string
	kpiBreakdown   string
)

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "KPI snapshot for a month, with optional history and breakdowns",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		month := schema.Month{}
		if kpiMonth != "" {
			var ok bool
			month, ok = schema.ParseMonth(kpiMonth)
			if !ok {
				return eris.Errorf("parse --month %q", kpiMonth)
			}
		}

		overrides, err := parseOverrides(kpiOverrides)
		if err != nil {
			return err
		}

		snap, ok := kpi.Calculate(ds.Enriched, ds.Snapshot.Subscription, month, overrides)
		if !ok {
			return eris.New("no sales data to compute KPIs from")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s のKPI\n", snap.Month)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "売上\t%s\n", money(snap.Sales))
		_, _ = fmt.Fprintf(w, "粗利(手数料後)\t%s\n", money(snap.GrossProfit))
		_, _ = fmt.Fprintf(w, "粗利率\t%s\n", ratio(snap.GrossMarginRate))
		_, _ = fmt.Fprintf(w, "ARPU\t%s\n", snap.ARPU)
		_, _ = fmt.Fprintf(w, "LTV\t%s\n", snap.LTV)
		_, _ = fmt.Fprintf(w, "CAC\t%s\n", snap.CAC)
		_, _ = fmt.Fprintf(w, "ROAS\t%s\n", snap.ROAS)
		_, _ = fmt.Fprintf(w, "広告費率\t%s\n", ratio(snap.AdvRatio))
		_, _ = fmt.Fprintf(w, "解約率\t%s\n", ratio(snap.ChurnRate))
		_, _ = fmt.Fprintf(w, "リピート率\t%s\n", ratio(snap.RepeatRate))
		_ = w.Flush()

		if kpiGranularity != "" {
			if err := printKPIHistory(cmd, ds, overrides); err != nil {
				return err
			}
		}
		if kpiBreakdown != "" {
			if err := printBreakdown(cmd, ds, snap); err != nil {
				return err
			}
		}

		printFindings(out, ds.Snapshot.Validation)
		return nil
	},
}

func printKPIHistory(cmd *cobra.Command, ds *dataset, overrides kpi.Overrides) error {
	g, ok := period.ParseGranularity(kpiGranularity)
	if !ok {
		return eris.Errorf("unknown granularity %q (month, week, quarter, year)", kpiGranularity)
	}

	history := kpi.BuildHistory(ds.Enriched, ds.Snapshot.Subscription, overrides)
	rows := kpi.AggregateHistory(history, g)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nKPI推移:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "期間\t売上\t粗利率\tARPU\t解約率\tリピート率\tLTV")
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Label,
			money(row.Sales),
			ratio(row.GrossMarginRate),
			row.ARPU,
			ratio(row.ChurnRate),
			ratio(row.RepeatRate),
			row.LTV,
		)
	}
	_ = w.Flush()
	return nil
}

func printBreakdown(cmd *cobra.Command, ds *dataset, snap kpi.Snapshot) error {
	var dim kpi.Dimension
	switch kpiBreakdown {
	case "channel":
		dim = kpi.ByChannel
	case "category":
		dim = kpi.ByCategory
	default:
		return eris.Errorf("unknown breakdown %q (channel or category)", kpiBreakdown)
	}

	rows := kpi.Breakdown(ds.Enriched, dim, snap)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nKPI内訳:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "区分\t売上\t構成比\t粗利率\t広告費(按分)\t解約(按分)")
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Key,
			money(row.SalesAmount),
			ratio(row.SalesShare),
			ratio(row.GrossMarginRate),
			row.MarketingCost,
			row.CancelledEst,
		)
	}
	_ = w.Flush()
	return nil
}

// parseOverrides turns key=value pairs into manual KPI inputs.
func parseOverrides(pairs []string) (kpi.Overrides, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(kpi.Overrides, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, eris.Errorf("override %q is not key=value", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "override %q", pair)
		}
		overrides[key] = v
	}
	return overrides, nil
}

func init() {
	addDatasetFlags(kpiCmd)
	kpiCmd.Flags().StringVar(&kpiMonth, "month", "", "target month (YYYY-MM); default latest")
	kpiCmd.Flags().StringArrayVar(&kpiOverrides, "set", nil, "manual KPI input, key=value (repeatable)")
	kpiCmd.Flags().StringVar(&kpiGranularity, "granularity", "", "also print the KPI history at this granularity")
	kpiCmd.Flags().StringVar(&kpiBreakdown, "breakdown", "", "also print a channel or category breakdown")
	rootCmd.AddCommand(kpiCmd)
}
