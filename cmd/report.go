package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kurashi-ikiiki/keisu-cli/internal/enrich"
	"github.com/kurashi-ikiiki/keisu-cli/internal/period"
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

var (
	reportGranularity string
	reportCSV         bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Period sales and profit summary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		g, ok := period.ParseGranularity(reportGranularity)
		if !ok {
			return eris.Errorf("unknown granularity %q (month, week, quarter, year)", reportGranularity)
		}

		summaries := period.Summarize(ds.Enriched, g)
		out := cmd.OutOrStdout()

		if reportCSV {
			return writeSummaryCSV(out, summaries)
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "期間\t売上\t粗利\t手数料後粗利\t粗利率\t前期比\t前年比")
		_, _ = fmt.Fprintln(w, "----\t----\t----\t----------\t------\t------\t------")
		for _, s := range summaries {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Label,
				money(s.SalesAmount),
				money(s.GrossProfit),
				money(s.NetGrossProfit),
				ratio(s.GrossMarginRate),
				pct(s.SalesMoM),
				pct(s.SalesYoY),
			)
		}
		_ = w.Flush()

		printShares(cmd, "チャネル別売上構成", enrich.ChannelShare(ds.Enriched))
		printShares(cmd, "カテゴリ別売上構成", enrich.CategoryShare(ds.Enriched))
		printFindings(out, ds.Snapshot.Validation)
		return nil
	},
}

// writeSummaryCSV emits the period summary as CSV. Absent ratios become
// empty cells so spreadsheet imports do not read them as zero.
func writeSummaryCSV(out io.Writer, summaries []period.Summary) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"period", "sales_amount", "gross_profit", "net_gross_profit", "gross_margin_rate", "sales_mom", "sales_yoy"}); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, s := range summaries {
		row := []string{
			s.Label,
			strconv.FormatFloat(s.SalesAmount, 'f', -1, 64),
			strconv.FormatFloat(s.GrossProfit, 'f', -1, 64),
			strconv.FormatFloat(s.NetGrossProfit, 'f', -1, 64),
			csvCell(s.GrossMarginRate),
			csvCell(s.SalesMoM),
			csvCell(s.SalesYoY),
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "report: flush csv")
}

func csvCell(n schema.NullFloat) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

func printShares(cmd *cobra.Command, title string, shares []enrich.Share) {
	if len(shares) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s:\n", title)

	var total float64
	for _, s := range shares {
		total += s.SalesAmount
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, s := range shares {
		share := 0.0
		if total != 0 {
			share = s.SalesAmount / total
		}
		_, _ = fmt.Fprintf(w, "  %s\t%s\t%.1f%%\n", s.Key, money(s.SalesAmount), share*100)
	}
	_ = w.Flush()
}

func init() {
	addDatasetFlags(reportCmd)
	reportCmd.Flags().StringVar(&reportGranularity, "granularity", "month", "month, week, quarter, or year")
	reportCmd.Flags().BoolVar(&reportCSV, "csv", false, "emit the period summary as CSV instead of a table")
	rootCmd.AddCommand(reportCmd)
}
