package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kurashi-ikiiki/keisu-cli/internal/enrich"
	"github.com/kurashi-ikiiki/keisu-cli/internal/ingest"
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
	"github.com/kurashi-ikiiki/keisu-cli/internal/session"
	"github.com/kurashi-ikiiki/keisu-cli/internal/validate"
)

// Shared dataset flags. Every reporting command loads the same way:
// sales files (or a remote endpoint, or the built-in sample), an
// optional cost master, and an optional subscription feed.
var (
	flagSales        []string
	flagCosts        string
	flagSubscription string
	flagSample       bool
	flagSeed         int64
	flagChannels     []string
	flagCategories   []string
	flagFrom         string
	flagTo           string
)

func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&flagSales, "sales", nil, "sales file, optionally channel=path (repeatable)")
	cmd.Flags().StringVar(&flagCosts, "costs", "", "cost master file")
	cmd.Flags().StringVar(&flagSubscription, "subscription", "", "monthly subscription/KPI feed file")
	cmd.Flags().BoolVar(&flagSample, "sample", false, "use the built-in demo dataset")
	cmd.Flags().Int64Var(&flagSeed, "seed", 42, "demo dataset seed")
	cmd.Flags().StringSliceVar(&flagChannels, "channel", nil, "restrict to these channels")
	cmd.Flags().StringSliceVar(&flagCategories, "category", nil, "restrict to these categories")
	cmd.Flags().StringVar(&flagFrom, "from", "", "earliest order date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagTo, "to", "", "latest order date, inclusive (YYYY-MM-DD)")
}

// dataset is what a reporting command works on: the assembled snapshot
// plus the filtered, cost-enriched sales rows.
type dataset struct {
	Snapshot *session.Snapshot
	Enriched []schema.EnrichedRecord
}

func loadDataset(ctx context.Context) (*dataset, error) {
	src, err := collectSources(ctx)
	if err != nil {
		return nil, err
	}

	snap := session.Assemble(src)

	fees := enrich.DefaultFeeTable()
	if cfg.Fees.TableFile != "" {
		fees, err = enrich.LoadFeeTable(cfg.Fees.TableFile)
		if err != nil {
			return nil, err
		}
	}

	enriched := enrich.Merge(snap.Sales, snap.Costs, fees)
	snap.Validation.Extend(validate.ChannelFees(enriched))

	opts, err := filterOptions()
	if err != nil {
		return nil, err
	}
	enriched = session.Filter(enriched, opts)

	return &dataset{Snapshot: snap, Enriched: enriched}, nil
}

func collectSources(ctx context.Context) (session.Sources, error) {
	if flagSample {
		return session.SampleData(flagSeed, schema.Month{}), nil
	}

	var src session.Sources

	var paths, channels []string
	for _, arg := range flagSales {
		channel := ""
		path := arg
		if ch, p, ok := strings.Cut(arg, "="); ok && !strings.Contains(ch, "/") {
			channel, path = ch, p
		}
		paths = append(paths, path)
		channels = append(channels, channel)
	}

	for i, ft := range ingest.LoadFiles(ctx, paths) {
		channel := channels[i]
		if channel == "" {
			channel = ft.Channel
		}
		src.Sales = append(src.Sales, session.SalesSource{
			Name:    ft.Path,
			Channel: channel,
			Table:   ft.Table,
			Err:     ft.Err,
		})
	}

	if cfg.Endpoint.URL != "" {
		client := ingest.NewClient(
			ingest.WithToken(cfg.Endpoint.Token),
			ingest.WithTimeout(time.Duration(cfg.Endpoint.TimeoutSecs)*time.Second),
			ingest.WithRateLimit(cfg.Endpoint.RateLimit, 1),
		)
		// A dead endpoint degrades to a validation finding; the file
		// sources still report.
		table, err := client.FetchSales(ctx, cfg.Endpoint.URL)
		src.Sales = append(src.Sales, session.SalesSource{
			Name:  cfg.Endpoint.URL,
			Table: table,
			Err:   err,
		})
	}

	if len(src.Sales) == 0 {
		return session.Sources{}, eris.New("no sales input: pass --sales, --sample, or configure an endpoint")
	}

	if flagCosts != "" {
		table, err := ingest.LoadFile(flagCosts)
		if err != nil {
			return session.Sources{}, err
		}
		src.Costs = table
	}
	if flagSubscription != "" {
		table, err := ingest.LoadFile(flagSubscription)
		if err != nil {
			return session.Sources{}, err
		}
		src.Subscription = table
	}

	return src, nil
}

func filterOptions() (session.FilterOptions, error) {
	opts := session.FilterOptions{
		Channels:   flagChannels,
		Categories: flagCategories,
	}
	var err error
	if flagFrom != "" {
		opts.From, err = time.Parse("2006-01-02", flagFrom)
		if err != nil {
			return opts, eris.Wrapf(err, "parse --from %q", flagFrom)
		}
	}
	if flagTo != "" {
		opts.To, err = time.Parse("2006-01-02", flagTo)
		if err != nil {
			return opts, eris.Wrapf(err, "parse --to %q", flagTo)
		}
	}
	return opts, nil
}

// printFindings writes the validation report after the main output so
// data quality issues are never silently swallowed.
func printFindings(out io.Writer, report *validate.Report) {
	if report == nil || len(report.Messages) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "データ品質チェック:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, msg := range report.Messages {
		_, _ = fmt.Fprintf(w, "  [%s]\t%s\n", msg.Level, msg.Text)
	}
	_ = w.Flush()
}

func money(v float64) string {
	return fmt.Sprintf("¥%.0f", v)
}

func pct(v schema.NullFloat) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", v.Float64*100)
}

func ratio(v schema.NullFloat) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", v.Float64*100)
}
