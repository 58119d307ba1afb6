// Package session assembles normalized datasets from raw sources and
// carries them through a reporting run together with the validation
// findings collected along the way.
package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kurashi-ikiiki/keisu-cli/internal/normalize"
	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
	"github.com/kurashi-ikiiki/keisu-cli/internal/validate"
)

// SalesSource is one raw sales table plus where it came from. Channel
// is a hint for tables without a channel column; Name shows up in
// validation messages. Err marks a source that failed to load; its
// table is ignored and the failure becomes an error-level finding.
type SalesSource struct {
	Name    string
	Channel string
	Table   schema.Table
	Err     error
}

// Sources are the raw tables a snapshot is assembled from.
type Sources struct {
	Sales        []SalesSource
	Costs        schema.Table
	Subscription schema.Table
}

// Snapshot is one assembled dataset: every normalized record plus the
// validation report for the run that produced it.
type Snapshot struct {
	ID           string
	CreatedAt    time.Time
	Sales        []schema.SalesRecord
	Costs        []schema.CostRecord
	Subscription []schema.SubscriptionRecord
	Validation   *validate.Report
}

// Assemble normalizes every source, concatenates the sales rows in
// date order, and runs duplicate detection once over the combined set
// so cross-file duplicates are caught too.
func Assemble(src Sources) *Snapshot {
	snap := &Snapshot{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Validation: &validate.Report{},
	}

	for _, s := range src.Sales {
		if s.Err != nil {
			snap.Validation.AddMessage(validate.LevelError,
				fmt.Sprintf("%s: 読み込みに失敗しました: %v", s.Name, s.Err))
			continue
		}
		res := normalize.Sales(s.Table, s.Channel)
		snap.Sales = append(snap.Sales, res.Records...)
		addSkips(snap.Validation, s.Name, res.Skipped)
	}
	sort.SliceStable(snap.Sales, func(i, j int) bool {
		return snap.Sales[i].OrderDate.Before(snap.Sales[j].OrderDate)
	})

	costs := normalize.Costs(src.Costs)
	snap.Costs = costs.Records
	addSkips(snap.Validation, "原価マスタ", costs.Skipped)

	subs := normalize.Subscription(src.Subscription)
	snap.Subscription = subs.Records
	addSkips(snap.Validation, "サブスクリプション", subs.Skipped)

	if dups := validate.DetectDuplicates(snap.Sales); len(dups) > 0 {
		snap.Validation.AddDuplicates(dups)
		snap.Validation.AddMessageWithContext(validate.LevelWarning,
			fmt.Sprintf("重複の可能性がある注文が%d件見つかりました", len(dups)),
			len(dups), sample(dups, 5))
	}

	zap.L().Info("session: snapshot assembled",
		zap.String("id", snap.ID),
		zap.Int("sales", len(snap.Sales)),
		zap.Int("costs", len(snap.Costs)),
		zap.Int("subscription", len(snap.Subscription)),
		zap.Int("findings", len(snap.Validation.Messages)))
	return snap
}

// addSkips folds per-row skip reasons into one warning per source.
func addSkips(report *validate.Report, source string, skips []normalize.Skip) {
	if len(skips) == 0 {
		return
	}
	report.AddMessage(validate.LevelWarning,
		fmt.Sprintf("%s: %d行をスキップしました。最初の理由: %s", source, len(skips), skips[0].Reason))
}

func sample(records []schema.SalesRecord, n int) []schema.SalesRecord {
	if len(records) <= n {
		return records
	}
	return records[:n]
}
