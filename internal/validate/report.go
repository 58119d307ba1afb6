// Package validate accumulates data-quality findings from the lenient
// ingestion path: duplicate sales rows across merged sources, fee and
// margin anomalies, and skipped-row notices. Findings are recorded,
// never raised, so downstream aggregation always receives well-typed input.
package validate

import (
	"strconv"
	"strings"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// Level classifies a validation message.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Message is one validation finding. Count and Sample are optional
// context: how many rows were affected and a few offenders for display.
type Message struct {
	Level  Level
	Text   string
	Count  int
	Sample []schema.SalesRecord
}

// Report is an ordered accumulation of validation findings plus the
// deduplicated set of duplicate sales rows. Reports from independent
// sources merge via Extend.
type Report struct {
	Messages   []Message
	Duplicates []schema.SalesRecord

	dupKeys map[string]struct{}
}

// AddMessage appends a finding.
func (r *Report) AddMessage(level Level, text string) {
	r.Messages = append(r.Messages, Message{Level: level, Text: text})
}

// AddMessageWithContext appends a finding with an affected-row count and
// an optional sample of offending rows.
func (r *Report) AddMessageWithContext(level Level, text string, count int, sample []schema.SalesRecord) {
	r.Messages = append(r.Messages, Message{Level: level, Text: text, Count: count, Sample: sample})
}

// AddDuplicates records duplicate rows, deduplicating against rows
// already recorded. Rows are keyed by (identity tuple, occurrence index
// within the batch), so every member of a duplicate group is kept while
// re-adding the same set stays a no-op and never double-counts.
func (r *Report) AddDuplicates(rows []schema.SalesRecord) {
	if r.dupKeys == nil {
		r.dupKeys = make(map[string]struct{})
	}
	occurrence := make(map[string]int, len(rows))
	for _, rec := range rows {
		id := duplicateKey(rec)
		key := id + "#" + strconv.Itoa(occurrence[id])
		occurrence[id]++
		if _, seen := r.dupKeys[key]; seen {
			continue
		}
		r.dupKeys[key] = struct{}{}
		r.Duplicates = append(r.Duplicates, rec)
	}
}

// Extend merges another report into r: messages concatenate in order,
// duplicate rows union.
func (r *Report) Extend(other *Report) {
	if other == nil {
		return
	}
	r.Messages = append(r.Messages, other.Messages...)
	r.AddDuplicates(other.Duplicates)
}

// HasErrors reports whether any error-level message was recorded.
func (r *Report) HasErrors() bool {
	for _, m := range r.Messages {
		if m.Level == LevelError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any warning-level message was recorded.
func (r *Report) HasWarnings() bool {
	for _, m := range r.Messages {
		if m.Level == LevelWarning {
			return true
		}
	}
	return false
}

// duplicateKey is the identity under which sales rows are considered
// duplicates: same channel, product, date, customer, and amount.
func duplicateKey(rec schema.SalesRecord) string {
	return strings.Join([]string{
		rec.Channel,
		rec.ProductCode,
		rec.OrderDate.Format("2006-01-02"),
		rec.CustomerID,
		strconv.FormatFloat(rec.SalesAmount, 'f', -1, 64),
	}, "|")
}
