package validate

import "github.com/kurashi-ikiiki/keisu-cli/internal/schema"

// DetectDuplicates returns every sales row whose duplicate identity
// (channel, product, date, customer, amount) occurs more than once in
// the combined input, in input order. All members of a duplicate group
// are returned, matching how a double-uploaded file shows up: the whole
// group is suspect, not just the second copy.
func DetectDuplicates(records []schema.SalesRecord) []schema.SalesRecord {
	if len(records) < 2 {
		return nil
	}

	counts := make(map[string]int, len(records))
	for _, rec := range records {
		counts[duplicateKey(rec)]++
	}

	var dups []schema.SalesRecord
	for _, rec := range records {
		if counts[duplicateKey(rec)] > 1 {
			dups = append(dups, rec)
		}
	}
	return dups
}
