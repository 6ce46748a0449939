package changeset

import (
	"sort"
	"strings"

	"TaxNewsletter/internal/domain"
)

// NewRecords resolves the set of genuinely new records out of a robot's
// recent runs:
//
//   - no runs at all, nothing to report;
//   - prefer the most recent successful scheduled run, falling back to the
//     most recent successful run of any origin;
//   - a manual run never reports anything, manual runs are operator
//     inspections and must not trigger notification side effects;
//   - a scheduled run whose records carry no change tag is the baseline
//     establishing poll and by definition claims nothing as new;
//   - otherwise return exactly the records tagged NEW.
func NewRecords(runs []domain.MonitorRun) []domain.CapturedRecord {
	run := selectRun(runs)
	if run == nil || run.Origin != domain.OriginScheduled {
		return nil
	}

	tagged := false
	for _, rec := range run.Records {
		if rec.Tagged() {
			tagged = true
			break
		}
	}
	if !tagged {
		return nil
	}

	var fresh []domain.CapturedRecord
	for _, rec := range run.Records {
		if rec.ChangeTag() == domain.TagNew {
			fresh = append(fresh, rec)
		}
	}
	return fresh
}

// selectRun picks the run the change set is computed from. Among multiple
// successful candidates the most recently created one wins.
func selectRun(runs []domain.MonitorRun) *domain.MonitorRun {
	if len(runs) == 0 {
		return nil
	}

	ordered := make([]domain.MonitorRun, len(runs))
	copy(ordered, runs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	for i := range ordered {
		if ordered[i].Origin == domain.OriginScheduled && ordered[i].Successful() {
			return &ordered[i]
		}
	}
	for i := range ordered {
		if ordered[i].Successful() {
			return &ordered[i]
		}
	}
	return nil
}

// categoryFields maps each category to the captured field names holding
// its reference (or title) and publish date.
var categoryFields = map[domain.Category][2]string{
	domain.CategoryCircular:     {"Circular Number", "Publish Date"},
	domain.CategoryNotification: {"Notification Number", "Publish Date"},
	domain.CategoryPressRelease: {"Title", "Date"},
}

// Entries narrows raw captured records to typed source entries for one
// category. Records whose reference field is empty after trimming are
// dropped; capture order is preserved.
func Entries(cat domain.Category, records []domain.CapturedRecord) []domain.SourceEntry {
	fields, ok := categoryFields[cat]
	if !ok {
		return nil
	}

	var entries []domain.SourceEntry
	for _, rec := range records {
		ref := strings.TrimSpace(rec[fields[0]])
		if ref == "" {
			continue
		}
		entries = append(entries, domain.SourceEntry{
			Reference: ref,
			Date:      strings.TrimSpace(rec[fields[1]]),
		})
	}
	return entries
}
