package domain

import "time"

// Category tags the kind of publication an item was captured from.
type Category string

const (
	CategoryCircular     Category = "circular"
	CategoryNotification Category = "notification"
	CategoryPressRelease Category = "press-release"
)

// Categories lists all categories in their fixed processing order.
func Categories() []Category {
	return []Category{CategoryCircular, CategoryNotification, CategoryPressRelease}
}

// ProcessedItem is the unit produced for one newly detected document.
// For press releases Reference holds the title and PDFURL stays empty.
type ProcessedItem struct {
	Category  Category
	Reference string
	Date      string
	Summary   string
	PDFURL    string
}

// RunStatus enumerates newsletter run lifecycle states.
type RunStatus string

const (
	StatusNotGenerated RunStatus = "not_generated"
	StatusProcessing   RunStatus = "processing"
	StatusCompleted    RunStatus = "completed"
	StatusError        RunStatus = "error"
)

// SinkOutcome records the result of one distribution sink invocation.
type SinkOutcome struct {
	Sink  string
	Sent  bool
	Error string
}

// NewsletterDraft aggregates all processed items for one pipeline run.
type NewsletterDraft struct {
	Items       []ProcessedItem
	GeneratedAt time.Time
	Status      RunStatus
	Outcomes    []SinkOutcome
	Warnings    []string
}

// ByCategory returns the draft items carrying the given tag, in append order.
func (d NewsletterDraft) ByCategory(cat Category) []ProcessedItem {
	var out []ProcessedItem
	for _, item := range d.Items {
		if item.Category == cat {
			out = append(out, item)
		}
	}
	return out
}

// Empty reports whether the run found nothing new.
func (d NewsletterDraft) Empty() bool {
	return len(d.Items) == 0
}
