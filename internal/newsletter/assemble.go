package newsletter

import (
	"time"

	"TaxNewsletter/internal/domain"
)

// Section groups the items of one category for rendering.
type Section struct {
	Category domain.Category
	Title    string
	Items    []domain.ProcessedItem
}

// PressRelease reports whether the section renders title and date only,
// without summary or document link.
func (s Section) PressRelease() bool {
	return s.Category == domain.CategoryPressRelease
}

// sectionTitles in the fixed rendering order.
var sectionTitles = map[domain.Category]string{
	domain.CategoryCircular:     "New Circulars",
	domain.CategoryNotification: "New Notifications",
	domain.CategoryPressRelease: "New Press Releases",
}

// Assemble partitions processed items into a draft. Item order within a
// category is the order items were appended during processing.
func Assemble(items []domain.ProcessedItem, generatedAt time.Time) domain.NewsletterDraft {
	return domain.NewsletterDraft{
		Items:       items,
		GeneratedAt: generatedAt,
		Status:      domain.StatusCompleted,
	}
}

// Sections returns the draft's non-empty sections in fixed category
// order; a category with zero items produces no section at all.
func Sections(draft domain.NewsletterDraft) []Section {
	var sections []Section
	for _, cat := range domain.Categories() {
		items := draft.ByCategory(cat)
		if len(items) == 0 {
			continue
		}
		sections = append(sections, Section{
			Category: cat,
			Title:    sectionTitles[cat],
			Items:    items,
		})
	}
	return sections
}
