package newsletter

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"TaxNewsletter/internal/domain"
)

func sampleItems() []domain.ProcessedItem {
	return []domain.ProcessedItem{
		{
			Category:  domain.CategoryCircular,
			Reference: "Circular No. 12/2026",
			Date:      "19 Aug 2026",
			Summary:   "The due date for filing moves to 30 September 2026.",
			PDFURL:    "https://incometaxindia.gov.in/communications/circular/circular-12-2026.pdf",
		},
		{
			Category:  domain.CategoryCircular,
			Reference: "Circular No. 13/2026",
			Date:      "20 Aug 2026",
			Summary:   "TDS rates for contractors are revised.",
			PDFURL:    "https://incometaxindia.gov.in/communications/circular/circular-13-2026.pdf",
		},
		{
			Category:  domain.CategoryPressRelease,
			Reference: "CBDT signs 125 advance pricing agreements",
			Date:      "20 Aug 2026",
			Summary:   "CBDT signs 125 advance pricing agreements",
		},
	}
}

func fixedDraft() domain.NewsletterDraft {
	generatedAt := time.Date(2026, time.August, 20, 9, 30, 0, 0, time.UTC)
	return Assemble(sampleItems(), generatedAt)
}

func TestRenderHTMLDeterministic(t *testing.T) {
	t.Parallel()

	draft := fixedDraft()

	first, err := RenderHTML(draft)
	if err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}
	second, err := RenderHTML(draft)
	if err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}
	if first != second {
		t.Fatal("rendering the same draft twice produced different output")
	}
}

func TestRenderHTMLSections(t *testing.T) {
	t.Parallel()

	html, err := RenderHTML(fixedDraft())
	if err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse rendered html: %v", err)
	}

	sections := doc.Find(".section")
	if sections.Length() != 2 {
		t.Fatalf("expected 2 sections, got %d", sections.Length())
	}

	// Empty notification category must not render a section.
	if doc.Find(`.section[data-category="notification"]`).Length() != 0 {
		t.Fatal("empty category rendered a section")
	}

	// Circular items keep input order.
	var refs []string
	doc.Find(`.section[data-category="circular"] .item-number`).Each(func(i int, sel *goquery.Selection) {
		refs = append(refs, strings.TrimSpace(sel.Text()))
	})
	if len(refs) != 2 || refs[0] != "Circular No. 12/2026" || refs[1] != "Circular No. 13/2026" {
		t.Fatalf("unexpected circular order: %v", refs)
	}

	// Press releases render without summary or PDF link.
	pr := doc.Find(`.section[data-category="press-release"]`)
	if pr.Find(".item-summary").Length() != 0 {
		t.Fatal("press release rendered a summary")
	}
	if pr.Find(".pdf-link").Length() != 0 {
		t.Fatal("press release rendered a pdf link")
	}

	// Circulars always carry summary and link.
	circ := doc.Find(`.section[data-category="circular"]`)
	if circ.Find(".item-summary").Length() != 2 {
		t.Fatal("circular summaries missing")
	}
	if circ.Find(".pdf-link").Length() != 2 {
		t.Fatal("circular pdf links missing")
	}
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	t.Parallel()

	draft := Assemble([]domain.ProcessedItem{{
		Category:  domain.CategoryCircular,
		Reference: "Circular No. 1/2026",
		Date:      "1 Aug 2026",
		Summary:   `<script>alert("x")</script>`,
		PDFURL:    "https://incometaxindia.gov.in/communications/circular/circular-1-2026.pdf",
	}}, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))

	html, err := RenderHTML(draft)
	if err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Fatal("summary content was not escaped")
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	text := RenderText(fixedDraft())

	if !strings.Contains(text, "INCOME TAX INDIA - DAILY NEWSLETTER") {
		t.Fatal("missing header")
	}
	if !strings.Contains(text, "NEW CIRCULARS (2)") {
		t.Fatalf("missing circulars section:\n%s", text)
	}
	if strings.Contains(text, "NEW NOTIFICATIONS") {
		t.Fatal("empty category rendered a section")
	}
	if !strings.Contains(text, "1. Circular No. 12/2026") {
		t.Fatal("missing first circular")
	}

	// Press-release block renders title and date only.
	if !strings.Contains(text, "1. CBDT signs 125 advance pricing agreements") {
		t.Fatal("missing press release")
	}
	idx := strings.Index(text, "NEW PRESS RELEASES")
	if idx < 0 {
		t.Fatal("missing press releases section")
	}
	if strings.Contains(text[idx:], "Summary:") {
		t.Fatal("press release rendered a summary line")
	}
}

func TestAssemblePartitionsByCategory(t *testing.T) {
	t.Parallel()

	draft := fixedDraft()

	if got := len(draft.ByCategory(domain.CategoryCircular)); got != 2 {
		t.Fatalf("expected 2 circulars, got %d", got)
	}
	if got := len(draft.ByCategory(domain.CategoryNotification)); got != 0 {
		t.Fatalf("expected 0 notifications, got %d", got)
	}
	if draft.Empty() {
		t.Fatal("draft with items reported empty")
	}
}
