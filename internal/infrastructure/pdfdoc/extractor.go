package pdfdoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"TaxNewsletter/internal/ports"
)

// Extractor pulls plain text from PDF byte streams, page by page.
type Extractor struct {
	conf *model.Configuration
}

var _ ports.TextExtractor = (*Extractor)(nil)

// NewExtractor builds an extractor with relaxed PDF validation; the
// source publishes documents from several generators of varying quality.
func NewExtractor() *Extractor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Extractor{conf: conf}
}

// ExtractText concatenates per-page text in page order separated by
// newlines and trims surrounding whitespace. The stream is validated
// first so malformed downloads fail before any page is touched.
func (e *Extractor) ExtractText(data []byte) (string, error) {
	if _, err := api.PageCount(bytes.NewReader(data), e.conf); err != nil {
		return "", fmt.Errorf("validate pdf: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}
