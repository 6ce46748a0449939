package newsletter

import (
	"fmt"
	"html/template"
	"strings"

	"TaxNewsletter/internal/domain"
)

const generatedAtLayout = "January 2, 2006 at 3:04 PM MST"

var htmlTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #2c3e50; background: #f4f7fa; }
.container { max-width: 700px; margin: 0 auto; background: white; }
.header { background: #1e3c72; color: white; padding: 30px; text-align: center; }
.header h1 { font-size: 26px; margin: 0; }
.header p { margin: 10px 0 0 0; opacity: 0.9; }
.badge { background: rgba(255,255,255,0.2); padding: 6px 14px; border-radius: 20px; display: inline-block; margin-top: 12px; font-size: 14px; }
.content { padding: 30px; }
.section { margin-bottom: 35px; }
.section h2 { font-size: 20px; padding: 12px 16px; background: #f8f9fa; border-left: 5px solid #2a5298; }
.item { border: 1px solid #e1e8ed; border-radius: 8px; padding: 18px; margin-bottom: 14px; }
.item-number { font-size: 16px; font-weight: 600; color: #2a5298; margin-bottom: 6px; }
.item-date { color: #7f8c8d; font-size: 13px; margin-bottom: 10px; }
.item-summary { color: #34495e; font-size: 14px; margin-bottom: 12px; }
.pdf-link { display: inline-block; background: #2a5298; color: white; padding: 8px 16px; text-decoration: none; border-radius: 4px; font-size: 13px; }
.footer { background: #2c3e50; color: #ecf0f1; padding: 22px; text-align: center; font-size: 13px; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>Income Tax India - Daily Tax Newsletter</h1>
<p>Generated on {{.GeneratedAt}}</p>
<div class="badge">{{.Total}} New Update{{if ne .Total 1}}s{{end}} Available</div>
</div>
<div class="content">
{{range .Sections}}{{$pr := .PressRelease}}<div class="section" data-category="{{.Category}}">
<h2>{{.Title}} ({{len .Items}})</h2>
{{range .Items}}<div class="item">
<div class="item-number">{{.Reference}}</div>
<div class="item-date">Date: {{.Date}}</div>
{{if not $pr}}<div class="item-summary">{{.Summary}}</div>
<a href="{{.PDFURL}}" class="pdf-link" target="_blank">View PDF</a>
{{end}}</div>
{{end}}</div>
{{end}}</div>
<div class="footer">
<p><strong>Automated Tax Monitoring System</strong></p>
<p>End of Newsletter</p>
</div>
</div>
</body>
</html>
`))

// RenderHTML produces the HTML projection of a draft. Pure: the same
// items and generation timestamp render byte-identically.
func RenderHTML(draft domain.NewsletterDraft) (string, error) {
	data := struct {
		GeneratedAt string
		Total       int
		Sections    []Section
	}{
		GeneratedAt: draft.GeneratedAt.Format(generatedAtLayout),
		Total:       len(draft.Items),
		Sections:    Sections(draft),
	}

	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render newsletter html: %w", err)
	}
	return sb.String(), nil
}

// RenderText produces the plain-text projection, retained as the email
// alternative body alongside the HTML document.
func RenderText(draft domain.NewsletterDraft) string {
	rule := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)

	var sb strings.Builder
	sb.WriteString(rule + "\n")
	sb.WriteString("INCOME TAX INDIA - DAILY NEWSLETTER\n")
	sb.WriteString("Generated: " + draft.GeneratedAt.Format(generatedAtLayout) + "\n")
	sb.WriteString(rule + "\n\n")

	for _, section := range Sections(draft) {
		sb.WriteString(fmt.Sprintf("%s (%d)\n", strings.ToUpper(section.Title), len(section.Items)))
		sb.WriteString(thin + "\n")
		for i, item := range section.Items {
			sb.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, item.Reference))
			sb.WriteString("   Date: " + item.Date + "\n")
			if section.Category != domain.CategoryPressRelease {
				sb.WriteString("   Summary: " + item.Summary + "\n")
				sb.WriteString("   PDF: " + item.PDFURL + "\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(rule + "\n")
	sb.WriteString("End of Newsletter\n")
	sb.WriteString(rule + "\n")
	return sb.String()
}
