package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/adlens/adlens/internal/dashboard"
	"github.com/adlens/adlens/internal/reporting"
)

// HTMLRenderer converts an HTML document into a PDF.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// BrandReport is the content of the brand target PDF.
type BrandReport struct {
	GeneratedAt string
	View        dashboard.BrandsView
}

// PDFExporter renders dashboard reports through Gotenberg.
type PDFExporter struct {
	Renderer HTMLRenderer
}

// RenderBrands produces the brand target report.
func (p *PDFExporter) RenderBrands(ctx context.Context, report BrandReport) ([]byte, error) {
	if p == nil || p.Renderer == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	pdf, err := p.Renderer.RenderHTML(ctx, buildBrandHTML(report))
	if err != nil {
		return nil, fmt.Errorf("render brand report: %w", err)
	}
	return pdf, nil
}

func buildBrandHTML(report BrandReport) string {
	view := report.View
	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;color:#0f172a;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{background:#f5f5f5;}.label{text-align:left;}.muted{color:#64748b;}")
	b.WriteString("</style></head><body>")
	b.WriteString("<h1>Brand Targets</h1>")
	fmt.Fprintf(&b, "<p class=\"muted\">Generated %s", templateEscape(report.GeneratedAt))
	if !view.Range.IsZero() {
		fmt.Fprintf(&b, " &middot; %s", templateEscape(view.Range.String()))
	}
	b.WriteString("</p>")

	b.WriteString("<section><h2>Summary</h2><table><tbody>")
	writeMetricRow(&b, "Total Target", fmt.Sprintf("%.2f", view.Totals.Target))
	writeMetricRow(&b, "Total Achieved", fmt.Sprintf("%.2f", view.Totals.Achieved))
	writeMetricRow(&b, "Achieved", view.Percent+"%")
	b.WriteString("</tbody></table></section>")

	writeTableSection(&b, view.Top.Title, view.Top.Page, view.Top.Table)
	writeTableSection(&b, view.View.Title, view.Page, view.Table)

	b.WriteString("</body></html>")
	return b.String()
}

func writeTableSection(b *strings.Builder, title string, page dashboard.Page, table dashboard.Table) {
	fmt.Fprintf(b, "<section><h2>%s</h2>", templateEscape(title))
	if !page.Ready() {
		fmt.Fprintf(b, "<p class=\"muted\">%s</p></section>", templateEscape(page.Message))
		return
	}
	b.WriteString("<table><thead><tr>")
	for _, h := range table.Headers {
		class := ""
		if !h.Numeric {
			class = " class=\"label\""
		}
		fmt.Fprintf(b, "<th%s>%s</th>", class, templateEscape(h.Label))
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range table.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			class := ""
			if !cell.Numeric {
				class = " class=\"label\""
			}
			fmt.Fprintf(b, "<td%s>%s</td>", class, templateEscape(cell.Text))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></section>")
}

func writeMetricRow(b *strings.Builder, label, value string) {
	b.WriteString("<tr><td class=\"label\">")
	b.WriteString(templateEscape(label))
	b.WriteString("</td><td>")
	b.WriteString(templateEscape(value))
	b.WriteString("</td></tr>")
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&#39;",
)

func templateEscape(v string) string {
	return htmlEscaper.Replace(v)
}

// Filename builds the download name for a brand export.
func Filename(prefix string, rng reporting.DateRange, ext string) string {
	if rng.IsZero() {
		return prefix + "." + ext
	}
	return fmt.Sprintf("%s_%s_%s.%s", prefix, rng.Start.Format(reporting.DateLayout), rng.End.Format(reporting.DateLayout), ext)
}
