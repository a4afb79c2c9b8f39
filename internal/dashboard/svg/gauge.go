package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Gauge renders a circular progress gauge filled to percent, clamped to
// [0, 100], with the value printed in the centre.
func Gauge(size int, percent float64, opts GaugeOpts) template.HTML {
	if size <= 0 {
		size = DefaultGaugeSize
	}
	if math.IsNaN(percent) || percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	thickness := opts.Thickness
	if thickness <= 0 {
		thickness = float64(size) / 10
	}
	track := fallback(opts.TrackColor, "#e2e8f0")
	fill := fallback(opts.FillColor, "#10b981")
	text := fallback(opts.TextColor, "#0f172a")

	center := float64(size) / 2
	radius := center - thickness/2
	circumference := 2 * math.Pi * radius
	dash := circumference * percent / 100

	titleID := makeID(opts.Title, "gauge-title")
	descID := makeID(opts.Title, "gauge-desc")

	var b strings.Builder
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", size, size, titleID, descID)
	fmt.Fprintf(&b, "<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Progress")))
	fmt.Fprintf(&b, "<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, fmt.Sprintf("%.0f%% complete", percent))))
	fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\"></circle>", center, center, radius, track, thickness)
	// Start the arc at twelve o'clock.
	fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\" stroke-linecap=\"round\" stroke-dasharray=\"%.2f %.2f\" transform=\"rotate(-90 %.2f %.2f)\"></circle>",
		center, center, radius, fill, thickness, dash, circumference, center, center)
	fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"%.0f\" font-weight=\"600\" text-anchor=\"middle\" dominant-baseline=\"middle\">%.0f%%</text>", center, center, text, float64(size)/6, percent)
	b.WriteString("</svg>")
	return template.HTML(b.String())
}
