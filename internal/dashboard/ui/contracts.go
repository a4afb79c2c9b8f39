package ui

import (
	"html/template"

	"github.com/adlens/adlens/internal/aggregate"
	"github.com/adlens/adlens/internal/dashboard/svg"
	"github.com/adlens/adlens/internal/reporting"
)

// LineRenderer abstracts SVG line chart rendering for the dashboard.
type LineRenderer interface {
	Lines(width, height int, series []svg.Series, labels []string, opts svg.LineOpts) (template.HTML, error)
}

// BarRenderer abstracts SVG bar chart rendering for the dashboard.
type BarRenderer interface {
	Bars(width, height int, series []svg.Series, labels []string, opts svg.BarOpts) (template.HTML, error)
}

// GaugeRenderer abstracts the progress gauge.
type GaugeRenderer interface {
	Gauge(size int, percent float64, opts svg.GaugeOpts) template.HTML
}

// SalesSpend converts the campaign series into the overview chart input.
func SalesSpend(points []reporting.CampaignSeriesPoint) ([]svg.Series, []string) {
	labels := make([]string, 0, len(points))
	sales := svg.Series{Label: "Daily Sales", Color: "#2563eb", Values: make([]float64, 0, len(points))}
	spend := svg.Series{Label: "Spend", Color: "#f97316", Values: make([]float64, 0, len(points))}
	for _, p := range points {
		labels = append(labels, p.Date.Display())
		sales.Values = append(sales.Values, p.DailySales.Float())
		spend.Values = append(spend.Values, p.Spend.Float())
	}
	return []svg.Series{sales, spend}, labels
}

// TopBrands converts the leaderboard rows into bar chart input.
func TopBrands(rows []reporting.BrandTargetRow) ([]svg.Series, []string) {
	labels := make([]string, 0, len(rows))
	sales := svg.Series{Label: "Daily Sales", Color: "#2563eb", Values: make([]float64, 0, len(rows))}
	achieved := svg.Series{Label: "Target Achieved", Color: "#10b981", Values: make([]float64, 0, len(rows))}
	for _, row := range rows {
		labels = append(labels, row.Brand.Display())
		sales.Values = append(sales.Values, aggregate.ByDailySales(row))
		achieved.Values = append(achieved.Values, aggregate.ByTargetAchieved(row))
	}
	return []svg.Series{sales, achieved}, labels
}
