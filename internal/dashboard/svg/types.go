package svg

// Series is one named sequence of values drawn on a chart.
type Series struct {
	Label  string
	Color  string
	Values []float64
}

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	// FillColor shades the area under the first series. Empty disables it.
	FillColor string
	Padding   float64
	ShowDots  bool
	TickCount int
	// MaxLabels thins the x axis labels on long series. Zero shows all.
	MaxLabels int
}

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

// GaugeOpts customises the progress gauge.
type GaugeOpts struct {
	Title       string
	Description string
	TrackColor  string
	FillColor   string
	TextColor   string
	Thickness   float64
}

// Defaults for the dashboard charts.
const (
	DefaultWidth     = 720
	DefaultHeight    = 240
	DefaultPadding   = 32.0
	DefaultTicks     = 5
	DefaultGaugeSize = 180
)

var palette = []string{"#2563eb", "#f97316", "#10b981", "#a855f7", "#ef4444"}

func seriesColor(s Series, i int) string {
	return fallback(s.Color, palette[i%len(palette)])
}
