package aggregate

import (
	"math"
	"strconv"

	"github.com/adlens/adlens/internal/reporting"
)

const zeroPercent = "0.00"

// PercentAchieved renders achieved as a percentage of target with two
// decimals. A non-positive target, or any non-finite input, yields "0.00".
func PercentAchieved(target, achieved float64) string {
	if !(target > 0) || math.IsInf(target, 0) || math.IsNaN(achieved) || math.IsInf(achieved, 0) {
		return zeroPercent
	}
	pct := achieved / target * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return zeroPercent
	}
	out := strconv.FormatFloat(pct, 'f', 2, 64)
	if out == "-"+zeroPercent {
		return zeroPercent
	}
	return out
}

// GaugePercent is the whole-number percentage drawn on the progress gauge,
// clamped to [0, 100].
func GaugePercent(target, achieved float64) int {
	if !(target > 0) || math.IsInf(target, 0) || math.IsNaN(achieved) || math.IsInf(achieved, 0) {
		return 0
	}
	pct := math.Round(achieved / target * 100)
	switch {
	case math.IsNaN(pct) || pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return int(pct)
	}
}

// Totals sums brand targets across a collection.
type Totals struct {
	Target   float64
	Achieved float64
}

// Percent renders Achieved as a share of Target.
func (t Totals) Percent() string {
	return PercentAchieved(t.Target, t.Achieved)
}

// Gauge is the clamped whole percentage for the gauge.
func (t Totals) Gauge() int {
	return GaugePercent(t.Target, t.Achieved)
}

// BrandTotals sums Target and TargetAchieved over rows, counting absent values
// as zero.
func BrandTotals(rows []reporting.BrandTargetRow) Totals {
	var totals Totals
	for _, row := range rows {
		totals.Target += row.Target.Float()
		totals.Achieved += row.TargetAchieved.Float()
	}
	return totals
}

// RowPercent returns the percentage shown for one brand row, preferring the
// backend's precomputed value when present.
func RowPercent(row reporting.BrandTargetRow) string {
	if row.PercentageAchieved.Valid {
		if n := reporting.ParseNumber(row.PercentageAchieved.Value); n.Valid {
			return n.Fixed(2)
		}
	}
	return PercentAchieved(row.Target.Float(), row.TargetAchieved.Float())
}
