package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adlens/adlens/internal/reporting"
)

func TestSalesSpendTreatsAbsentAsZero(t *testing.T) {
	series, labels := SalesSpend([]reporting.CampaignSeriesPoint{
		{Date: reporting.NewText("2024-03-01"), DailySales: reporting.NewNumber(10)},
		{Date: reporting.NewText("2024-03-02"), Spend: reporting.NewNumber(4)},
	})
	assert.Equal(t, []string{"2024-03-01", "2024-03-02"}, labels)
	assert.Equal(t, []float64{10, 0}, series[0].Values)
	assert.Equal(t, []float64{0, 4}, series[1].Values)
}

func TestTopBrandsLabels(t *testing.T) {
	series, labels := TopBrands([]reporting.BrandTargetRow{{DailySales: reporting.NewNumber(3)}})
	assert.Equal(t, []string{"-"}, labels)
	assert.Equal(t, []float64{3}, series[0].Values)
}
