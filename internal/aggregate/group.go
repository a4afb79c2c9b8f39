package aggregate

import "github.com/adlens/adlens/internal/reporting"

// CampaignGroup collects the ad group rows of one campaign with roll-up
// figures for the accordion header.
type CampaignGroup struct {
	CampaignID   string
	CampaignName string
	CampaignType string
	Rows         []reporting.CampaignRow
	Spend        float64
	Revenue      float64
	Clicks       float64
	// AverageROAS averages rows whose ROAS parses as a number; HasROAS is
	// false when none did.
	AverageROAS float64
	HasROAS     bool
}

// GroupByCampaign groups rows by normalised campaign id in first-seen order.
func GroupByCampaign(rows []reporting.CampaignRow) []CampaignGroup {
	index := make(map[string]int)
	groups := make([]CampaignGroup, 0)
	roasSum := make([]float64, 0)
	roasCount := make([]int, 0)
	for _, row := range rows {
		key := NormalizeID(row.CampaignID.Value)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, CampaignGroup{
				CampaignID:   row.CampaignID.Value,
				CampaignName: row.CampaignName.Value,
				CampaignType: row.CampaignType.Value,
			})
			roasSum = append(roasSum, 0)
			roasCount = append(roasCount, 0)
		}
		g := &groups[i]
		g.Rows = append(g.Rows, row)
		g.Spend += row.Cost.Float()
		g.Revenue += row.Sales1d.Float()
		g.Clicks += row.Clicks.Float()
		if roas := reporting.ParseNumber(row.ROAS.Value); row.ROAS.Valid && roas.Valid {
			roasSum[i] += roas.Value
			roasCount[i]++
		}
	}
	for i := range groups {
		if roasCount[i] > 0 {
			groups[i].AverageROAS = roasSum[i] / float64(roasCount[i])
			groups[i].HasROAS = true
		}
	}
	return groups
}

// SeriesTotals sums the chart series for the overview headline.
type SeriesTotals struct {
	Sales float64
	Spend float64
}

// SumSeries totals daily sales and spend.
func SumSeries(points []reporting.CampaignSeriesPoint) SeriesTotals {
	var totals SeriesTotals
	for _, p := range points {
		totals.Sales += p.DailySales.Float()
		totals.Spend += p.Spend.Float()
	}
	return totals
}
