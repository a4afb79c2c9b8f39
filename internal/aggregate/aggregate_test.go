package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adlens/adlens/internal/reporting"
)

func asin(sn, adGroup, campaign string) reporting.AsinRow {
	return reporting.AsinRow{
		SN:         reporting.NewText(sn),
		AdGroupID:  reporting.NewText(adGroup),
		CampaignID: reporting.NewText(campaign),
	}
}

func TestFilterByAdGroupIgnoresCaseAndWhitespace(t *testing.T) {
	rows := []reporting.AsinRow{
		asin("1", " AG1 ", "C1"),
		asin("2", "ag2", "C1"),
		asin("3", "Ag1", "C2"),
		{SN: reporting.NewText("4")},
	}

	got := FilterByAdGroup(rows, "ag1")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].SN.Value)
	assert.Equal(t, "3", got[1].SN.Value)

	assert.Empty(t, FilterByAdGroup(rows, "AG9"))
	assert.Empty(t, FilterByAdGroup([]reporting.AsinRow(nil), "ag1"))
}

func TestFilterByCampaignNormalises(t *testing.T) {
	rows := []reporting.CampaignRow{
		{CampaignID: reporting.NewText("C1"), AdGroupID: reporting.NewText("A")},
		{CampaignID: reporting.NewText(" c1"), AdGroupID: reporting.NewText("B")},
		{CampaignID: reporting.NewText("C2"), AdGroupID: reporting.NewText("C")},
	}
	got := FilterByCampaign(rows, "C1 ")
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].AdGroupID.Value)
	assert.Equal(t, "B", got[1].AdGroupID.Value)
}

func TestFilterBySourceIsExact(t *testing.T) {
	rows := []reporting.KeywordPerformanceRow{
		{ID: reporting.NewText("1"), Source: reporting.NewText("spKeyword")},
		{ID: reporting.NewText("2"), Source: reporting.NewText("spkeyword")},
		{ID: reporting.NewText("3"), Source: reporting.NewText(" spKeyword")},
		{ID: reporting.NewText("4")},
		{ID: reporting.NewText("5"), Source: reporting.NewText("spKeyword")},
	}
	got := FilterBySource(rows, SourceSponsoredKeyword)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID.Value)
	assert.Equal(t, "5", got[1].ID.Value)
}

func brand(name string, sales float64) reporting.BrandTargetRow {
	return reporting.BrandTargetRow{Brand: reporting.NewText(name), DailySales: reporting.NewNumber(sales)}
}

func TestTopNIsStableAmongTies(t *testing.T) {
	rows := []reporting.BrandTargetRow{
		brand("a", 10),
		brand("b", 30),
		brand("c", 10),
		brand("d", 30),
		brand("e", 5),
		brand("f", 10),
		{Brand: reporting.NewText("g")},
	}

	got := TopN(rows, 5, ByDailySales)
	names := make([]string, 0, len(got))
	for _, row := range got {
		names = append(names, row.Brand.Value)
	}
	assert.Equal(t, []string{"b", "d", "a", "c", "f"}, names)
	assert.Equal(t, "a", rows[0].Brand.Value, "input must not be reordered")
}

func TestTopNBounds(t *testing.T) {
	rows := []reporting.BrandTargetRow{brand("a", 1), brand("b", 2)}
	assert.Empty(t, TopN(rows, 0, ByDailySales))
	assert.Empty(t, TopN(rows, -1, ByDailySales))
	assert.Len(t, TopN(rows, 10, ByDailySales), 2)
	assert.Empty(t, TopN([]reporting.BrandTargetRow{}, 5, ByDailySales))
}

func TestPercentAchievedNeverProducesNaN(t *testing.T) {
	cases := []struct {
		name     string
		target   float64
		achieved float64
		want     string
	}{
		{"half", 200, 100, "50.00"},
		{"rounding", 3, 1, "33.33"},
		{"over target", 100, 150, "150.00"},
		{"zero target", 0, 100, "0.00"},
		{"zero both", 0, 0, "0.00"},
		{"negative target", -10, 5, "0.00"},
		{"negative achieved zero target", 0, -5, "0.00"},
		{"nan target", math.NaN(), 1, "0.00"},
		{"inf target", math.Inf(1), 1, "0.00"},
		{"inf achieved", 10, math.Inf(1), "0.00"},
		{"nan achieved", 10, math.NaN(), "0.00"},
		{"tiny negative rounds to zero", 100, -0.001, "0.00"},
		{"negative achieved", 100, -5, "-5.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PercentAchieved(tc.target, tc.achieved))
		})
	}
}

func TestBrandTotalsDefaultsMissingToZero(t *testing.T) {
	rows := []reporting.BrandTargetRow{
		{Target: reporting.NewNumber(100), TargetAchieved: reporting.NewNumber(40)},
		{Target: reporting.NewNumber(50)},
		{TargetAchieved: reporting.ParseNumber("n/a")},
		{},
	}
	totals := BrandTotals(rows)
	assert.Equal(t, 150.0, totals.Target)
	assert.Equal(t, 40.0, totals.Achieved)
	assert.Equal(t, "26.67", totals.Percent())
	assert.Equal(t, 27, totals.Gauge())

	empty := BrandTotals(nil)
	assert.Equal(t, "0.00", empty.Percent())
	assert.Equal(t, 0, empty.Gauge())
}

func TestGaugePercentClamps(t *testing.T) {
	assert.Equal(t, 100, GaugePercent(10, 50))
	assert.Equal(t, 0, GaugePercent(10, -5))
	assert.Equal(t, 0, GaugePercent(0, 5))
}

func TestRowPercentPrefersPrecomputed(t *testing.T) {
	row := reporting.BrandTargetRow{
		Target:             reporting.NewNumber(100),
		TargetAchieved:     reporting.NewNumber(10),
		PercentageAchieved: reporting.NewText("12.346"),
	}
	assert.Equal(t, "12.35", RowPercent(row))

	row.PercentageAchieved = reporting.NewText("oops")
	assert.Equal(t, "10.00", RowPercent(row))

	row.PercentageAchieved = reporting.Text{}
	row.Target = reporting.Number{}
	assert.Equal(t, "0.00", RowPercent(row))
}

func TestGroupByCampaignRollsUp(t *testing.T) {
	rows := []reporting.CampaignRow{
		{CampaignID: reporting.NewText("C1"), CampaignName: reporting.NewText("One"), Cost: reporting.NewNumber(10), Sales1d: reporting.NewNumber(40), Clicks: reporting.NewNumber(3), ROAS: reporting.NewText("4")},
		{CampaignID: reporting.NewText("C2"), CampaignName: reporting.NewText("Two"), Cost: reporting.NewNumber(5)},
		{CampaignID: reporting.NewText("c1"), Cost: reporting.NewNumber(2.5), Sales1d: reporting.NewNumber(5), ROAS: reporting.NewText("2")},
		{CampaignID: reporting.NewText("C1"), ROAS: reporting.NewText("-")},
	}
	groups := GroupByCampaign(rows)
	require.Len(t, groups, 2)

	first := groups[0]
	assert.Equal(t, "C1", first.CampaignID)
	assert.Equal(t, "One", first.CampaignName)
	assert.Len(t, first.Rows, 3)
	assert.InDelta(t, 12.5, first.Spend, 1e-9)
	assert.InDelta(t, 45, first.Revenue, 1e-9)
	assert.InDelta(t, 3, first.Clicks, 1e-9)
	assert.True(t, first.HasROAS)
	assert.InDelta(t, 3, first.AverageROAS, 1e-9)

	assert.Equal(t, "C2", groups[1].CampaignID)
	assert.False(t, groups[1].HasROAS)
}

func TestSortRecommendationsFollowsConfiguredOrder(t *testing.T) {
	rows := []reporting.KeywordRecommendationRow{
		{Keyword: reporting.NewText("a"), Rank: reporting.NewNumber(3)},
		{Keyword: reporting.NewText("b")},
		{Keyword: reporting.NewText("c"), Rank: reporting.NewNumber(1)},
		{Keyword: reporting.NewText("d"), Rank: reporting.NewNumber(3)},
	}
	keywords := func(rows []reporting.KeywordRecommendationRow) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Keyword.Value)
		}
		return out
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, keywords(SortRecommendations(rows, RankOrderAPI)))
	assert.Equal(t, []string{"c", "a", "d", "b"}, keywords(SortRecommendations(rows, RankOrderAscending)))
	assert.Equal(t, []string{"a", "d", "c", "b"}, keywords(SortRecommendations(rows, RankOrderDescending)))

	_, err := ParseRankOrder("sideways")
	assert.Error(t, err)
	order, err := ParseRankOrder(" DESC ")
	require.NoError(t, err)
	assert.Equal(t, RankOrderDescending, order)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "N/A", SearchTermLabel(reporting.NewText("None")))
	assert.Equal(t, "N/A", SearchTermLabel(reporting.Text{}))
	assert.Equal(t, "running shoes", SearchTermLabel(reporting.NewText("running shoes")))

	assert.Equal(t, "12.50%", ImpressionShareLabel(reporting.NewText("12.5")))
	assert.Equal(t, "7.00%", ImpressionShareLabel(reporting.NewText("7%")))
	assert.Equal(t, "N/A", ImpressionShareLabel(reporting.NewText("< 5%")))
	assert.Equal(t, "N/A", ImpressionShareLabel(reporting.Text{}))
}
