package dashboard

import (
	"fmt"

	"github.com/adlens/adlens/internal/aggregate"
	"github.com/adlens/adlens/internal/reporting"
)

// Cell is one rendered table value.
type Cell struct {
	Text    string
	Href    string
	Numeric bool
}

// Table is a rendered grid ready for the table partial.
type Table struct {
	Headers []Header
	Rows    [][]Cell
}

// Header is a column heading.
type Header struct {
	Label   string
	Numeric bool
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

type column[T any] struct {
	label   string
	numeric bool
	cell    func(T) string
	href    func(T) string
}

func text[T any](label string, get func(T) reporting.Text) column[T] {
	return column[T]{label: label, cell: func(r T) string { return get(r).Display() }}
}

func number[T any](label string, get func(T) reporting.Number) column[T] {
	return column[T]{label: label, numeric: true, cell: func(r T) string { return get(r).Display() }}
}

func fixed[T any](label string, get func(T) reporting.Number) column[T] {
	return column[T]{label: label, numeric: true, cell: func(r T) string { return get(r).Fixed(2) }}
}

var campaignColumns = map[string]column[reporting.CampaignRow]{
	"SN":               text("SN", func(r reporting.CampaignRow) reporting.Text { return r.SN }),
	"campaignId":       text("Campaign ID", func(r reporting.CampaignRow) reporting.Text { return r.CampaignID }),
	"campaignName":     text("Campaign", func(r reporting.CampaignRow) reporting.Text { return r.CampaignName }),
	"adGroupId":        text("Ad Group ID", func(r reporting.CampaignRow) reporting.Text { return r.AdGroupID }),
	"cost":             fixed("Cost", func(r reporting.CampaignRow) reporting.Number { return r.Cost }),
	"costPerClick":     fixed("CPC", func(r reporting.CampaignRow) reporting.Number { return r.CostPerClick }),
	"clickThroughRate": text("CTR", func(r reporting.CampaignRow) reporting.Text { return r.ClickThroughRate }),
	"clicks":           number("Clicks", func(r reporting.CampaignRow) reporting.Number { return r.Clicks }),
	"sales1d":          fixed("Sales (1d)", func(r reporting.CampaignRow) reporting.Number { return r.Sales1d }),
	"ACoS":             text("ACoS", func(r reporting.CampaignRow) reporting.Text { return r.ACoS }),
	"ROAS":             text("ROAS", func(r reporting.CampaignRow) reporting.Text { return r.ROAS }),
	"campaign_type":    text("Type", func(r reporting.CampaignRow) reporting.Text { return r.CampaignType }),
	"impression":       number("Impressions", func(r reporting.CampaignRow) reporting.Number { return r.Impressions }),

	"adGroupName": {label: "Ad Group", cell: func(r reporting.CampaignRow) string { return r.AdGroupName.Display() }, href: adGroupHref},
}

var asinColumns = map[string]column[reporting.AsinRow]{
	"SN":               text("SN", func(r reporting.AsinRow) reporting.Text { return r.SN }),
	"advertisedAsin":   text("ASIN", func(r reporting.AsinRow) reporting.Text { return r.AdvertisedAsin }),
	"advertisedSku":    text("SKU", func(r reporting.AsinRow) reporting.Text { return r.AdvertisedSku }),
	"campaignStatus":   text("Status", func(r reporting.AsinRow) reporting.Text { return r.CampaignStatus }),
	"impressions":      number("Impressions", func(r reporting.AsinRow) reporting.Number { return r.Impressions }),
	"clicks":           number("Clicks", func(r reporting.AsinRow) reporting.Number { return r.Clicks }),
	"clickThroughRate": text("CTR", func(r reporting.AsinRow) reporting.Text { return r.ClickThroughRate }),
	"cost":             fixed("Cost", func(r reporting.AsinRow) reporting.Number { return r.Cost }),
	"sales1d":          fixed("Sales (1d)", func(r reporting.AsinRow) reporting.Number { return r.Sales1d }),
	"purchases1d":      number("Purchases (1d)", func(r reporting.AsinRow) reporting.Number { return r.Purchases1d }),
	"ACoS":             text("ACoS", func(r reporting.AsinRow) reporting.Text { return r.ACoS }),
	"ROAS":             text("ROAS", func(r reporting.AsinRow) reporting.Text { return r.ROAS }),
	"adGroupId":        text("Ad Group ID", func(r reporting.AsinRow) reporting.Text { return r.AdGroupID }),
	"campaignId":       text("Campaign ID", func(r reporting.AsinRow) reporting.Text { return r.CampaignID }),
}

var keywordColumns = map[string]column[reporting.KeywordPerformanceRow]{
	"id":         text("ID", func(r reporting.KeywordPerformanceRow) reporting.Text { return r.ID }),
	"keyword":    text("Keyword", func(r reporting.KeywordPerformanceRow) reporting.Text { return r.Keyword }),
	"matchType":  text("Match Type", func(r reporting.KeywordPerformanceRow) reporting.Text { return r.MatchType }),
	"searchTerm": {label: "Search Term", cell: func(r reporting.KeywordPerformanceRow) string { return aggregate.SearchTermLabel(r.SearchTerm) }},
	"cost":       fixed("Cost", func(r reporting.KeywordPerformanceRow) reporting.Number { return r.Cost }),
	"clicks":     number("Clicks", func(r reporting.KeywordPerformanceRow) reporting.Number { return r.Clicks }),
	"impressions": number("Impressions", func(r reporting.KeywordPerformanceRow) reporting.Number {
		return r.Impressions
	}),
	"sales30d":     fixed("Sales (30d)", func(r reporting.KeywordPerformanceRow) reporting.Number { return r.Sales30d }),
	"purchases30d": number("Purchases (30d)", func(r reporting.KeywordPerformanceRow) reporting.Number { return r.Purchases30d }),
	"topOfSearchImpressionShare": {label: "Top of Search IS", numeric: true, cell: func(r reporting.KeywordPerformanceRow) string {
		return aggregate.ImpressionShareLabel(r.TopOfSearchImpressionShare)
	}},
	"Source":    text("Source", func(r reporting.KeywordPerformanceRow) reporting.Text { return r.Source }),
	"adGroupId": text("Ad Group ID", func(r reporting.KeywordPerformanceRow) reporting.Text { return r.AdGroupID }),
}

var recommendationColumns = map[string]column[reporting.KeywordRecommendationRow]{
	"keyword":    text("Keyword", func(r reporting.KeywordRecommendationRow) reporting.Text { return r.Keyword }),
	"matchTypes": {label: "Match Types", cell: func(r reporting.KeywordRecommendationRow) string { return r.MatchTypes.Join() }},
	"bids":       {label: "Bids", numeric: true, cell: func(r reporting.KeywordRecommendationRow) string { return r.Bids.Join() }},
	"rank":       number("Rank", func(r reporting.KeywordRecommendationRow) reporting.Number { return r.Rank }),
	"theme":      text("Theme", func(r reporting.KeywordRecommendationRow) reporting.Text { return r.Theme }),
}

var brandColumns = map[string]column[reporting.BrandTargetRow]{
	"Brand":          text("Brand", func(r reporting.BrandTargetRow) reporting.Text { return r.Brand }),
	"DateTime":       text("Date", func(r reporting.BrandTargetRow) reporting.Text { return r.DateTime }),
	"DailySales":     fixed("Daily Sales", func(r reporting.BrandTargetRow) reporting.Number { return r.DailySales }),
	"Target":         fixed("Target", func(r reporting.BrandTargetRow) reporting.Number { return r.Target }),
	"TargetAchieved": fixed("Target Achieved", func(r reporting.BrandTargetRow) reporting.Number { return r.TargetAchieved }),
	"PercentageAchieved": {label: "% Achieved", numeric: true, cell: func(r reporting.BrandTargetRow) string {
		return aggregate.RowPercent(r) + "%"
	}},
}

func adGroupHref(r reporting.CampaignRow) string {
	links, err := AdGroupLinks(r.CampaignID.Value, r.AdGroupID.Value)
	if err != nil {
		return ""
	}
	return links.Detail
}

func tabulate[T any](registry map[string]column[T], keys []string, rows []T) Table {
	cols := make([]column[T], 0, len(keys))
	for _, key := range keys {
		if col, ok := registry[key]; ok {
			cols = append(cols, col)
		}
	}
	table := Table{Headers: make([]Header, 0, len(cols)), Rows: make([][]Cell, 0, len(rows))}
	for _, col := range cols {
		table.Headers = append(table.Headers, Header{Label: col.label, Numeric: col.numeric})
	}
	for _, row := range rows {
		cells := make([]Cell, 0, len(cols))
		for _, col := range cols {
			cell := Cell{Text: col.cell(row), Numeric: col.numeric}
			if col.href != nil {
				cell.Href = col.href(row)
			}
			cells = append(cells, cell)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func knownColumns[T any](registry map[string]column[T], keys []string) error {
	for _, key := range keys {
		if _, ok := registry[key]; !ok {
			return fmt.Errorf("unknown column %q", key)
		}
	}
	return nil
}
