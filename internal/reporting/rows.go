package reporting

import "encoding/json"

// CampaignRow is one ad group line of the campaign level report.
type CampaignRow struct {
	SN               Text   `json:"SN"`
	CampaignID       Text   `json:"campaignId"`
	CampaignName     Text   `json:"campaignName"`
	AdGroupID        Text   `json:"adGroupId"`
	AdGroupName      Text   `json:"adGroupName"`
	Cost             Number `json:"cost"`
	CostPerClick     Number `json:"costPerClick"`
	ClickThroughRate Text   `json:"clickThroughRate"`
	Clicks           Number `json:"clicks"`
	Sales1d          Number `json:"sales1d"`
	ACoS             Text   `json:"ACoS"`
	ROAS             Text   `json:"ROAS"`
	CampaignType     Text   `json:"campaign_type"`
	Impressions      Number `json:"impression"`
}

// AsinRow is one advertised product line of the ASIN level report.
type AsinRow struct {
	SN               Text   `json:"SN"`
	AdvertisedAsin   Text   `json:"advertisedAsin"`
	AdvertisedSku    Text   `json:"advertisedSku"`
	CampaignStatus   Text   `json:"campaignStatus"`
	Impressions      Number `json:"impressions"`
	Clicks           Number `json:"clicks"`
	ClickThroughRate Text   `json:"clickThroughRate"`
	Cost             Number `json:"cost"`
	Sales1d          Number `json:"sales1d"`
	Purchases1d      Number `json:"purchases1d"`
	ACoS             Text   `json:"ACoS"`
	ROAS             Text   `json:"ROAS"`
	AdGroupID        Text   `json:"adGroupId"`
	CampaignID       Text   `json:"campaignId"`
}

// KeywordRecommendationRow is a suggested keyword for an ad group. Rank is
// passed through as the backend sends it; its direction is not defined.
type KeywordRecommendationRow struct {
	Keyword    Text       `json:"keyword"`
	MatchTypes StringList `json:"matchTypes"`
	Bids       NumberList `json:"bids"`
	Rank       Number     `json:"rank"`
	Theme      Text       `json:"theme"`
}

// UnmarshalJSON accepts both the plural and singular spellings of the match
// type and bid fields.
func (r *KeywordRecommendationRow) UnmarshalJSON(data []byte) error {
	type plain KeywordRecommendationRow
	var wire struct {
		plain
		MatchType StringList `json:"matchType"`
		Bid       NumberList `json:"bid"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = KeywordRecommendationRow(wire.plain)
	if len(r.MatchTypes) == 0 {
		r.MatchTypes = wire.MatchType
	}
	if len(r.Bids) == 0 {
		r.Bids = wire.Bid
	}
	return nil
}

// KeywordPerformanceRow is one line of the keyword report.
type KeywordPerformanceRow struct {
	ID                         Text   `json:"id"`
	Keyword                    Text   `json:"keyword"`
	MatchType                  Text   `json:"matchType"`
	SearchTerm                 Text   `json:"searchTerm"`
	Cost                       Number `json:"cost"`
	Clicks                     Number `json:"clicks"`
	Impressions                Number `json:"impressions"`
	Sales30d                   Number `json:"sales30d"`
	Purchases30d               Number `json:"purchases30d"`
	TopOfSearchImpressionShare Text   `json:"topOfSearchImpressionShare"`
	Source                     Text   `json:"Source"`
	AdGroupID                  Text   `json:"adGroupId"`
}

// BrandTargetRow tracks a brand's sales against its target.
type BrandTargetRow struct {
	Brand              Text   `json:"Brand"`
	DateTime           Text   `json:"DateTime"`
	DailySales         Number `json:"DailySales"`
	Target             Number `json:"Target"`
	TargetAchieved     Number `json:"TargetAchieved"`
	PercentageAchieved Text   `json:"PercentageAchieved"`
}

// CampaignSeriesPoint is one day of the sales and spend chart.
type CampaignSeriesPoint struct {
	Date       Text   `json:"Date"`
	DailySales Number `json:"DailySales"`
	Spend      Number `json:"Spend"`
}

// AdGroupKey returns the owning ad group id.
func (r CampaignRow) AdGroupKey() string { return r.AdGroupID.Value }

// CampaignKey returns the owning campaign id.
func (r CampaignRow) CampaignKey() string { return r.CampaignID.Value }

func (r AsinRow) AdGroupKey() string  { return r.AdGroupID.Value }
func (r AsinRow) CampaignKey() string { return r.CampaignID.Value }

func (r KeywordPerformanceRow) AdGroupKey() string { return r.AdGroupID.Value }
