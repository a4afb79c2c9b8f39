package reporting

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
)

// Report endpoints served by the reporting API.
const (
	EndpointCampaignLevel         = "/get_report/campaign_level_table"
	EndpointAsinLevel             = "/get_report/asin_level_table"
	EndpointKeywordReport         = "/get_report/keyword_report"
	EndpointKeywordRecommendation = "/keyword/recommendation/"
	EndpointBrandLevel            = "/get_report/brand_level_table"
	EndpointUniqueBrands          = "/get_unique/brand_level_table"
	EndpointFilteredBrands        = "/get_filtered_brands"
	EndpointCampaignData          = "/get_report/campaign_data"
)

// DateLayout is the wire format of date range bounds.
const DateLayout = "2006-01-02"

// StaticEndpoints lists the endpoints that take no parameters.
var StaticEndpoints = []string{
	EndpointCampaignLevel,
	EndpointAsinLevel,
	EndpointKeywordReport,
	EndpointBrandLevel,
	EndpointUniqueBrands,
	EndpointCampaignData,
}

// ErrMissingIdentifier is returned when a path parameter is blank.
var ErrMissingIdentifier = errors.New("reporting: identifier required")

// DateRange bounds the filtered brand report. The zero value means no range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no range was selected.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Query encodes the range as start_date and end_date parameters.
func (r DateRange) Query() url.Values {
	if r.IsZero() {
		return nil
	}
	return url.Values{
		"start_date": []string{r.Start.Format(DateLayout)},
		"end_date":   []string{r.End.Format(DateLayout)},
	}
}

func (r DateRange) String() string {
	if r.IsZero() {
		return ""
	}
	return r.Start.Format(DateLayout) + " to " + r.End.Format(DateLayout)
}

// Reports exposes one typed operation per endpoint over a Source.
type Reports struct {
	source Source
}

// NewReports wraps a Source.
func NewReports(source Source) *Reports {
	return &Reports{source: source}
}

// CampaignRows fetches the campaign level table.
func (r *Reports) CampaignRows(ctx context.Context) ([]CampaignRow, error) {
	return fetchRows[CampaignRow](ctx, r.source, EndpointCampaignLevel, nil)
}

// AsinRows fetches the ASIN level table.
func (r *Reports) AsinRows(ctx context.Context) ([]AsinRow, error) {
	return fetchRows[AsinRow](ctx, r.source, EndpointAsinLevel, nil)
}

// KeywordReport fetches keyword performance rows of every source.
func (r *Reports) KeywordReport(ctx context.Context) ([]KeywordPerformanceRow, error) {
	return fetchRows[KeywordPerformanceRow](ctx, r.source, EndpointKeywordReport, nil)
}

// KeywordRecommendations fetches suggestions for one ad group. The identifiers
// are sent exactly as given, path-escaped.
func (r *Reports) KeywordRecommendations(ctx context.Context, campaignID, adGroupID string) ([]KeywordRecommendationRow, error) {
	if strings.TrimSpace(campaignID) == "" || strings.TrimSpace(adGroupID) == "" {
		return nil, ErrMissingIdentifier
	}
	return fetchRows[KeywordRecommendationRow](ctx, r.source, RecommendationPath(campaignID, adGroupID), nil)
}

// BrandRows fetches the full brand level table.
func (r *Reports) BrandRows(ctx context.Context) ([]BrandTargetRow, error) {
	return fetchRows[BrandTargetRow](ctx, r.source, EndpointBrandLevel, nil)
}

// UniqueBrandRows fetches the brand table deduplicated by brand.
func (r *Reports) UniqueBrandRows(ctx context.Context) ([]BrandTargetRow, error) {
	return fetchRows[BrandTargetRow](ctx, r.source, EndpointUniqueBrands, nil)
}

// FilteredBrandRows fetches brand rows inside the range. An empty result means
// the range holds no data.
func (r *Reports) FilteredBrandRows(ctx context.Context, rng DateRange) ([]BrandTargetRow, error) {
	return fetchRows[BrandTargetRow](ctx, r.source, EndpointFilteredBrands, rng.Query())
}

// CampaignSeries fetches the daily sales and spend series.
func (r *Reports) CampaignSeries(ctx context.Context) ([]CampaignSeriesPoint, error) {
	return fetchRows[CampaignSeriesPoint](ctx, r.source, EndpointCampaignData, nil)
}

// RecommendationPath builds the recommendation endpoint for an ad group.
func RecommendationPath(campaignID, adGroupID string) string {
	return EndpointKeywordRecommendation + url.PathEscape(campaignID) + "/" + url.PathEscape(adGroupID)
}

func fetchRows[T any](ctx context.Context, source Source, path string, query url.Values) ([]T, error) {
	raw, err := source.FetchArray(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return decodeArray[T](path, raw)
}
