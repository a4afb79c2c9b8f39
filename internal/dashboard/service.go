package dashboard

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/adlens/adlens/internal/aggregate"
	"github.com/adlens/adlens/internal/reporting"
)

// DefaultTopN is the number of brands on the leaderboard.
const DefaultTopN = 5

// ReportSource provides the typed reports a page is built from.
type ReportSource interface {
	CampaignRows(ctx context.Context) ([]reporting.CampaignRow, error)
	AsinRows(ctx context.Context) ([]reporting.AsinRow, error)
	KeywordReport(ctx context.Context) ([]reporting.KeywordPerformanceRow, error)
	KeywordRecommendations(ctx context.Context, campaignID, adGroupID string) ([]reporting.KeywordRecommendationRow, error)
	BrandRows(ctx context.Context) ([]reporting.BrandTargetRow, error)
	UniqueBrandRows(ctx context.Context) ([]reporting.BrandTargetRow, error)
	FilteredBrandRows(ctx context.Context, rng reporting.DateRange) ([]reporting.BrandTargetRow, error)
	CampaignSeries(ctx context.Context) ([]reporting.CampaignSeriesPoint, error)
}

// PageObserver is told when a view starts loading and how it settled.
type PageObserver interface {
	PageBegin(view string)
	PageEnd(view, state string)
}

// Options tune the Service.
type Options struct {
	TopN      int
	RankOrder aggregate.RankOrder
	Views     *ViewConfig
	Observer  PageObserver
}

// Service loads each dashboard view from the reporting API.
type Service struct {
	reports   ReportSource
	views     *ViewConfig
	topN      int
	rankOrder aggregate.RankOrder
	observer  PageObserver
}

// NewService constructs a Service.
func NewService(reports ReportSource, opts Options) *Service {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Views == nil {
		opts.Views = DefaultViewConfig()
	}
	if opts.RankOrder == "" {
		opts.RankOrder = aggregate.RankOrderAPI
	}
	return &Service{
		reports:   reports,
		views:     opts.Views,
		topN:      opts.TopN,
		rankOrder: opts.RankOrder,
		observer:  opts.Observer,
	}
}

// Views exposes the configuration in use.
func (s *Service) Views() *ViewConfig { return s.views }

// Section is a widget that settles independently of its page.
type Section struct {
	Page
	Title string
	Table Table
}

// OverviewView is the landing page.
type OverviewView struct {
	Page
	View   View
	Table  Table
	Chart  Page
	Series []reporting.CampaignSeriesPoint
	Totals aggregate.SeriesTotals
}

// Overview loads the campaign table and, when it has rows, the sales and
// spend series.
func (s *Service) Overview(ctx context.Context) OverviewView {
	v := OverviewView{View: s.views.View(ViewOverview)}
	defer s.track(ViewOverview, &v.Page)()

	rows, err := s.reports.CampaignRows(ctx)
	if err != nil {
		_ = v.Fail(fmt.Errorf("load campaign rows: %w", err))
		return v
	}
	v.Table = tabulate(campaignColumns, v.View.Columns, rows)
	_ = v.Resolve(len(rows) == 0, "No campaign data available")
	if len(rows) == 0 {
		return v
	}

	v.Chart.Begin()
	series, err := s.reports.CampaignSeries(ctx)
	if err != nil {
		_ = v.Chart.Fail(fmt.Errorf("load campaign series: %w", err))
		return v
	}
	v.Series = series
	v.Totals = aggregate.SumSeries(series)
	_ = v.Chart.Resolve(len(series) == 0, "No chart data available")
	return v
}

// CampaignSection is one accordion entry of the grouped campaign view.
type CampaignSection struct {
	aggregate.CampaignGroup
	Key   string
	Path  string
	Table Table
}

// CampaignsView lists ad groups, optionally scoped to one campaign.
type CampaignsView struct {
	Page
	View       View
	CampaignID string
	Title      string
	Sections   []CampaignSection
	Table      Table
}

// CampaignAdGroups loads the ad groups of campaignID, or of every campaign
// when it is blank.
func (s *Service) CampaignAdGroups(ctx context.Context, campaignID string) CampaignsView {
	v := CampaignsView{View: s.views.View(ViewCampaigns), CampaignID: campaignID}
	v.Title = v.View.Title
	defer s.track(ViewCampaigns, &v.Page)()

	rows, err := s.reports.CampaignRows(ctx)
	if err != nil {
		_ = v.Fail(fmt.Errorf("load campaign rows: %w", err))
		return v
	}
	empty := "No campaign data available"
	if strings.TrimSpace(campaignID) != "" {
		rows = aggregate.FilterByCampaign(rows, campaignID)
		empty = "No ad groups found for this campaign"
		if len(rows) > 0 && rows[0].CampaignName.Valid {
			v.Title = rows[0].CampaignName.Value
		}
	}
	if v.View.Grouped() {
		for _, group := range aggregate.GroupByCampaign(rows) {
			v.Sections = append(v.Sections, CampaignSection{
				CampaignGroup: group,
				Key:           aggregate.NormalizeID(group.CampaignID),
				Path:          CampaignPath(group.CampaignID),
				Table:         tabulate(campaignColumns, v.View.Columns, group.Rows),
			})
		}
	} else {
		v.Table = tabulate(campaignColumns, v.View.Columns, rows)
	}
	_ = v.Resolve(len(rows) == 0, empty)
	return v
}

// AdGroupView is the tabbed ad group detail page.
type AdGroupView struct {
	Page
	CampaignID      string
	AdGroupID       string
	Tab             Tab
	Tabs            []Tab
	Links           Links
	LinksMessage    string
	Products        Section
	Targeting       Section
	Recommendations Section
	AsinRows        []reporting.AsinRow
}

// AdGroupDetail loads the products and targeting of one ad group, then its
// keyword recommendations using the campaign of the first product row.
func (s *Service) AdGroupDetail(ctx context.Context, campaignID, adGroupID string, tab Tab) AdGroupView {
	adGroupView := s.views.View(ViewAdGroup)
	v := AdGroupView{
		CampaignID: campaignID,
		AdGroupID:  adGroupID,
		Tab:        tab,
		Tabs:       adGroupView.Tabs,
		Products:   Section{Title: TabProducts.Label()},
		Targeting:  Section{Title: TabTargeting.Label()},
		Recommendations: Section{
			Title: TabRecommendations.Label(),
		},
	}
	defer s.track(ViewAdGroup, &v.Page)()

	links, err := AdGroupLinks(campaignID, adGroupID)
	if err != nil {
		v.LinksMessage = Describe(err)
	}
	v.Links = links
	if strings.TrimSpace(adGroupID) == "" {
		_ = v.Fail(MissingParameterError{Label: "Ad Group ID"})
		return v
	}

	var (
		asins    []reporting.AsinRow
		keywords []reporting.KeywordPerformanceRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.reports.AsinRows(gctx)
		if err != nil {
			return fmt.Errorf("load asin rows: %w", err)
		}
		asins = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reports.KeywordReport(gctx)
		if err != nil {
			return fmt.Errorf("load keyword report: %w", err)
		}
		keywords = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		_ = v.Fail(err)
		return v
	}

	asins = aggregate.FilterByAdGroup(asins, adGroupID)
	keywords = aggregate.FilterBySource(keywords, aggregate.SourceSponsoredKeyword)
	v.AsinRows = asins

	v.Products.Begin()
	v.Products.Table = tabulate(asinColumns, adGroupView.Columns, asins)
	_ = v.Products.Resolve(len(asins) == 0, "No ASIN data available for this ad group")
	v.Targeting.Begin()
	v.Targeting.Table = tabulate(keywordColumns, s.views.View(ViewTargeting).Columns, keywords)
	_ = v.Targeting.Resolve(len(keywords) == 0, "No spKeywords data available")

	if len(asins) == 0 {
		_ = v.Resolve(true, "No ASIN data available for this ad group")
		return v
	}
	_ = v.Resolve(false, "")

	v.Recommendations.Begin()
	recs, err := s.reports.KeywordRecommendations(ctx, asins[0].CampaignID.Value, adGroupID)
	if err != nil {
		_ = v.Recommendations.Fail(fmt.Errorf("load keyword recommendations: %w", err))
		return v
	}
	recs = aggregate.SortRecommendations(recs, s.rankOrder)
	v.Recommendations.Table = tabulate(recommendationColumns, s.views.View(ViewRecommendations).Columns, recs)
	_ = v.Recommendations.Resolve(len(recs) == 0, "No keyword recommendations available")
	return v
}

// ReportView is a single flat table.
type ReportView struct {
	Page
	View  View
	Table Table
}

// Asins loads the ASIN report.
func (s *Service) Asins(ctx context.Context) ReportView {
	v := ReportView{View: s.views.View(ViewAsins)}
	defer s.track(ViewAsins, &v.Page)()

	rows, err := s.reports.AsinRows(ctx)
	if err != nil {
		_ = v.Fail(fmt.Errorf("load asin rows: %w", err))
		return v
	}
	v.Table = tabulate(asinColumns, v.View.Columns, rows)
	_ = v.Resolve(len(rows) == 0, "No ASIN data available")
	return v
}

// Keywords loads sponsored keyword rows.
func (s *Service) Keywords(ctx context.Context) ReportView {
	v := ReportView{View: s.views.View(ViewKeywords)}
	defer s.track(ViewKeywords, &v.Page)()

	rows, err := s.reports.KeywordReport(ctx)
	if err != nil {
		_ = v.Fail(fmt.Errorf("load keyword report: %w", err))
		return v
	}
	rows = aggregate.FilterBySource(rows, aggregate.SourceSponsoredKeyword)
	v.Table = tabulate(keywordColumns, v.View.Columns, rows)
	_ = v.Resolve(len(rows) == 0, "No spKeywords data available")
	return v
}

// BrandsView is the brand target page.
type BrandsView struct {
	Page
	View    View
	Range   reporting.DateRange
	Totals  aggregate.Totals
	Percent string
	Gauge   int
	Table   Table
	Top     Section
	TopRows []reporting.BrandTargetRow
}

// Brands loads brand targets. Totals always come from the unique brand rows;
// with a range the leaderboard ranks the filtered rows only.
func (s *Service) Brands(ctx context.Context, rng reporting.DateRange) BrandsView {
	top := s.views.View(ViewBrandsTop)
	v := BrandsView{View: s.views.View(ViewBrands), Range: rng, Top: Section{Title: top.Title}}
	defer s.track(ViewBrands, &v.Page)()

	var unique, filtered []reporting.BrandTargetRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.reports.UniqueBrandRows(gctx)
		if err != nil {
			return fmt.Errorf("load unique brands: %w", err)
		}
		unique = rows
		return nil
	})
	if !rng.IsZero() {
		g.Go(func() error {
			rows, err := s.reports.FilteredBrandRows(gctx, rng)
			if err != nil {
				return fmt.Errorf("load filtered brands: %w", err)
			}
			filtered = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		_ = v.Fail(err)
		return v
	}

	v.Totals = aggregate.BrandTotals(unique)
	v.Percent = v.Totals.Percent()
	v.Gauge = v.Totals.Gauge()
	v.Table = tabulate(brandColumns, v.View.Columns, unique)
	_ = v.Resolve(len(unique) == 0, "No brand data available")

	ranked, empty := unique, "No brand data available"
	if !rng.IsZero() {
		ranked = filtered
		empty = fmt.Sprintf("No data available for the selected date range (%s)", rng)
	}
	v.Top.Begin()
	v.TopRows = aggregate.TopN(ranked, s.topN, aggregate.ByDailySales)
	v.Top.Table = tabulate(brandColumns, top.Columns, v.TopRows)
	_ = v.Top.Resolve(len(v.TopRows) == 0, empty)
	return v
}

// BrandExport returns every brand row for export.
func (s *Service) BrandExport(ctx context.Context) ([]reporting.BrandTargetRow, error) {
	rows, err := s.reports.BrandRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load brand rows: %w", err)
	}
	return rows, nil
}

// AdGroupExport returns the ASIN rows of one ad group for export.
func (s *Service) AdGroupExport(ctx context.Context, adGroupID string) ([]reporting.AsinRow, error) {
	if strings.TrimSpace(adGroupID) == "" {
		return nil, MissingParameterError{Label: "Ad Group ID"}
	}
	rows, err := s.reports.AsinRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load asin rows: %w", err)
	}
	return aggregate.FilterByAdGroup(rows, adGroupID), nil
}

func (s *Service) track(view string, p *Page) func() {
	p.Begin()
	if s.observer != nil {
		s.observer.PageBegin(view)
	}
	return func() {
		if s.observer != nil {
			s.observer.PageEnd(view, p.State.String())
		}
	}
}
