package dashboardhttp

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adlens/adlens/internal/dashboard"
	"github.com/adlens/adlens/internal/dashboard/export"
	"github.com/adlens/adlens/internal/dashboard/svg"
	"github.com/adlens/adlens/internal/preferences"
	"github.com/adlens/adlens/internal/reporting"
	"github.com/adlens/adlens/internal/shared"
	"github.com/adlens/adlens/internal/view"
)

type stubReports struct {
	campaigns    []reporting.CampaignRow
	campaignsErr error
	block        bool
	onCampaigns  func()
	series       []reporting.CampaignSeriesPoint
	asins        []reporting.AsinRow
	keywords     []reporting.KeywordPerformanceRow
	recs         []reporting.KeywordRecommendationRow
	brands       []reporting.BrandTargetRow
	unique       []reporting.BrandTargetRow
	filtered     []reporting.BrandTargetRow
}

func (s *stubReports) CampaignRows(ctx context.Context) ([]reporting.CampaignRow, error) {
	if s.onCampaigns != nil {
		s.onCampaigns()
	}
	if s.block {
		<-ctx.Done()
		return nil, &reporting.NetworkError{Endpoint: reporting.EndpointCampaignLevel, Err: ctx.Err()}
	}
	return s.campaigns, s.campaignsErr
}

func (s *stubReports) AsinRows(context.Context) ([]reporting.AsinRow, error) { return s.asins, nil }

func (s *stubReports) KeywordReport(context.Context) ([]reporting.KeywordPerformanceRow, error) {
	return s.keywords, nil
}

func (s *stubReports) KeywordRecommendations(context.Context, string, string) ([]reporting.KeywordRecommendationRow, error) {
	return s.recs, nil
}

func (s *stubReports) BrandRows(context.Context) ([]reporting.BrandTargetRow, error) {
	return s.brands, nil
}

func (s *stubReports) UniqueBrandRows(context.Context) ([]reporting.BrandTargetRow, error) {
	return s.unique, nil
}

func (s *stubReports) FilteredBrandRows(context.Context, reporting.DateRange) ([]reporting.BrandTargetRow, error) {
	return s.filtered, nil
}

func (s *stubReports) CampaignSeries(context.Context) ([]reporting.CampaignSeriesPoint, error) {
	return s.series, nil
}

type stubPDF struct {
	last export.BrandReport
	err  error
}

func (s *stubPDF) RenderBrands(_ context.Context, report export.BrandReport) ([]byte, error) {
	s.last = report
	return []byte("%PDF-1.4\n"), s.err
}

type stubRefresher struct {
	calls int
}

func (s *stubRefresher) Refresh(context.Context) (int64, error) {
	s.calls++
	return int64(s.calls + 1), nil
}

type lineAdapter func(width, height int, series []svg.Series, labels []string, opts svg.LineOpts) (template.HTML, error)

type barAdapter func(width, height int, series []svg.Series, labels []string, opts svg.BarOpts) (template.HTML, error)

type gaugeAdapter func(size int, percent float64, opts svg.GaugeOpts) template.HTML

func (a lineAdapter) Lines(width, height int, series []svg.Series, labels []string, opts svg.LineOpts) (template.HTML, error) {
	return a(width, height, series, labels, opts)
}

func (a barAdapter) Bars(width, height int, series []svg.Series, labels []string, opts svg.BarOpts) (template.HTML, error) {
	return a(width, height, series, labels, opts)
}

func (a gaugeAdapter) Gauge(size int, percent float64, opts svg.GaugeOpts) template.HTML {
	return a(size, percent, opts)
}

func txt(v string) reporting.Text     { return reporting.NewText(v) }
func num(v float64) reporting.Number { return reporting.NewNumber(v) }

func sampleReports() *stubReports {
	return &stubReports{
		campaigns: []reporting.CampaignRow{
			{CampaignID: txt("C1"), CampaignName: txt("Summer Shoes"), AdGroupID: txt("AG1"), AdGroupName: txt("Sneakers"), Cost: num(12.5), Clicks: num(40)},
			{CampaignID: txt("C2"), CampaignName: txt("Winter Coats"), AdGroupID: txt("AG9"), AdGroupName: txt("Parkas"), Cost: num(3), Clicks: num(8)},
		},
		series: []reporting.CampaignSeriesPoint{
			{Date: txt("2024-03-01"), DailySales: num(100), Spend: num(20)},
			{Date: txt("2024-03-02"), DailySales: num(140), Spend: num(25)},
		},
		asins: []reporting.AsinRow{
			{AdvertisedAsin: txt("B000111"), AdGroupID: txt("ag1"), CampaignID: txt("C1"), Cost: num(4)},
		},
		keywords: []reporting.KeywordPerformanceRow{
			{Keyword: txt("running shoes"), Source: txt("spKeyword"), AdGroupID: txt("AG1")},
			{Keyword: txt("ignored"), Source: txt("sbKeyword"), AdGroupID: txt("AG1")},
		},
		recs: []reporting.KeywordRecommendationRow{{Keyword: txt("trail shoes"), Rank: num(1)}},
		brands: []reporting.BrandTargetRow{
			{Brand: txt("Acme"), DateTime: txt("2024-03-01"), DailySales: num(50), Target: num(100), TargetAchieved: num(50)},
		},
		unique: []reporting.BrandTargetRow{
			{Brand: txt("Acme"), DailySales: num(50), Target: num(100), TargetAchieved: num(50)},
			{Brand: txt("Globex"), DailySales: num(80), Target: num(100), TargetAchieved: num(25)},
		},
	}
}

func newTestHandler(t *testing.T, reports *stubReports) *Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	handler := NewHandler(Config{
		Service:        dashboard.NewService(reports, dashboard.Options{}),
		Templates:      templates,
		Line:           lineAdapter(svg.Lines),
		Bar:            barAdapter(svg.Bars),
		Gauge:          gaugeAdapter(svg.Gauge),
		PDF:            &stubPDF{},
		Preferences:    preferences.NewCookieStore(false),
		RequestTimeout: time.Second,
	})
	handler.WithNow(func() time.Time { return time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC) })
	return handler
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	h.MountRoutes(router)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestOverviewRendersTableAndChart(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Campaign Overview")
	assert.Contains(t, body, "Summer Shoes")
	assert.Contains(t, body, `href="/adgroups/C1/AG1"`)
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "240.00")
}

func TestOverviewEmptySkipsChart(t *testing.T) {
	reports := sampleReports()
	reports.campaigns = nil
	handler := newTestHandler(t, reports)
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No campaign data available")
	assert.NotContains(t, rr.Body.String(), "<svg")
}

func TestOverviewUpstreamFailureIsBadGateway(t *testing.T) {
	reports := sampleReports()
	reports.campaignsErr = &reporting.StatusError{Status: http.StatusInternalServerError, Endpoint: reporting.EndpointCampaignLevel}
	handler := newTestHandler(t, reports)
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to fetch data: 500")
}

func TestStalledBackendTimesOut(t *testing.T) {
	reports := sampleReports()
	reports.block = true
	handler := newTestHandler(t, reports)
	handler.timeout = 20 * time.Millisecond

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/campaigns", nil))
	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	assert.Contains(t, rr.Body.String(), "did not respond in time")
}

func TestSupersededLoadIsNotRendered(t *testing.T) {
	reports := sampleReports()
	handler := newTestHandler(t, reports)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	reports.onCampaigns = func() {
		handler.seq.Begin(context.Background(), sequenceKey(req, dashboard.ViewOverview))
	}

	rr := serve(handler, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.NotContains(t, rr.Body.String(), "Summer Shoes")
}

func TestIndependentCampaignLoadsBothRender(t *testing.T) {
	reports := sampleReports()
	handler := newTestHandler(t, reports)
	var started bool
	var nested *httptest.ResponseRecorder
	reports.onCampaigns = func() {
		if started {
			return
		}
		started = true
		nested = serve(handler, httptest.NewRequest(http.MethodGet, "/campaigns/C2", nil))
	}

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/campaigns/C1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, nested)
	assert.Equal(t, http.StatusOK, nested.Code)
}

func TestCampaignScopeAndExpansion(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/campaigns/c1?open=c1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Sneakers")
	assert.NotContains(t, body, "Parkas")
	assert.Contains(t, body, "<details class=\"card campaign\" open>")
	assert.Contains(t, body, `aria-current="page"`)
}

func TestCampaignWithoutAdGroups(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/campaigns/C404", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No ad groups found for this campaign")
}

func TestAdGroupTabs(t *testing.T) {
	handler := newTestHandler(t, sampleReports())

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/adgroups/C1/AG1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "B000111")
	assert.Contains(t, rr.Body.String(), `href="/adgroups/C1/AG1/targeting"`)

	rr = serve(handler, httptest.NewRequest(http.MethodGet, "/adgroups/C1/AG1/targeting", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "running shoes")
	assert.NotContains(t, rr.Body.String(), "ignored")

	rr = serve(handler, httptest.NewRequest(http.MethodGet, "/adgroups/C1/AG1?tab=recommendations", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "trail shoes")
}

func TestAdGroupMissingIdentifierIsBadRequest(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	req := httptest.NewRequest(http.MethodGet, "/adgroups/C1/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("campaignID", "C1")
	rctx.URLParams.Add("adGroupID", " ")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	handler.handleAdGroup(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Ad Group ID is missing")
}

func TestKeywordsKeepSponsoredOnly(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/keywords", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "running shoes")
	assert.NotContains(t, rr.Body.String(), "ignored")
}

func TestBrandsRendersGaugeAndLeaderboard(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/brands", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Top Brands by Daily Sales")
	assert.Contains(t, body, "Globex")
	assert.Contains(t, body, "(37.50%)")
	assert.Contains(t, body, `href="/brands/pdf"`)
}

func TestBrandsEmptyRangeDoesNotFallBack(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/brands?start_date=2024-03-01&end_date=2024-03-31", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "No data available for the selected date range (2024-03-01 to 2024-03-31)")
	assert.Contains(t, body, "/brands/pdf?end_date=2024-03-31&amp;start_date=2024-03-01")
}

func TestBrandsInvalidRangeIsBadRequest(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/brands?start_date=2024-04-01&end_date=2024-03-01", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid date range")
}

func TestBrandCSVExport(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/brands/export.csv", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="brands.csv"`)
	assert.Contains(t, rr.Body.String(), "Brand,Date,Daily Sales")
	assert.Contains(t, rr.Body.String(), "Acme")
}

func TestAdGroupCSVExport(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/adgroups/C1/AG1/export.csv", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="adgroup_AG1.csv"`)
	assert.Contains(t, rr.Body.String(), "B000111")
}

func TestBrandPDFExport(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	pdf := &stubPDF{}
	handler.pdf = pdf
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/brands/pdf?start_date=2024-03-01&end_date=2024-03-31", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "brands_2024-03-01_2024-03-31.pdf")
	assert.Equal(t, "2024-04-02 09:30 UTC", pdf.last.GeneratedAt)
	assert.False(t, pdf.last.View.Range.IsZero())
}

func TestRefreshBumpsCacheAndRedirects(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	refresher := &stubRefresher{}
	handler.refresher = refresher

	form := url.Values{"return_to": {"/brands?start_date=2024-03-01&end_date=2024-03-31"}}
	req := httptest.NewRequest(http.MethodPost, "/reports/refresh", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	sess := &shared.Session{ID: "s1"}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	rr := serve(handler, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/brands?start_date=2024-03-01&end_date=2024-03-31", rr.Header().Get("Location"))
	assert.Equal(t, 1, refresher.calls)
	flash := sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Reports refreshed.", flash.Message)
}

func TestThemeCookieReachesTemplate(t *testing.T) {
	handler := newTestHandler(t, sampleReports())
	req := httptest.NewRequest(http.MethodGet, "/asins", nil)
	req.AddCookie(&http.Cookie{Name: preferences.CookieName, Value: "dark"})

	rr := serve(handler, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-theme="dark"`)
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{dashboard.MissingParameterError{Label: "Ad Group ID"}, http.StatusBadRequest},
		{dashboard.DateRangeError{Reason: "x"}, http.StatusBadRequest},
		{&reporting.NetworkError{Endpoint: "/x", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{&reporting.ShapeError{Endpoint: "/x"}, http.StatusBadGateway},
		{&reporting.StatusError{Status: 404, Endpoint: "/x"}, http.StatusBadGateway},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForError(tc.err), "%v", tc.err)
	}
}
