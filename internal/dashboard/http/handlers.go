package dashboardhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adlens/adlens/internal/dashboard"
	"github.com/adlens/adlens/internal/dashboard/export"
	"github.com/adlens/adlens/internal/dashboard/svg"
	"github.com/adlens/adlens/internal/dashboard/ui"
	"github.com/adlens/adlens/internal/preferences"
	"github.com/adlens/adlens/internal/reporting"
	"github.com/adlens/adlens/internal/shared"
	"github.com/adlens/adlens/internal/view"
	"github.com/adlens/adlens/report"
)

const defaultRequestTimeout = 10 * time.Second

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// DashboardService defines the view contract used by the handler.
type DashboardService interface {
	Overview(ctx context.Context) dashboard.OverviewView
	CampaignAdGroups(ctx context.Context, campaignID string) dashboard.CampaignsView
	AdGroupDetail(ctx context.Context, campaignID, adGroupID string, tab dashboard.Tab) dashboard.AdGroupView
	Asins(ctx context.Context) dashboard.ReportView
	Keywords(ctx context.Context) dashboard.ReportView
	Brands(ctx context.Context, rng reporting.DateRange) dashboard.BrandsView
	BrandExport(ctx context.Context) ([]reporting.BrandTargetRow, error)
	AdGroupExport(ctx context.Context, adGroupID string) ([]reporting.AsinRow, error)
}

// PDFService renders the brand report to PDF bytes.
type PDFService interface {
	RenderBrands(ctx context.Context, report export.BrandReport) ([]byte, error)
}

// Refresher invalidates cached reports.
type Refresher interface {
	Refresh(ctx context.Context) (int64, error)
}

// Config wires the handler's collaborators.
type Config struct {
	Logger         *slog.Logger
	Service        DashboardService
	Templates      *view.Engine
	Line           ui.LineRenderer
	Bar            ui.BarRenderer
	Gauge          ui.GaugeRenderer
	PDF            PDFService
	Preferences    preferences.Store
	Sequencer      *dashboard.Sequencer
	Refresher      Refresher
	RequestTimeout time.Duration
}

// Handler coordinates HTTP requests for the dashboard pages.
type Handler struct {
	logger    *slog.Logger
	service   DashboardService
	templates *view.Engine
	line      ui.LineRenderer
	bar       ui.BarRenderer
	gauge     ui.GaugeRenderer
	pdf       PDFService
	prefs     preferences.Store
	seq       *dashboard.Sequencer
	refresher Refresher
	timeout   time.Duration
	csvPool   sync.Pool
	now       func() time.Time
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(cfg Config) *Handler {
	h := &Handler{
		logger:    cfg.Logger,
		service:   cfg.Service,
		templates: cfg.Templates,
		line:      cfg.Line,
		bar:       cfg.Bar,
		gauge:     cfg.Gauge,
		pdf:       cfg.PDF,
		prefs:     cfg.Preferences,
		seq:       cfg.Sequencer,
		refresher: cfg.Refresher,
		timeout:   cfg.RequestTimeout,
		now:       time.Now,
	}
	if h.seq == nil {
		h.seq = dashboard.NewSequencer()
	}
	if h.prefs == nil {
		h.prefs = preferences.NewCookieStore(false)
	}
	if h.timeout <= 0 {
		h.timeout = defaultRequestTimeout
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// load is one bounded page load. Its context is cancelled when the browser
// goes away, the deadline passes or a newer load for the same view begins.
type load struct {
	ticket *dashboard.Ticket
	ctx    context.Context
	cancel context.CancelFunc
}

func (h *Handler) begin(r *http.Request, viewName string) *load {
	ticket := h.seq.Begin(r.Context(), sequenceKey(r, viewName))
	ctx, cancel := context.WithTimeout(ticket.Context(), h.timeout)
	return &load{ticket: ticket, ctx: ctx, cancel: cancel}
}

func (l *load) done() {
	l.cancel()
	l.ticket.Done()
}

// sequenceKey scopes supersession to one page instance: the same view with
// the same route params and query. Loads of different campaigns or ad groups
// in one session never cancel each other.
func sequenceKey(r *http.Request, viewName string) string {
	owner := "addr:" + r.RemoteAddr
	if sess := shared.SessionFromContext(r.Context()); sess != nil && sess.ID != "" {
		owner = sess.ID
	}
	return owner + ":" + viewName + ":" + r.URL.RequestURI()
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	l := h.begin(r, dashboard.ViewOverview)
	defer l.done()

	v := h.service.Overview(l.ctx)
	page := overviewPage{OverviewView: v}
	if v.Chart.Ready() {
		series, labels := ui.SalesSpend(v.Series)
		chart, err := h.line.Lines(svg.DefaultWidth, svg.DefaultHeight, series, labels, svg.LineOpts{
			Title:       "Daily Sales vs Spend",
			Description: "Daily sales and advertising spend",
			ShowDots:    true,
		})
		if err != nil {
			h.handleServerError(w, "render sales chart", err)
			return
		}
		page.ChartSVG = chart
	}
	h.render(w, r, l, "pages/overview.html", v.View.Title, v.Page, page)
}

func (h *Handler) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	l := h.begin(r, dashboard.ViewCampaigns)
	defer l.done()

	v := h.service.CampaignAdGroups(l.ctx, chi.URLParam(r, "campaignID"))
	page := campaignsPage{CampaignsView: v, Open: dashboard.ParseExpansion(r.URL.Query()["open"])}
	h.render(w, r, l, "pages/campaigns.html", v.Title, v.Page, page)
}

func (h *Handler) handleAdGroup(w http.ResponseWriter, r *http.Request) {
	l := h.begin(r, dashboard.ViewAdGroup)
	defer l.done()

	tab := chi.URLParam(r, "tab")
	if tab == "" {
		tab = r.URL.Query().Get("tab")
	}
	v := h.service.AdGroupDetail(l.ctx, chi.URLParam(r, "campaignID"), chi.URLParam(r, "adGroupID"), dashboard.ParseTab(tab))
	h.render(w, r, l, "pages/adgroup.html", v.Tab.Label(), v.Page, v)
}

func (h *Handler) handleAsins(w http.ResponseWriter, r *http.Request) {
	l := h.begin(r, dashboard.ViewAsins)
	defer l.done()

	v := h.service.Asins(l.ctx)
	h.render(w, r, l, "pages/report.html", v.View.Title, v.Page, v)
}

func (h *Handler) handleKeywords(w http.ResponseWriter, r *http.Request) {
	l := h.begin(r, dashboard.ViewKeywords)
	defer l.done()

	v := h.service.Keywords(l.ctx)
	h.render(w, r, l, "pages/report.html", v.View.Title, v.Page, v)
}

func (h *Handler) handleBrands(w http.ResponseWriter, r *http.Request) {
	l := h.begin(r, dashboard.ViewBrands)
	defer l.done()

	q := r.URL.Query()
	page := brandsPage{
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
	}
	rng, err := dashboard.ParseDateRange(page.StartDate, page.EndDate)
	if err != nil {
		page.Begin()
		_ = page.Fail(err)
		h.render(w, r, l, "pages/brands.html", "Brand Targets", page.Page, page)
		return
	}

	v := h.service.Brands(l.ctx, rng)
	page.BrandsView = v
	if !v.Failed() {
		page.GaugeSVG = h.gauge.Gauge(svg.DefaultGaugeSize, float64(v.Gauge), svg.GaugeOpts{
			Title:       "Target achieved",
			Description: v.Percent + "% of target achieved",
		})
	}
	if v.Top.Ready() {
		series, labels := ui.TopBrands(v.TopRows)
		bars, err := h.bar.Bars(svg.DefaultWidth, svg.DefaultHeight, series, labels, svg.BarOpts{
			Title:       v.Top.Title,
			Description: "Top brands by daily sales",
		})
		if err != nil {
			h.handleServerError(w, "render brand chart", err)
			return
		}
		page.TopSVG = bars
	}
	h.render(w, r, l, "pages/brands.html", v.View.Title, v.Page, page)
}

func (h *Handler) handleBrandCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rows, err := h.service.BrandExport(ctx)
	if err != nil {
		h.handleLoadError(w, "load brand export", err)
		return
	}
	h.writeCSV(w, export.Filename("brands", reporting.DateRange{}, "csv"), func(buf *bytes.Buffer) error {
		return export.WriteBrandCSV(buf, rows)
	})
}

func (h *Handler) handleAdGroupCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	adGroupID := chi.URLParam(r, "adGroupID")
	rows, err := h.service.AdGroupExport(ctx, adGroupID)
	if err != nil {
		h.handleLoadError(w, "load ad group export", err)
		return
	}
	name := "adgroup_" + unsafeFilename.ReplaceAllString(adGroupID, "_")
	h.writeCSV(w, export.Filename(name, reporting.DateRange{}, "csv"), func(buf *bytes.Buffer) error {
		return export.WriteAsinCSV(buf, rows)
	})
}

func (h *Handler) writeCSV(w http.ResponseWriter, filename string, write func(*bytes.Buffer) error) {
	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := write(buf); err != nil {
		h.handleServerError(w, "write csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handleBrandPDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		h.handleServerError(w, "pdf exporter", errors.New("pdf exporter not configured"))
		return
	}
	rng, err := dashboard.ParseDateRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		http.Error(w, dashboard.Describe(err), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	v := h.service.Brands(ctx, rng)
	if v.Failed() {
		h.handleLoadError(w, "load brand report", v.Err)
		return
	}
	pdfBytes, err := h.pdf.RenderBrands(ctx, export.BrandReport{
		GeneratedAt: h.now().UTC().Format("2006-01-02 15:04 MST"),
		View:        v,
	})
	if err != nil {
		if errors.Is(err, report.ErrNotConfigured) {
			h.logError("render pdf", err)
			http.Error(w, "PDF export is not available", http.StatusServiceUnavailable)
			return
		}
		h.handleServerError(w, "render pdf", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", export.Filename("brands", rng, "pdf")))
	if _, err := w.Write(pdfBytes); err != nil {
		h.logError("stream pdf", err)
	}
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	flash := shared.FlashMessage{Kind: "info", Message: "Reports are fetched live on every page load."}
	if h.refresher != nil {
		ver, err := h.refresher.Refresh(r.Context())
		if err != nil {
			h.logError("refresh reports", err)
			flash = shared.FlashMessage{Kind: "error", Message: "Could not refresh reports."}
		} else {
			if h.logger != nil {
				h.logger.Info("report cache refreshed", slog.Int64("version", ver))
			}
			flash = shared.FlashMessage{Kind: "success", Message: "Reports refreshed."}
		}
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(flash)
	}
	http.Redirect(w, r, shared.ReturnPath(r), http.StatusSeeOther)
}

// render writes a settled page. Superseded loads are answered with 409 and a
// browser that has gone away gets nothing.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, l *load, name, title string, page dashboard.Page, data any) {
	if !l.ticket.Current() {
		http.Error(w, "superseded by a newer request", http.StatusConflict)
		return
	}
	if r.Context().Err() != nil {
		return
	}
	status := statusFor(page)
	if page.Failed() {
		h.logLoadFailure(name, status, page.Err)
	}

	var flash *shared.FlashMessage
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   shared.CSRFTokenFromContext(r.Context()),
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Prefs:       h.prefs.Load(r),
		Nav:         dashboard.Sidebar(r.URL.Path),
		Data:        data,
	}
	if err := h.templates.RenderStatus(w, status, name, viewData); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

// statusFor maps how a page settled to the response status.
func statusFor(page dashboard.Page) int {
	if !page.Failed() {
		return http.StatusOK
	}
	return statusForError(page.Err)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrMissingRouteParameter),
		errors.Is(err, dashboard.ErrInvalidDateRange),
		errors.Is(err, reporting.ErrMissingIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, reporting.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleLoadError(w http.ResponseWriter, msg string, err error) {
	status := statusForError(err)
	h.logLoadFailure(msg, status, err)
	http.Error(w, dashboard.Describe(err), status)
}

func (h *Handler) logLoadFailure(msg string, status int, err error) {
	if h.logger == nil {
		return
	}
	level := slog.LevelError
	if status == http.StatusBadRequest {
		level = slog.LevelInfo
	}
	h.logger.Log(context.Background(), level, msg, slog.Int("status", status), slog.Any("error", err))
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}
