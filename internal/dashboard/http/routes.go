package dashboardhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/adlens/adlens/internal/shared"
)

// MountRoutes registers the dashboard pages and exports onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.handleOverview)
	r.Get("/campaigns", h.handleCampaigns)
	r.Get("/campaigns/{campaignID}", h.handleCampaigns)
	r.Get("/adgroups/{campaignID}/{adGroupID}", h.handleAdGroup)
	r.Get("/adgroups/{campaignID}/{adGroupID}/{tab:products|targeting|recommendations}", h.handleAdGroup)
	r.Get("/asins", h.handleAsins)
	r.Get("/keywords", h.handleKeywords)
	r.Get("/brands", h.handleBrands)
	r.Post("/reports/refresh", h.handleRefresh)

	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/adgroups/{campaignID}/{adGroupID}/export.csv", h.handleAdGroupCSV)
		gr.Get("/brands/export.csv", h.handleBrandCSV)
		gr.Get("/brands/pdf", h.handleBrandPDF)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && sess.ID != "" {
		return "session:" + sess.ID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
