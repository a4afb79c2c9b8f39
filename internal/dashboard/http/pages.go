package dashboardhttp

import (
	"html/template"
	"net/url"

	"github.com/adlens/adlens/internal/dashboard"
)

type overviewPage struct {
	dashboard.OverviewView
	ChartSVG template.HTML
}

type campaignsPage struct {
	dashboard.CampaignsView
	Open dashboard.Expansion
}

type brandsPage struct {
	dashboard.BrandsView
	StartDate string
	EndDate   string
	GaugeSVG  template.HTML
	TopSVG    template.HTML
}

// PDFPath carries the submitted range over to the PDF download.
func (p brandsPage) PDFPath() string {
	if p.StartDate == "" && p.EndDate == "" {
		return "/brands/pdf"
	}
	q := url.Values{}
	q.Set("start_date", p.StartDate)
	q.Set("end_date", p.EndDate)
	return "/brands/pdf?" + q.Encode()
}
