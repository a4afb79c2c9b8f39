package dashboard

import (
	"net/url"
	"strings"

	"github.com/adlens/adlens/internal/aggregate"
)

// Tab selects a section of the ad group detail view.
type Tab string

// Ad group detail tabs.
const (
	TabProducts        Tab = "products"
	TabTargeting       Tab = "targeting"
	TabRecommendations Tab = "recommendations"
)

// AllTabs lists the detail tabs in their default order.
var AllTabs = []Tab{TabProducts, TabTargeting, TabRecommendations}

// ParseTab maps a query or path value to a tab, defaulting to products.
func ParseTab(s string) Tab {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabTargeting:
		return TabTargeting
	case TabRecommendations:
		return TabRecommendations
	default:
		return TabProducts
	}
}

// Label is the heading shown on the tab.
func (t Tab) Label() string {
	switch t {
	case TabTargeting:
		return "Targeting"
	case TabRecommendations:
		return "Keyword Recommendations"
	default:
		return "Products"
	}
}

// Links are the sibling destinations of one ad group.
type Links struct {
	Detail          string
	Products        string
	Targeting       string
	Recommendations string
	Export          string
}

// For returns the link for tab.
func (l Links) For(tab Tab) string {
	switch tab {
	case TabTargeting:
		return l.Targeting
	case TabRecommendations:
		return l.Recommendations
	default:
		return l.Products
	}
}

// AdGroupLinks builds the detail paths for an ad group. Both identifiers must
// be present.
func AdGroupLinks(campaignID, adGroupID string) (Links, error) {
	if strings.TrimSpace(campaignID) == "" {
		return Links{}, MissingParameterError{Label: "Campaign ID"}
	}
	if strings.TrimSpace(adGroupID) == "" {
		return Links{}, MissingParameterError{Label: "Ad Group ID"}
	}
	base := "/adgroups/" + url.PathEscape(campaignID) + "/" + url.PathEscape(adGroupID)
	return Links{
		Detail:          base,
		Products:        base + "/" + string(TabProducts),
		Targeting:       base + "/" + string(TabTargeting),
		Recommendations: base + "/" + string(TabRecommendations),
		Export:          base + "/export.csv",
	}, nil
}

// CampaignPath is the ad group listing of one campaign.
func CampaignPath(campaignID string) string {
	return "/campaigns/" + url.PathEscape(campaignID)
}

// NavItem is one sidebar entry.
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

var sections = []NavItem{
	{Label: "Overview", Path: "/"},
	{Label: "Campaigns", Path: "/campaigns"},
	{Label: "ASINs", Path: "/asins"},
	{Label: "Keywords", Path: "/keywords"},
	{Label: "Brands", Path: "/brands"},
}

// Sidebar returns the top-level sections with the one owning currentPath
// marked active. Ad group pages belong to Campaigns.
func Sidebar(currentPath string) []NavItem {
	items := make([]NavItem, len(sections))
	copy(items, sections)
	for i := range items {
		items[i].Active = ownsPath(items[i].Path, currentPath)
	}
	return items
}

func ownsPath(section, current string) bool {
	switch section {
	case "/":
		return current == "" || current == "/"
	case "/campaigns":
		return current == section || strings.HasPrefix(current, section+"/") || strings.HasPrefix(current, "/adgroups/")
	default:
		return current == section || strings.HasPrefix(current, section+"/")
	}
}

// Expansion records which accordion rows are open. Rows are closed unless
// named; toggling happens in the browser without a reload.
type Expansion map[string]bool

// ParseExpansion reads the open query values.
func ParseExpansion(values []string) Expansion {
	exp := make(Expansion, len(values))
	for _, v := range values {
		for _, key := range strings.Split(v, ",") {
			if key = aggregate.NormalizeID(key); key != "" {
				exp[key] = true
			}
		}
	}
	return exp
}

// Open reports whether the row keyed by key starts expanded. Keys follow
// the same ID normalisation as filters.
func (e Expansion) Open(key string) bool {
	return e[aggregate.NormalizeID(key)]
}
