// Package aggregate narrows, ranks and totals fetched report rows. Every
// function is pure and total: absent numeric fields count as zero.
package aggregate

import (
	"strings"

	"github.com/adlens/adlens/internal/reporting"
)

// SourceSponsoredKeyword marks keyword rows for sponsored-product targeting.
const SourceSponsoredKeyword = "spKeyword"

// NormalizeID trims and lower-cases an identifier. Campaign and ad group ids
// are compared through it; the Source discriminator is not.
func NormalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameID reports whether two identifiers match after normalisation.
func SameID(a, b string) bool {
	return NormalizeID(a) == NormalizeID(b)
}

// AdGroupScoped is implemented by rows owned by an ad group.
type AdGroupScoped interface {
	AdGroupKey() string
}

// CampaignScoped is implemented by rows owned by a campaign.
type CampaignScoped interface {
	CampaignKey() string
}

// FilterByAdGroup keeps rows whose ad group id matches adGroupID ignoring case
// and surrounding whitespace, preserving input order.
func FilterByAdGroup[T AdGroupScoped](rows []T, adGroupID string) []T {
	want := NormalizeID(adGroupID)
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if NormalizeID(row.AdGroupKey()) == want {
			out = append(out, row)
		}
	}
	return out
}

// FilterByCampaign keeps rows owned by campaignID, preserving input order.
func FilterByCampaign[T CampaignScoped](rows []T, campaignID string) []T {
	want := NormalizeID(campaignID)
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if NormalizeID(row.CampaignKey()) == want {
			out = append(out, row)
		}
	}
	return out
}

// FilterBySource keeps keyword rows whose Source equals source exactly.
func FilterBySource(rows []reporting.KeywordPerformanceRow, source string) []reporting.KeywordPerformanceRow {
	out := make([]reporting.KeywordPerformanceRow, 0, len(rows))
	for _, row := range rows {
		if row.Source.Valid && row.Source.Value == source {
			out = append(out, row)
		}
	}
	return out
}
