package aggregate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/adlens/adlens/internal/reporting"
)

// TopN returns the n rows with the highest key, highest first. Rows with equal
// keys keep their input order. The input slice is not modified.
func TopN[T any](rows []T, n int, key func(T) float64) []T {
	if n <= 0 || len(rows) == 0 {
		return []T{}
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b T) int {
		ka, kb := key(a), key(b)
		switch {
		case ka > kb:
			return -1
		case ka < kb:
			return 1
		default:
			return 0
		}
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// ByDailySales ranks brand rows on daily sales.
func ByDailySales(r reporting.BrandTargetRow) float64 { return r.DailySales.Float() }

// ByTargetAchieved ranks brand rows on target achieved to date.
func ByTargetAchieved(r reporting.BrandTargetRow) float64 { return r.TargetAchieved.Float() }

// RankOrder selects how keyword recommendations are ordered. The backend never
// states whether a lower rank is better, so the choice is configuration.
type RankOrder string

// Supported rank orders.
const (
	RankOrderAPI        RankOrder = "api"
	RankOrderAscending  RankOrder = "asc"
	RankOrderDescending RankOrder = "desc"
)

// ParseRankOrder validates a configured rank order.
func ParseRankOrder(s string) (RankOrder, error) {
	switch order := RankOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case "", RankOrderAPI:
		return RankOrderAPI, nil
	case RankOrderAscending, RankOrderDescending:
		return order, nil
	default:
		return "", fmt.Errorf("aggregate: unknown rank order %q", s)
	}
}

// SortRecommendations orders rows by rank. Rows without a numeric rank sort
// after ranked rows; ties keep backend order.
func SortRecommendations(rows []reporting.KeywordRecommendationRow, order RankOrder) []reporting.KeywordRecommendationRow {
	out := slices.Clone(rows)
	if order != RankOrderAscending && order != RankOrderDescending {
		return out
	}
	slices.SortStableFunc(out, func(a, b reporting.KeywordRecommendationRow) int {
		if a.Rank.Valid != b.Rank.Valid {
			if a.Rank.Valid {
				return -1
			}
			return 1
		}
		if !a.Rank.Valid {
			return 0
		}
		cmp := 0
		switch {
		case a.Rank.Value < b.Rank.Value:
			cmp = -1
		case a.Rank.Value > b.Rank.Value:
			cmp = 1
		}
		if order == RankOrderDescending {
			cmp = -cmp
		}
		return cmp
	})
	return out
}
