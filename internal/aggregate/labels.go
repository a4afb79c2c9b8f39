package aggregate

import (
	"strings"

	"github.com/adlens/adlens/internal/reporting"
)

const notApplicable = "N/A"

// SearchTermLabel renders a keyword row's search term; the backend sends the
// literal "None" when there is none.
func SearchTermLabel(term reporting.Text) string {
	if !term.Valid || term.Value == "None" || strings.TrimSpace(term.Value) == "" {
		return notApplicable
	}
	return term.Value
}

// ImpressionShareLabel renders top-of-search impression share as a percentage,
// or N/A when the backend sent something non-numeric.
func ImpressionShareLabel(share reporting.Text) string {
	if !share.Valid {
		return notApplicable
	}
	n := reporting.ParseNumber(strings.TrimSuffix(strings.TrimSpace(share.Value), "%"))
	if !n.Valid {
		return notApplicable
	}
	return n.Fixed(2) + "%"
}
