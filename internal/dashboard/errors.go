package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/adlens/adlens/internal/reporting"
)

var (
	// ErrMissingRouteParameter matches every MissingParameterError.
	ErrMissingRouteParameter = errors.New("dashboard: missing route parameter")
	// ErrInvalidDateRange is returned for malformed or inverted date ranges.
	ErrInvalidDateRange = errors.New("dashboard: invalid date range")
)

// MissingParameterError names the identifier a detail view could not find.
type MissingParameterError struct {
	Label string
}

func (e MissingParameterError) Error() string {
	return e.Label + " is missing"
}

func (e MissingParameterError) Is(target error) bool {
	return target == ErrMissingRouteParameter
}

// Describe converts a load failure into the line shown in place of a table.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var (
		missing  MissingParameterError
		status   *reporting.StatusError
		shape    *reporting.ShapeError
		network  *reporting.NetworkError
		rangeErr DateRangeError
	)
	switch {
	case errors.As(err, &missing):
		return missing.Error()
	case errors.Is(err, reporting.ErrMissingIdentifier):
		return "Campaign ID is missing"
	case errors.As(err, &rangeErr):
		return rangeErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "The reporting service did not respond in time"
	case errors.Is(err, context.Canceled):
		return "The request was cancelled"
	case errors.As(err, &status):
		return fmt.Sprintf("Failed to fetch data: %d", status.Status)
	case errors.As(err, &shape):
		return "The reporting service returned data in an unexpected format"
	case errors.As(err, &network):
		return "Could not reach the reporting service"
	default:
		return "An error occurred"
	}
}
