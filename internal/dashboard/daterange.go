package dashboard

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/adlens/adlens/internal/reporting"
)

// DateRangeError explains why a requested range was rejected.
type DateRangeError struct {
	Reason string
}

func (e DateRangeError) Error() string {
	return "Invalid date range: " + e.Reason
}

func (e DateRangeError) Is(target error) bool {
	return target == ErrInvalidDateRange
}

type dateRangeInput struct {
	Start string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	End   string `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("form"); name != "" {
			return name
		}
		if name := field.Tag.Get("yaml"); name != "" {
			return strings.Split(name, ",")[0]
		}
		return field.Name
	})
	return v
}

// ParseDateRange validates the start_date and end_date query values. Both
// blank means no range; otherwise both must be YYYY-MM-DD with start <= end.
func ParseDateRange(start, end string) (reporting.DateRange, error) {
	in := dateRangeInput{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
	if in.Start == "" && in.End == "" {
		return reporting.DateRange{}, nil
	}
	if in.Start == "" || in.End == "" {
		return reporting.DateRange{}, DateRangeError{Reason: "both start_date and end_date are required"}
	}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return reporting.DateRange{}, DateRangeError{Reason: verrs[0].Field() + " must be formatted YYYY-MM-DD"}
		}
		return reporting.DateRange{}, DateRangeError{Reason: err.Error()}
	}
	from, err := time.Parse(reporting.DateLayout, in.Start)
	if err != nil {
		return reporting.DateRange{}, DateRangeError{Reason: "start_date must be formatted YYYY-MM-DD"}
	}
	to, err := time.Parse(reporting.DateLayout, in.End)
	if err != nil {
		return reporting.DateRange{}, DateRangeError{Reason: "end_date must be formatted YYYY-MM-DD"}
	}
	if to.Before(from) {
		return reporting.DateRange{}, DateRangeError{Reason: "start_date must not be after end_date"}
	}
	return reporting.DateRange{Start: from, End: to}, nil
}
