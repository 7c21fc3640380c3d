package utils

import (
	"errors"
	"fmt"

	"wayfare/dates"

	"github.com/go-playground/validator/v10"
)

// NewValidator builds the request validator used by all handlers. The
// custom "hourslot" tag restricts a field to the fixed 24 grid times.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// registration only fails for a blank tag name
	_ = v.RegisterValidation("hourslot", func(fl validator.FieldLevel) bool {
		return dates.IsHourSlot(fl.Field().String())
	})
	return v
}

// ValidationDetails flattens a validator error into the itemized
// messages the API returns with a 400.
func ValidationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			details = append(details, fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param()))
		case "datetime":
			details = append(details, fmt.Sprintf("%s must be a valid date (e.g. \"2026-02-06\")", fe.Field()))
		case "hourslot":
			details = append(details, fmt.Sprintf("%s must be an hourly time between \"00:00\" and \"23:00\"", fe.Field()))
		default:
			details = append(details, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return details
}
