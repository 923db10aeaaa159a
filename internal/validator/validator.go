package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/go-playground/validator/v10"
)

var showroomLetterRgx = regexp.MustCompile(`^[A-Z]$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("showroom_letter", validateShowroomLetter)
	validator.RegisterValidation("ticket_type", validateTicketType)
	validator.RegisterValidation("future", validateFuture)

	return validator
}

func validateShowroomLetter(fl validator.FieldLevel) bool {
	return showroomLetterRgx.MatchString(fl.Field().String())
}

func validateTicketType(fl validator.FieldLevel) bool {
	return domain.TicketType(fl.Field().String()).Valid()
}

func validateFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "showroom_letter":
		return "must be a single letter A-Z"
	case "ticket_type":
		return "must be one of CHILD, ADULT, SENIOR"
	case "future":
		return "must be in the future"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", err.Param())
	default:
		return "is invalid"
	}
}
