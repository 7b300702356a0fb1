package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts validator.ValidationErrors into our error type
func ToValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		out = append(out, ValidationError{
			Field:   err.Field(),
			Message: errorMessage(err),
			Value:   err.Value(),
			Rule:    err.Tag(),
		})
	}
	return out
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "mobile_number":
		return "must be exactly 10 digits"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "future_date":
		return "must be in the future"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}

func registerCustomRules(validate *validator.Validate) {
	// Report field errors under their json names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// mobile_number: exactly 10 digits after stripping spaces and dashes
	_ = validate.RegisterValidation("mobile_number", func(fl validator.FieldLevel) bool {
		return NormalizeMobile(fl.Field().String()) != ""
	})

	_ = validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		date, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return date.After(time.Now())
	})
}

// NormalizeMobile strips separators and returns the cleaned 10-digit number,
// or "" when the input is not a valid mobile number.
func NormalizeMobile(mobile string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(mobile))
	if len(cleaned) != 10 {
		return ""
	}
	for _, r := range cleaned {
		if !unicode.IsDigit(r) {
			return ""
		}
	}
	return cleaned
}

// BusinessValidator handles cross-field business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator(validate *validator.Validate) *BusinessValidator {
	return &BusinessValidator{validate: validate}
}

// ValidateExamDates enforces start_date < end_date
func (bv *BusinessValidator) ValidateExamDates(startDate, endDate time.Time) ValidationErrors {
	if !startDate.Before(endDate) {
		return ValidationErrors{{
			Field:   "start_date",
			Message: "must be before end_date",
			Rule:    "date_range",
		}}
	}
	return nil
}

// ValidateMobileUpdate validates a raw mobile number input
func (bv *BusinessValidator) ValidateMobileUpdate(mobile string) ValidationErrors {
	if NormalizeMobile(mobile) == "" {
		return ValidationErrors{{
			Field:   "mobile",
			Message: "must be exactly 10 digits",
			Value:   mobile,
			Rule:    "mobile_number",
		}}
	}
	return nil
}
