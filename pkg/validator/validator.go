package validator

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MessageMissingFields    = "Missing required fields"
	MessageValidationFailed = "Validation failed"
)

var clockLayouts = []string{"15:04", "15:04:05"}

// ValidationErrors is the formatted outcome of a failed Validate call.
// Fields lists the offending json field names in sorted order.
type ValidationErrors struct {
	Message string
	Fields  []string
	Details map[string]string
}

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, layout := range clockLayouts {
			if _, err := time.Parse(layout, value); err == nil {
				return true
			}
		}
		return false
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) ValidationErrors {
	result := ValidationErrors{
		Message: MessageValidationFailed,
		Details: make(map[string]string),
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return result
	}

	missing := false
	for _, e := range validationErrors {
		field := e.Field()
		if _, seen := result.Details[field]; !seen {
			result.Fields = append(result.Fields, field)
		}
		switch e.Tag() {
		case "required":
			missing = true
			result.Details[field] = field + " is required"
		case "email":
			result.Details[field] = field + " must be a valid email address"
		case "min":
			result.Details[field] = field + " must be at least " + e.Param() + " characters"
		case "max":
			result.Details[field] = field + " must be at most " + e.Param() + " characters"
		case "gte":
			result.Details[field] = field + " must be greater than or equal to " + e.Param()
		case "lte":
			result.Details[field] = field + " must be less than or equal to " + e.Param()
		case "oneof":
			result.Details[field] = field + " must be one of: " + e.Param()
		case "calendardate":
			result.Details[field] = field + " must be a date in YYYY-MM-DD format"
		case "clocktime":
			result.Details[field] = field + " must be a time in HH:MM format"
		case "mongodb":
			result.Details[field] = field + " must be a valid id"
		default:
			result.Details[field] = field + " is invalid"
		}
	}

	sort.Strings(result.Fields)
	if missing {
		result.Message = MessageMissingFields
	}
	return result
}
