package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMessage renders a human-readable message for a failed validation tag.
func DefaultMessage(field, tag, param string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required":
		return fmt.Sprintf("%s must not be empty", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", field)
	case "datetime":
		return fmt.Sprintf("%s must be a valid date", field)
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

// FormatErrors flattens validator errors into a field->message map. Non
// validator errors collapse into a single generic entry.
func FormatErrors(err error) map[string]string {
	out := make(map[string]string)

	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			out[strings.ToLower(fe.Field())] = DefaultMessage(fe.Field(), fe.Tag(), fe.Param())
		}
		return out
	}

	out["body"] = "request body is not valid"
	return out
}
