package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

// Validator returns a singleton validator with custom rules registered.
func Validator() *validator.Validate {
	if v == nil {
		v = validator.New()
		// Custom: input table path must have a supported extension.
		_ = v.RegisterValidation("filepath_ext", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return false
			}
			return strings.HasSuffix(strings.ToLower(s), ".csv")
		})
	}
	return v
}

// ValidateStruct validates a struct and returns a user-friendly error
// string suitable for transport-level error reporting. Returns empty
// string when valid.
func ValidateStruct(s any) string {
	if err := Validator().Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				return fmt.Sprintf("VALIDATION: %s is required", field)
			case "filepath_ext":
				return "VALIDATION: path must be a CSV file (.csv)"
			case "gt", "min", "max", "gte", "lte":
				return fmt.Sprintf("VALIDATION: %s must satisfy %s=%s", field, fe.Tag(), fe.Param())
			}
			return fmt.Sprintf("VALIDATION: invalid %s", field)
		}
		return "VALIDATION: invalid inputs"
	}
	return ""
}
