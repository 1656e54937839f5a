package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var fieldCaser = cases.Title(language.English)

// start_time -> Start Time
func formatFieldName(s string) string {
	return fieldCaser.String(strings.ReplaceAll(s, "_", " "))
}

// MapValidationError turns the first failed binding rule into a readable
// INVALID_INPUT error. Anything else becomes a generic invalid input.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	e := errs[0]
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required", "required_if":
		return RequiredField(field)
	case "oneof":
		return New(
			CodeInvalidInput,
			fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", ")),
			http.StatusBadRequest,
		)
	case "datetime":
		return New(
			CodeInvalidInput,
			fmt.Sprintf("%s must match format %s", field, e.Param()),
			http.StatusBadRequest,
		)
	case "email":
		return New(CodeInvalidInput, fmt.Sprintf("%s must be a valid email address", field), http.StatusBadRequest)
	case "max":
		return New(CodeInvalidInput, fmt.Sprintf("%s must be at most %s", field, e.Param()), http.StatusBadRequest)
	case "min":
		return New(CodeInvalidInput, fmt.Sprintf("%s must be at least %s", field, e.Param()), http.StatusBadRequest)
	default:
		return InvalidField(field)
	}
}
