// Package validation checks submitted forms with go-playground/validator and
// turns failures into per-field messages for re-rendering.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, f := range fields {
		messages = append(messages, fmt.Sprintf("%s: %s", f, fe[f]))
	}
	return strings.Join(messages, "; ")
}

// Add records a message for field unless one is already present.
func (fe FieldErrors) Add(field, message string) {
	if _, ok := fe[field]; !ok {
		fe[field] = message
	}
}

// GetValidator returns the shared validator. Field names in errors come from
// the `form` struct tag.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct returns nil when s is valid.
func ValidateStruct(s any) FieldErrors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return FieldErrors{"form": err.Error()}
	}

	fe := FieldErrors{}
	for _, e := range validationErrs {
		fe.Add(e.Field(), message(e))
	}
	return fe
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "gte":
		return fmt.Sprintf("Number must be at least %s.", e.Param())
	case "lte":
		return fmt.Sprintf("Number must be at most %s.", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Field cannot be longer than %s characters.", e.Param())
		}
		return fmt.Sprintf("Number must be at most %s.", e.Param())
	default:
		return fmt.Sprintf("Invalid value (%s).", e.Tag())
	}
}
