// Package validation evaluates declarative field annotations and accumulates
// named field errors without short-circuiting.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to the ordered list of messages recorded for it.
type Errors map[string][]string

// Add appends a message for the field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge folds other into e, preserving message order.
func (e Errors) Merge(other Errors) {
	for field, messages := range other {
		e[field] = append(e[field], messages...)
	}
}

// Any reports whether at least one error was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their wire name so errors line up with payloads.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	// The built-in required tag accepts whitespace-only strings; notblank
	// closes that gap for fields that must carry visible content.
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.String {
		return strings.TrimSpace(field.String()) != ""
	}
	return !field.IsZero()
}

// Struct evaluates `validate` annotations on v and returns the accumulated
// field errors. A nil result map is never returned.
func Struct(v any) Errors {
	result := Errors{}
	err := validate.Struct(v)
	if err == nil {
		return result
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		result.Add("", err.Error())
		return result
	}
	for _, fieldErr := range validationErrs {
		result.Add(fieldErr.Field(), messageFor(fieldErr))
	}
	return result
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", err.Field())
	default:
		return fmt.Sprintf("The %s field is invalid.", err.Field())
	}
}
