// Package validation wraps a shared go-playground/validator instance with
// the custom rules leapquery needs for UI signals and shortcut definitions.
//
//	type runRequest struct {
//		Limit int `json:"limit" validate:"min=1"`
//	}
//	if err := validation.ValidateStruct(&req); err != nil {
//		// err.Error() is "limit must be at least 1"
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/leapstack-labs/leapquery/pkg/query"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// RequestError collects every failed rule of one validation pass.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
		// Registration only fails for empty tags or nil functions.
		_ = validate.RegisterValidation("operator", func(fl validator.FieldLevel) bool {
			_, ok := query.ParseOperator(fl.Field().String())
			return ok
		})
	})
	return validate
}

// fieldName reports fields by their json, then koanf name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "koanf"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// ValidateStruct validates s. It returns nil when s is valid.
func ValidateStruct(s any) *RequestError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	return toRequestError(err, "")
}

// ValidateVar validates a single value against tag, reporting it as name.
// Use it for rules whose parameters are only known at runtime.
func ValidateVar(name string, v any, tag string) *RequestError {
	err := GetValidator().Var(v, tag)
	if err == nil {
		return nil
	}
	return toRequestError(err, name)
}

func toRequestError(err error, name string) *RequestError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := &RequestError{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		field := fe.Field()
		if name != "" {
			field = name
		}
		out.Fields[i] = FieldError{
			Field:   field,
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe, field),
		}
	}
	return out
}

var messages = map[string]string{
	"required": "%s is required",
	"operator": "%s is not a supported operator",
	"numeric":  "%s must be a number",
}

var messagesWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translate(fe validator.FieldError, field string) string {
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := messagesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}

	counted := ""
	switch fe.Kind() {
	case reflect.String:
		counted = " characters"
	case reflect.Slice, reflect.Map, reflect.Array:
		counted = " items"
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), counted)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), counted)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
