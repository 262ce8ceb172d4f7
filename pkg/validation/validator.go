package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps every validation failure returned by this package.
var ErrInvalid = errors.New("invalid configuration")

// validate is a singleton validator instance. Field names in messages come
// from yaml tags so errors match what users write in config files.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Struct validates s against its `validate` tags and returns every failed
// rule joined into one error wrapping ErrInvalid.
func Struct(s any) error {
	if s == nil {
		return fmt.Errorf("%w: nil value", ErrInvalid)
	}
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Var validates a single value against a tag expression such as "gte=0,lte=1".
func Var(name string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			msgs := make([]error, 0, len(validationErrs))
			for _, e := range validationErrs {
				msgs = append(msgs, describe(name, e))
			}
			return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(msgs...))
		}
		return fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	msgs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, describe(fieldPath(e), e))
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(msgs...))
}

// fieldPath drops the root struct name from a namespace like Params.steps.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(field string, e validator.FieldError) error {
	param := e.Param()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "min":
		return fmt.Errorf("%s: must be at least %s", field, param)
	case "max":
		return fmt.Errorf("%s: must not exceed %s", field, param)
	case "gt":
		return fmt.Errorf("%s: must be greater than %s, got %v", field, param, e.Value())
	case "gte":
		return fmt.Errorf("%s: must be at least %s, got %v", field, param, e.Value())
	case "lte":
		return fmt.Errorf("%s: must not exceed %s, got %v", field, param, e.Value())
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value())
	case "unique":
		return fmt.Errorf("%s: values must be unique", field)
	case "dive":
		return fmt.Errorf("%s: invalid element in array", field)
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}
