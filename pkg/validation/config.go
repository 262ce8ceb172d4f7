package validation

import (
	"errors"
	"fmt"
)

// FieldError is one failed rule, addressed by the dotted path of the field
// as it is written in a config file.
type FieldError struct {
	Field string
	Msg   string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Msg
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ConfigValidator collects the rules struct tags cannot express, mostly
// ones relating two fields or applying only while a feature is enabled.
// Every failure is kept; Validate reports them together.
type ConfigValidator struct {
	section string
	errs    []error
}

// NewConfigValidator starts a rule set. A non-empty section prefixes every
// field path.
func NewConfigValidator(section string) *ConfigValidator {
	return &ConfigValidator{section: section}
}

func (cv *ConfigValidator) path(field string) string {
	if cv.section == "" {
		return field
	}
	return cv.section + "." + field
}

func (cv *ConfigValidator) fail(field, format string, args ...any) {
	cv.errs = append(cv.errs, &FieldError{Field: cv.path(field), Msg: fmt.Sprintf(format, args...)})
}

// Required rejects an empty string.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.fail(field, "required")
	}
	return cv
}

// Positive rejects values <= 0.
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		cv.fail(field, "%d must be positive", value)
	}
	return cv
}

// Below requires value < limit, where limit is the value of limitField.
func (cv *ConfigValidator) Below(field string, value int, limitField string, limit int) *ConfigValidator {
	if value >= limit {
		cv.fail(field, "%d must be below %s (%d)", value, limitField, limit)
	}
	return cv
}

// AtMost requires value <= limit, where limit is the value of limitField.
func (cv *ConfigValidator) AtMost(field string, value int, limitField string, limit int) *ConfigValidator {
	if value > limit {
		cv.fail(field, "%d exceeds %s (%d)", value, limitField, limit)
	}
	return cv
}

// Custom records the error fn returns, if any, against field.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errs = append(cv.errs, &FieldError{Field: cv.path(field), Err: err})
	}
	return cv
}

// When applies rules only if condition holds.
func (cv *ConfigValidator) When(condition bool, rules func(*ConfigValidator)) *ConfigValidator {
	if condition {
		rules(cv)
	}
	return cv
}

// Validate returns every failure joined and wrapped in ErrInvalid, or nil.
func (cv *ConfigValidator) Validate() error {
	if len(cv.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(cv.errs...))
}
