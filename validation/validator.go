package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kbukum/applesignin/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an INVALID_ARGUMENT AppError if there are validation
// errors, nil otherwise. A single error keeps its message verbatim so
// entry points can surface stable, human-readable reasons.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	if len(v.errors) == 1 {
		appErr := errors.InvalidArgument(v.errors[0].Field, v.errors[0].Message)
		appErr.Details["fields"] = v.errors
		return appErr
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	appErr := errors.InvalidArgument("", strings.Join(messages, "; "))
	appErr.Details["fields"] = v.errors
	return appErr
}

// Required checks a string is non-blank. message replaces the default
// "<field> is required" text when given.
func (v *Validator) Required(field, value string, message ...string) *Validator {
	if strings.TrimSpace(value) == "" {
		msg := field + " is required"
		if len(message) > 0 && message[0] != "" {
			msg = message[0]
		}
		v.AddError(field, msg)
	}
	return v
}

// URL checks a non-empty string parses as an absolute URL with a host.
func (v *Validator) URL(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		v.AddError(field, field+" must be an absolute URL")
	}
	return v
}

// OneOf checks if a value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Required validates a single required field and returns an error if blank.
func Required(field, value string) error {
	if appErr := New().Required(field, value).Validate(); appErr != nil {
		return appErr
	}
	return nil
}
