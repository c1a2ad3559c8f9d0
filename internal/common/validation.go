package common

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/policy-renamer/constants"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// Validator provides validation utilities
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value interface{}, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// ErrorMessage returns a combined error message as string
func (v *Validator) ErrorMessage() string {
	if !v.HasErrors() {
		return ""
	}

	var messages []string
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value interface{}) *ValidationError

// Required - Common validation rules
func Required(fieldName string, value interface{}) *ValidationError {
	if value == nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	}

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
		}
	case *string:
		if v == nil || strings.TrimSpace(*v) == "" {
			return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
		}
	}
	return nil
}

func Positive(fieldName string, value interface{}) *ValidationError {
	switch v := value.(type) {
	case int:
		if v <= 0 {
			return &ValidationError{Field: fieldName, Value: value, Message: "must be > 0"}
		}
	case float64:
		if v <= 0 {
			return &ValidationError{Field: fieldName, Value: value, Message: "must be > 0"}
		}
	}
	return nil
}

// Percent accepts integer scores in [0, 100].
func Percent(fieldName string, value interface{}) *ValidationError {
	if v, ok := value.(int); ok && (v < 0 || v > 100) {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be between 0 and 100"}
	}
	return nil
}

// Fraction accepts ratios in [0, 1].
func Fraction(fieldName string, value interface{}) *ValidationError {
	if v, ok := value.(float64); ok && (v < 0 || v > 1) {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be between 0 and 1"}
	}
	return nil
}

func NotEmpty(fieldName string, value interface{}) *ValidationError {
	if v, ok := value.([]string); ok && len(v) == 0 {
		return &ValidationError{Field: fieldName, Value: value, Message: "must not be empty"}
	}
	return nil
}

// KnownCategory accepts category names and synonyms other than UNKNOWN.
func KnownCategory(fieldName string, value interface{}) *ValidationError {
	if v, ok := value.(string); ok {
		if cat, ok := constants.Canonicalize(v); !ok || cat == constants.Unknown {
			return &ValidationError{Field: fieldName, Value: value, Message: "must name a known category"}
		}
	}
	return nil
}
