// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// PropertyTypes lists the listing categories accepted on write.
var PropertyTypes = []string{"hostel", "pg", "apartment", "other"}

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator with the domain tags registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("property_type", validatePropertyType)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// IsPropertyType reports whether value names a known property type, ignoring case.
func IsPropertyType(value string) bool {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, t := range PropertyTypes {
		if t == normalized {
			return true
		}
	}
	return false
}

func validatePropertyType(fl validator.FieldLevel) bool {
	return IsPropertyType(fl.Field().String())
}
