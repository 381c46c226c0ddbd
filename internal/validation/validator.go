// Package validation provides custom validators for the application
package validation

import (
	"strings"
	"contestlet/internal/auth"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Initialize registers all custom validators
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("nospaces", validateNoSpaces); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("phone", validatePhone); err != nil {
			panic(err)
		}
	}
}

// validateNoSpaces checks if a string contains non-space characters
func validateNoSpaces(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

// validatePhone checks if a string normalizes to an E.164 phone number
func validatePhone(fl validator.FieldLevel) bool {
	return auth.IsValidPhone(fl.Field().String())
}
