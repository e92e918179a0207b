package middleware

import (
	"quiz-gate/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	if v == nil {
		v = validation.NewValidator()
	}
	return &ValidationMiddleware{validator: v}
}

// ValidatePathIDs rejects requests whose named path parameters are not valid
// resource identifiers.
func (vm *ValidationMiddleware) ValidatePathIDs(params ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, p := range params {
			if errs := vm.validator.ValidateResourceID(p, c.Params(p)); len(errs) > 0 {
				return errs // This will be handled by ErrorHandler middleware
			}
		}
		return c.Next()
	}
}
