// Package validation adapts struct tag validation to domain validation errors.
package validation

import (
	"errors"
	"fmt"

	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a request struct against its `validate` tags and converts
// failures into a shared.ValidationError with one violation per bad field.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return shared.ErrInvalidInput
	}

	violations := make([]shared.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, shared.FieldViolation{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return shared.NewValidationError(violations...)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be no longer than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
