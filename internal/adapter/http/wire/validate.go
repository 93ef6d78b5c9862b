// Package wire holds the JSON shapes exchanged with the collaborator services
// and the checks applied to them before they reach the domain.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"gitlab.com/judge-session.net/internal/static/errs"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func translateValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Namespace())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", e.Namespace(), e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Namespace(), e.Param())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", e.Namespace(), e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", e.Namespace(), e.Param())
	default:
		return fmt.Sprintf("validation failed for %s with rule %s", e.Namespace(), e.Tag())
	}
}

// Validate checks v against its validate tags. The first violation is
// reported, wrapped in ErrMalformedResponse.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return fmt.Errorf("%w: %s", errs.ErrMalformedResponse, translateValidationError(validationErrors[0]))
	}
	return fmt.Errorf("%w: %w", errs.ErrMalformedResponse, err)
}

// Decode unmarshals body into v
func Decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrMalformedResponse, err)
	}
	return nil
}
