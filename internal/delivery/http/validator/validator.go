// Package validator adapts go-playground/validator to echo's Validator hook.
package validator

import (
	"strings"

	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/errors"

	"github.com/go-playground/validator/v10"
)

const missingFieldsMessage = "Missing required fields"

// CustomValidator translates struct tag failures into domain validation errors.
type CustomValidator struct {
	validator *validator.Validate
}

// New returns an echo.Validator whose failures are domain validation errors,
// with required-field misses reported separately from malformed values.
func New() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate reports the first class of failure: absent required keys win over
// any other tag so clients see the same message for `{}` and partial bodies.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate request")
	}

	var missing, invalid []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())

			continue
		}
		invalid = append(invalid, fe.Field())
	}

	if len(missing) > 0 {
		return domainerrors.NewValidationError(entity.RuleRequiredFields,
			missingFieldsMessage+": "+strings.Join(missing, ", "))
	}

	return domainerrors.NewValidationError(entity.RuleMalformedBody,
		"Invalid fields: "+strings.Join(invalid, ", "))
}
