// Package validator adapts go-playground/validator to echo and maps failures
// to domain validation errors.
package validator

import (
	"reflect"
	"strings"

	domainerrors "hrpm/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// PasswordSpecials are the characters accepted as the special class of a password.
const PasswordSpecials = "@$!%*?&"

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New builds a validator with the custom password rule and JSON field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("password", validatePassword)

	return &Validator{validate: v}
}

// Validate validates a struct and returns a *domainerrors.ValidationError listing every failing field.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validation failed")
	}

	fields := make([]domainerrors.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, domainerrors.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}

	return domainerrors.NewValidationError(fields...)
}

// IsStrongPassword requires an upper case letter, a lower case letter, a digit
// and one of PasswordSpecials.
func IsStrongPassword(password string) bool {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}

	return upper && lower && digit && special
}

func validatePassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + lowerFirst(fe.Param())
	case "oneof":
		return "must be one of " + fe.Param()
	case "password":
		return "must contain upper and lower case letters, a digit and one of " + PasswordSpecials
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	return strings.ToLower(s[:1]) + s[1:]
}
