package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all model types. Custom tags are registered once in
// init and the instance is safe for concurrent use.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("notblank", validateNotBlank)
	_ = validate.RegisterValidation("nowhitespace", validateNoWhitespace)
	_ = validate.RegisterValidation("notfuture", validateNotFuture)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateNoWhitespace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

// validateNotFuture accepts the zero time (unknown date) and any date up to
// and including today.
func validateNotFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	if t.IsZero() {
		return true
	}
	return !t.After(time.Now())
}

// Validate checks the field constraints of a film. It does not check the
// release date minimum; that rule is enforced by the film service.
func (f *Film) Validate() error {
	return describe(validate.Struct(f))
}

// Validate checks the field constraints of a user.
func (u *User) Validate() error {
	return describe(validate.Struct(u))
}

// describe turns the first validator failure into a short human-readable
// message. Non-validation errors are returned unchanged.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Errorf("%s must not be empty", fe.Field())
	case "email":
		return fmt.Errorf("%s must be a valid e-mail address", fe.Field())
	case "nowhitespace":
		return fmt.Errorf("%s must not contain whitespace", fe.Field())
	case "notfuture":
		return fmt.Errorf("%s must not be in the future", fe.Field())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}
