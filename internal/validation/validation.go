// Package validation holds the field rules shared by the search panel and the REST service.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// New returns a validator with the contact rules registered.
func New() *validator.Validate {
	validate := validator.New()
	if err := RegisterValidators(validate); err != nil {
		// The rule names are constants, so this only fails on a programming error.
		panic(err)
	}
	return validate
}

// RegisterValidators adds the contact_email, contact_phone and iso_date rules.
func RegisterValidators(validate *validator.Validate) error {
	err := validate.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("contact_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		return err
	}

	return validate.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		return datePattern.MatchString(fl.Field().String())
	})
}
