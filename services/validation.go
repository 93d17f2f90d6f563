package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// emailPattern accepts local@domain.tld shapes: no Unicode whitespace,
// exactly one "@" and a dot somewhere after it.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register contactemail validation: %v", err))
	}
	if err := v.RegisterValidation("maxutf16", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			panic(fmt.Sprintf("maxutf16: bad limit %q", fl.Param()))
		}
		return utf16Len(fl.Field().String()) <= limit
	}); err != nil {
		panic(fmt.Sprintf("register maxutf16 validation: %v", err))
	}
	return v
}

// utf16Len counts UTF-16 code units, the unit browsers use for maxlength,
// so characters outside the BMP (most emoji) count twice.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if utf16.RuneLen(r) == 2 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// IsValidEmail reports whether value looks like an email address.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// ValidateContact enforces the length and format limits of a normalized submission.
// A length violation takes precedence over a malformed email.
func ValidateContact(sub ContactSubmission) error {
	if sub == nil {
		return ErrMissingFields
	}

	err := validate.Struct(sub)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate contact: %w", err)
	}

	var missing, tooLong, badEmail bool
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			missing = true
		case "maxutf16":
			tooLong = true
		case "contactemail":
			badEmail = true
		}
	}

	switch {
	case missing:
		return ErrMissingFields
	case tooLong:
		return ErrFieldTooLong
	case badEmail:
		return ErrInvalidEmail
	default:
		return fmt.Errorf("validate contact: %w", err)
	}
}
