package session

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/policyinsight/internal/common"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10,11}$`)
	codeRe  = regexp.MustCompile(`^[0-9]{6}$`)
)

const passwordSpecials = "@$!%*#?&"

// ValidationError reports a rejected input field. It unwraps to
// common.ErrorValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return common.ErrorValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func ValidateEmail(email string) error {
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return invalid("email", "invalid email address")
	}
	return nil
}

// ValidatePassword enforces at least 8 characters from letters, digits and
// @$!%*#?&, with at least one of each class.
func ValidatePassword(password string) error {
	const reason = "password must be at least 8 characters and include a letter, a digit and one of " + passwordSpecials

	if len(password) < 8 {
		return invalid("password", reason)
	}

	var letter, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return invalid("password", reason)
		}
	}

	if !letter || !digit || !special {
		return invalid("password", reason)
	}
	return nil
}

func ValidatePasswordConfirm(password, confirm string) error {
	if password != confirm {
		return invalid("passwordConfirm", "passwords do not match")
	}
	return nil
}

// ValidatePhone accepts 10 or 11 digits and nothing else.
func ValidatePhone(phone string) error {
	if !phoneRe.MatchString(phone) {
		return invalid("phone", "phone must be 10-11 digits")
	}
	return nil
}

func ValidateVerificationCode(field, code string) error {
	if !codeRe.MatchString(code) {
		return invalid(field, fmt.Sprintf("%s must be 6 digits", field))
	}
	return nil
}

// SignupForm is the registration input. PasswordConfirm and the
// verification codes are only checked when present.
type SignupForm struct {
	Email           string
	Name            string
	Phone           string
	Password        string
	PasswordConfirm string
	EmailCode       string
	PhoneCode       string
}

// ValidateSignup checks the form in the order the registration page did and
// returns the first failure.
func ValidateSignup(f SignupForm) error {
	if err := ValidateEmail(f.Email); err != nil {
		return err
	}
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name", "name is required")
	}
	if f.PasswordConfirm != "" {
		if err := ValidatePasswordConfirm(f.Password, f.PasswordConfirm); err != nil {
			return err
		}
	}
	if err := ValidatePassword(f.Password); err != nil {
		return err
	}
	if f.EmailCode != "" {
		if err := ValidateVerificationCode("email code", f.EmailCode); err != nil {
			return err
		}
	}
	if f.PhoneCode != "" {
		if err := ValidateVerificationCode("phone code", f.PhoneCode); err != nil {
			return err
		}
	}
	return ValidatePhone(f.Phone)
}
