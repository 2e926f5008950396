package session

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/policyinsight/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"abcd123!", true},
		{"A1@aaaaa", true},
		{"Passw0rd#Long", true},
		{"abc12!", false},      // too short
		{"abcdefg!", false},    // no digit
		{"12345678!", false},   // no letter
		{"abcd1234", false},    // no special
		{"abcd 123!", false},   // space not allowed
		{"abcd123!^", false},   // ^ not in the allowed set
		{"pässword1!", false},  // non-ascii letter
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrorValidation))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("0101234567"))
	assert.NoError(t, ValidatePhone("01012345678"))
	assert.Error(t, ValidatePhone("010123456"))
	assert.Error(t, ValidatePhone("010123456789"))
	assert.Error(t, ValidatePhone("010-1234-5678"))
	assert.Error(t, ValidatePhone(""))
}

func TestValidateVerificationCode(t *testing.T) {
	assert.NoError(t, ValidateVerificationCode("email code", "123456"))
	assert.Error(t, ValidateVerificationCode("email code", "12345"))
	assert.Error(t, ValidateVerificationCode("email code", "1234567"))

	err := ValidateVerificationCode("phone code", "12a456")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "phone code", ve.Field)
	assert.Equal(t, "phone code must be 6 digits", ve.Reason)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("u@x.com"))
	assert.Error(t, ValidateEmail("u@x"))
	assert.Error(t, ValidateEmail("u x@x.com"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateSignup(t *testing.T) {
	base := SignupForm{
		Email: "u@x.com", Name: "N", Phone: "01012345678",
		Password: "abcd123!", PasswordConfirm: "abcd123!",
	}

	tests := []struct {
		name  string
		edit  func(f *SignupForm)
		field string
	}{
		{"valid", func(f *SignupForm) {}, ""},
		{"confirmation omitted", func(f *SignupForm) { f.PasswordConfirm = "" }, ""},
		{"valid with codes", func(f *SignupForm) { f.EmailCode, f.PhoneCode = "123456", "654321" }, ""},
		{"bad email", func(f *SignupForm) { f.Email = "x" }, "email"},
		{"missing name", func(f *SignupForm) { f.Name = " " }, "name"},
		{"mismatch checked before policy", func(f *SignupForm) { f.Password, f.PasswordConfirm = "a", "b" }, "passwordConfirm"},
		{"weak password", func(f *SignupForm) { f.Password, f.PasswordConfirm = "abcdefgh", "abcdefgh" }, "password"},
		{"short email code", func(f *SignupForm) { f.EmailCode = "123" }, "email code"},
		{"bad phone code", func(f *SignupForm) { f.PhoneCode = "abcdef" }, "phone code"},
		{"bad phone", func(f *SignupForm) { f.Phone = "123" }, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.edit(&f)
			err := ValidateSignup(f)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
