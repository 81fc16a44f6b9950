package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/ttacon/libphonenumber"
)

var (
	ErrInvalidCustomerName = fmt.Errorf("%w: invalid customer name", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
)

const (
	// MaxCustomerNameLength counts characters, so Devanagari and Gujarati names get the
	// same room as Latin ones.
	MaxCustomerNameLength = 255

	// PhoneRegion applies to numbers written without a country code.
	PhoneRegion = "IN"

	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ValidateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidCustomerName)
	case n > MaxCustomerNameLength:
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidCustomerName, MaxCustomerNameLength)
	}
	return nil
}

// NormalizePhone returns phone in E.164. Local numbers such as "098765 43210" are read
// as Indian.
func NormalizePhone(phone string) (string, error) {
	num, err := libphonenumber.Parse(strings.TrimSpace(phone), PhoneRegion)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhoneNumber, err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", ErrInvalidPhoneNumber
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

// ValidateEmail accepts a bare address only; display-name forms are rejected.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePagination turns a 1-based page and page size into a clamped limit and offset.
func ValidatePagination(page, limit int) (int, int) {
	limit = min(max(limit, 0), MaxPageSize)
	if limit == 0 {
		limit = DefaultPageSize
	}
	page = max(page, 1)
	return limit, (page - 1) * limit
}
