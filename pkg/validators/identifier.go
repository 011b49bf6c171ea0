// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"regexp"
)

// IdentifierKind tells which account column an identifier belongs to
type IdentifierKind int

const (
	Invalid IdentifierKind = iota
	Email
	Phone
)

func (k IdentifierKind) String() string {
	switch k {
	case Email:
		return "email"
	case Phone:
		return "phone"
	}

	return "invalid"
}

var (
	ErrIdentifierEmpty   = errors.New("no email or phone number provided")
	ErrIdentifierInvalid = errors.New("invalid email or phone number format")

	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// International (optional +, 2-15 digits) or local format starting with 0
	phoneRe = regexp.MustCompile(`^(\+?[1-9]\d{1,14}|0\d{9,15})$`)
)

// Classify decides whether s is an email address or a phone number. Email
// wins when both patterns match
func Classify(s string) IdentifierKind {
	switch {
	case emailRe.MatchString(s):
		return Email
	case phoneRe.MatchString(s):
		return Phone
	}

	return Invalid
}

func IdentifierValidator(s string) (IdentifierKind, error) {
	if s == "" {
		return Invalid, ErrIdentifierEmpty
	}

	k := Classify(s)
	if k == Invalid {
		return Invalid, ErrIdentifierInvalid
	}

	return k, nil
}
