// Package contact defines the contact record and its field validation rules.
package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel reasons for caller-checkable validation failures.
var (
	ErrMissingField = errors.New("contact: missing field")
	ErrInvalidPhone = errors.New("contact: invalid phone format")
	ErrInvalidEmail = errors.New("contact: invalid email format")
)

// emailPattern accepts local@domain.tld shapes without attempting full
// RFC 5322 parsing.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// digitsPattern accepts digit-only strings.
var digitsPattern = regexp.MustCompile(`^\d+$`)

// Contact is a single address-book record.
type Contact struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
}

// String renders the contact for plain listings.
func (c Contact) String() string {
	return fmt.Sprintf("%s  %s  %s", c.Name, c.Phone, c.Email)
}

// Rules holds tunable validation settings.
type Rules struct {
	// PhoneMinDigits is the minimum number of digits a phone must have.
	PhoneMinDigits int
}

// DefaultRules returns the validation rules used when no config overrides them.
func DefaultRules() Rules {
	return Rules{PhoneMinDigits: 5}
}

// ValidationError reports which field failed and why. It unwraps to one of
// the sentinel reasons so callers can branch with errors.Is.
type ValidationError struct {
	Field  string // "name", "phone", or "email"
	Reason error
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact: %s: %s", e.Field, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// Validate checks a candidate contact against the field format rules.
// It returns nil when every field is acceptable, or a *ValidationError
// naming the first offending field. It has no side effects and does not
// modify the candidate.
func Validate(c Contact, rules Rules) error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Reason: ErrMissingField, Detail: "name cannot be empty"}
	}

	phone := strings.TrimSpace(c.Phone)
	if phone == "" {
		return &ValidationError{Field: "phone", Reason: ErrMissingField, Detail: "phone cannot be empty"}
	}
	if !digitsPattern.MatchString(phone) || len(phone) < rules.PhoneMinDigits {
		return &ValidationError{
			Field:  "phone",
			Reason: ErrInvalidPhone,
			Detail: fmt.Sprintf("phone must contain only digits and be at least %d digits long", rules.PhoneMinDigits),
		}
	}

	email := strings.TrimSpace(c.Email)
	if email == "" {
		return &ValidationError{Field: "email", Reason: ErrMissingField, Detail: "email cannot be empty"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Reason: ErrInvalidEmail, Detail: "email must look like local@domain.tld"}
	}

	return nil
}

// Normalize returns a copy of c with surrounding whitespace trimmed from
// every field. The store keeps normalized records so search and duplicate
// checks compare like with like.
func Normalize(c Contact) Contact {
	return Contact{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
	}
}
