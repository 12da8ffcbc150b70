package contact

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

const phoneLen = 10

var (
	// Only the start is anchored: a valid address followed by trailing
	// text still passes ValidateEmail.
	emailPrefixRe = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	emailStrictRe = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

// ValidatePhone reports whether phone is exactly ten decimal digits.
// Separators and country codes are not accepted.
func ValidatePhone(phone string) bool {
	if utf8.RuneCountInString(phone) != phoneLen {
		return false
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidateEmail reports whether email starts with local@domain.tld.
func ValidateEmail(email string) bool {
	return emailPrefixRe.MatchString(email)
}

// ValidateEmailStrict is ValidateEmail with the end of the string anchored too.
func ValidateEmailStrict(email string) bool {
	return emailStrictRe.MatchString(email)
}

// Validator checks phone and email values before they are persisted.
type Validator struct {
	StrictEmail bool
}

// Check returns a *ValidationError for the first invalid field, or nil.
func (v Validator) Check(phone, email string) error {
	if !ValidatePhone(phone) {
		return &ValidationError{Field: FieldPhone, Value: phone}
	}
	if !v.ValidEmail(email) {
		return &ValidationError{Field: FieldEmail, Value: email}
	}
	return nil
}

// ValidEmail applies the configured email rule.
func (v Validator) ValidEmail(email string) bool {
	if v.StrictEmail {
		return ValidateEmailStrict(email)
	}
	return ValidateEmail(email)
}
