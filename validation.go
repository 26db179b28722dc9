package dirauth

import (
	"regexp"
	"strings"
)

const (
	phoneMinLength = 10
	phoneMaxLength = 32
)

var phonePattern = regexp.MustCompile(`^[0-9\-]+$`)

// validatePhone applies the platform phone rules: 10–32 characters, digits
// and dashes only. Returns the trimmed value.
func validatePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if l := len(phone); l < phoneMinLength || l > phoneMaxLength {
		return "", invalid("Phone must be between %d and %d characters.", phoneMinLength, phoneMaxLength)
	}
	if !phonePattern.MatchString(phone) {
		return "", invalid("Phone may contain only digits and dashes.")
	}
	return phone, nil
}
