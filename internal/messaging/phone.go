package messaging

import (
	"regexp"
	"strings"
)

var phoneDigitsRe = regexp.MustCompile(`\d+`)

// NormalizeSender maps a phone number as an operator might type it
// ("+94 77 123 4567") to the digits-only form WhatsApp uses for sender ids.
// Values without digits are returned trimmed and otherwise untouched.
func NormalizeSender(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	digits := strings.Join(phoneDigitsRe.FindAllString(value, -1), "")
	if digits == "" {
		return value
	}
	return digits
}
