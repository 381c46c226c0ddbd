package auth

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizePhone converts a user-supplied phone number to E.164. Bare
// ten-digit numbers are assumed to be US/Canada. Formatting characters
// (spaces, dashes, dots, parentheses) are tolerated.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	hasPlus := strings.HasPrefix(raw, "+")

	var digits strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == '+' || r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// formatting only
		default:
			return "", fmt.Errorf("invalid phone number %q", raw)
		}
	}
	d := digits.String()

	switch {
	case hasPlus:
		if len(d) < 8 || len(d) > 15 {
			return "", fmt.Errorf("invalid phone number %q", raw)
		}
		return "+" + d, nil
	case len(d) == 10:
		return "+1" + d, nil
	case len(d) == 11 && d[0] == '1':
		return "+" + d, nil
	default:
		return "", fmt.Errorf("invalid phone number %q", raw)
	}
}

// IsValidPhone reports whether raw normalizes to E.164.
func IsValidPhone(raw string) bool {
	_, err := NormalizePhone(raw)
	return err == nil
}
