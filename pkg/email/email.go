// Package email holds small helpers for treating email addresses as person
// identifiers: normalization for matching and name derivation for provisioning.
package email

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes an email for identity comparison. Two addresses
// identify the same person iff their normalized forms are equal.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Equal compares two emails case-insensitively.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b) && Normalize(a) != ""
}

// DeriveNameFromEmail splits an email local part into a first and last name.
// Used when provisioning a login identity for a staff record that has no name
// on file.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "User", "User"
	}

	first := capitalize(parts[0])
	last := "User"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
