// internal/app/system/inputval/inputval.go
// Package inputval holds field validators used by the API handlers.
package inputval

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// IsValidEmail reports whether s is a plausible bare email address.
// Display-name forms ("Name <a@b>") are rejected; single-label domains
// are allowed for dev environments.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") ||
		strings.Contains(local, "..") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") ||
		strings.Contains(domain, "..") {
		return false
	}
	return true
}

// IsValidUsername reports whether s is 3-32 characters of letters,
// digits, underscores, or dashes.
func IsValidUsername(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 3 || n > 32 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// IsValidPassword enforces the minimum password length.
func IsValidPassword(s string) bool {
	return utf8.RuneCountInString(s) >= 8
}

// IsValidScore reports whether n is a 1..5 rating.
func IsValidScore(n int) bool {
	return n >= 1 && n <= 5
}
