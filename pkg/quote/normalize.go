package quote

import (
	"regexp"
	"strings"
)

var adIDPattern = regexp.MustCompile(`^MLB[0-9]+$`)

// NormalizeAdID canonicalizes a raw ad ID token into "MLB" + digits form.
// It trims whitespace, drops every character that is not an uppercase M, L,
// B or a decimal digit, and prepends "MLB" when the prefix is missing. The
// strip-then-prefix order is part of the contract: "123" becomes "MLB123",
// and stray M/L/B characters anywhere in the token fold into the prefix
// scan. Returns ok=false when the result is not MLB followed by digits.
func NormalizeAdID(raw string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == 'M' || r == 'L' || r == 'B':
			return r
		}
		return -1
	}, strings.TrimSpace(raw))

	if !strings.HasPrefix(cleaned, "MLB") {
		cleaned = "MLB" + cleaned
	}
	if !adIDPattern.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}

// NormalizeZipCode canonicalizes a Brazilian ZIP code to its 8-digit form.
// Formatting characters are dropped ("01.001-000" becomes "01001000");
// anything that does not leave exactly 8 digits is rejected.
func NormalizeZipCode(raw string) (string, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strings.TrimSpace(raw))

	if len(digits) != 8 {
		return "", false
	}
	return digits, true
}
