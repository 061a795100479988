// Package phone normalizes Korean mobile numbers for storage and lookup.
package phone

import "strings"

const krCountryPrefix = "+82 "

// ToInternational converts an 11-digit local mobile number starting with 010
// into the stored international form: "+82 " followed by the 10 digits after
// the leading zero. Non-digit separators are ignored when matching, so
// "010-1234-5678" converts too. Input whose digits do not form an 11-digit
// 010 number is returned verbatim, so already normalized numbers and foreign
// formats pass through.
func ToInternational(raw string) string {
	digits := stripSeparators(raw)
	if len(digits) != 11 || !strings.HasPrefix(digits, "010") {
		return raw
	}
	return krCountryPrefix + digits[1:]
}

func stripSeparators(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
