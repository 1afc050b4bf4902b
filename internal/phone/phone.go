// Package phone normalizes patient phone numbers to E.164 so the same
// number always compares equal regardless of how it was typed.
package phone

import "strings"

// Normalize converts free-form US phone input ("(937) 896-2713",
// "1-937-896-2713", "+19378962713") to E.164. The second return is false
// when the input does not contain a plausible US number.
func Normalize(input string) (string, bool) {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 10:
		return "+1" + d, true
	case len(d) == 11 && d[0] == '1':
		return "+" + d, true
	default:
		return "", false
	}
}
