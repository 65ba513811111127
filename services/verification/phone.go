package verification

import (
	"fmt"
	"strings"
	"unicode"
)

// countryRule bounds the national significant number length for a dialing
// prefix. Prefixes not listed fall back to the ITU-T E.164 general bounds.
type countryRule struct {
	prefix string
	min    int
	max    int
}

var countryRules = []countryRule{
	{prefix: "1", min: 10, max: 10},  // NANP
	{prefix: "44", min: 9, max: 10},  // UK
	{prefix: "49", min: 9, max: 11},  // Germany
	{prefix: "90", min: 10, max: 10}, // Türkiye
	{prefix: "971", min: 8, max: 9},  // UAE
	{prefix: "966", min: 8, max: 9},  // Saudi Arabia
}

// NormalizePhone validates a phone number against country-code rules and
// returns it in canonical +<digits> form.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		if r == ' ' || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return 'x' // any other rune poisons the number
	}, strings.TrimSpace(raw))

	if cleaned == "" || !strings.HasPrefix(cleaned, "+") || strings.ContainsRune(cleaned, 'x') {
		return "", ErrInvalidPhoneFormat
	}
	digits := cleaned[1:]
	if strings.Contains(digits, "+") {
		return "", ErrInvalidPhoneFormat
	}
	if len(digits) < 8 || len(digits) > 15 || digits[0] == '0' {
		return "", ErrInvalidPhoneFormat
	}

	for _, rule := range countryRules {
		if strings.HasPrefix(digits, rule.prefix) {
			national := len(digits) - len(rule.prefix)
			if national < rule.min || national > rule.max {
				return "", fmt.Errorf("%w: expected %d-%d digits after +%s",
					ErrInvalidPhoneFormat, rule.min, rule.max, rule.prefix)
			}
			break
		}
	}
	return "+" + digits, nil
}
