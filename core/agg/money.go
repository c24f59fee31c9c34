package agg

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseContractValue reads locale-formatted money text such as "R$ 1.234,56" or "1,234.56".
// A separator followed by exactly three trailing digits is a thousands separator, so
// "100.250" reads as 100250. Otherwise the last separator is the decimal point.
// A minus sign counts only when it directly precedes the number and does not follow a
// letter or digit. Digits resuming after other text, as in "1e5", make the value unparseable.
// Unparseable text yields zero and false.
func ParseContractValue(text string) (decimal.Decimal, bool) {
	runes := []rune(text)
	var b strings.Builder
	negative, started, ended := false, false, false
	for i, r := range runes {
		switch {
		case isDigit(r):
			if ended {
				return decimal.Zero, false
			}
			started = true
			b.WriteRune(r)
		case r == ',' || r == '.':
			if ended {
				continue
			}
			if started || (i+1 < len(runes) && isDigit(runes[i+1])) {
				started = true
				b.WriteRune(r)
			}
		case r == '-' && !started:
			negative = signAt(runes, i)
		case unicode.IsSpace(r):
		default:
			if started {
				ended = true
			}
		}
	}
	s := b.String()

	last := strings.LastIndexAny(s, ",.")
	var digits string
	switch {
	case last < 0:
		digits = s
	case len(s)-last-1 == 3:
		digits = stripSeparators(s)
	default:
		whole := stripSeparators(s[:last])
		frac := s[last+1:]
		digits = whole
		if frac != "" {
			digits = whole + "." + frac
		}
	}
	if digits == "" {
		return decimal.Zero, false
	}
	if digits[0] == '.' {
		digits = "0" + digits
	}

	v, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		v = v.Neg()
	}
	return v, true
}

func stripSeparators(s string) string {
	return strings.NewReplacer(",", "", ".", "").Replace(s)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// signAt reports whether the '-' at i is a sign: the number follows right away and
// the minus is not glued to a word or number before it.
func signAt(runes []rune, i int) bool {
	if i+1 >= len(runes) || !(isDigit(runes[i+1]) || runes[i+1] == ',' || runes[i+1] == '.') {
		return false
	}
	if i == 0 {
		return true
	}
	prev := runes[i-1]
	return !unicode.IsLetter(prev) && !isDigit(prev)
}
