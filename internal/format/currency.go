package format

import (
	"fmt"
	"strconv"
)

// Indian large-number units used by the tender portal.
const (
	Lakh  = 100_000
	Crore = 10_000_000
)

// Currency renders an INR amount with the portal's three-tier
// abbreviation: crores above 1 Cr, lakhs above 1 L, otherwise a
// grouped integer. Built-in PDF fonts have no rupee glyph, so the
// prefix is the ASCII "Rs".
func Currency(amount float64) string {
	switch {
	case amount >= Crore:
		return fmt.Sprintf("Rs %.2f Cr", amount/Crore)
	case amount >= Lakh:
		return fmt.Sprintf("Rs %.2f L", amount/Lakh)
	default:
		return "Rs " + GroupInt(int64(amount))
	}
}

// GroupInt formats n with comma thousand separators.
func GroupInt(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var out []byte
		for i, c := range []byte(s) {
			if i > 0 && (len(s)-i)%3 == 0 {
				out = append(out, ',')
			}
			out = append(out, c)
		}
		s = string(out)
	}

	if neg {
		return "-" + s
	}
	return s
}

// Percent renders a ratio (0..1) as a percentage with one decimal.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
