package format

import (
	"strings"
	"time"
)

var quoteReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"–", "-", // en dash
	"—", "-", // em dash
	" ", " ", // non-breaking space
)

// Clean prepares arbitrary text for a core-font PDF cell: smart quotes
// and dashes become their ASCII forms, whitespace runs collapse to a
// single space, and anything outside printable ASCII is stripped
// (the built-in Latin fonts cannot render it). Must run before any
// width estimation, since layout budgets are counted in characters.
func Clean(s string) string {
	s = quoteReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			space = true
			continue
		}
		if r < 0x20 || r > 0x7E {
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Truncate limits s to max characters, appending "..." only when a cut
// actually happened. max below 4 degenerates to a hard cut.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// Date renders timestamps the way the report shows them everywhere.
func Date(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// DateTime is the long form used on the cover page.
func DateTime(t time.Time) string {
	return t.Format("02 Jan 2006, 03:04 PM")
}
