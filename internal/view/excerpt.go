package view

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultExcerptRunes is the card body length used when none is configured.
const DefaultExcerptRunes = 120

const ellipsis = "…"

// Excerpt normalises body to NFC and shortens it to at most max runes,
// never splitting a base character from its combining marks. Shortened
// text ends with an ellipsis. max <= 0 disables truncation.
func Excerpt(body string, max int) string {
	s := norm.NFC.String(strings.TrimSpace(body))
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}

	cut := 0
	for n := 0; n < max; n++ {
		_, size := utf8.DecodeRuneInString(s[cut:])
		cut += size
	}
	for cut < len(s) {
		r, size := utf8.DecodeRuneInString(s[cut:])
		if !unicode.Is(unicode.Mn, r) {
			break
		}
		cut += size
	}
	if cut == len(s) {
		return s
	}
	return strings.TrimRightFunc(s[:cut], unicode.IsSpace) + ellipsis
}
