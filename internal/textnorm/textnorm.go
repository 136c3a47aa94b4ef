// Package textnorm canonicalizes OCR and configured text before matching.
//
// Only full-width digits, full-width Latin letters and the ideographic space
// are folded to ASCII. Everything else, including kana, kanji, punctuation and
// letter case, is left untouched.
package textnorm

import "strings"

const (
	ideographicSpace = '\u3000'

	fullwidthDigitZero = '\uFF10'
	fullwidthDigitNine = '\uFF19'
	fullwidthUpperA    = '\uFF21'
	fullwidthUpperZ    = '\uFF3A'
	fullwidthLowerA    = '\uFF41'
	fullwidthLowerZ    = '\uFF5A'
)

// Normalize maps full-width digits, Latin letters and U+3000 to their ASCII
// forms in a single pass.
func Normalize(s string) string {
	return strings.Map(fold, s)
}

func fold(r rune) rune {
	switch {
	case r == ideographicSpace:
		return ' '
	case r >= fullwidthDigitZero && r <= fullwidthDigitNine:
		return '0' + (r - fullwidthDigitZero)
	case r >= fullwidthUpperA && r <= fullwidthUpperZ:
		return 'A' + (r - fullwidthUpperA)
	case r >= fullwidthLowerA && r <= fullwidthLowerZ:
		return 'a' + (r - fullwidthLowerA)
	}
	return r
}
