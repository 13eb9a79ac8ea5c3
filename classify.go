package emspace

import (
	"unicode"

	"golang.org/x/text/width"
)

const (
	cjkUnifiedFirst = 0x4E00
	cjkUnifiedLast  = 0x9FFF
)

// IsCJK reports whether r is a CJK unified ideograph. This is the narrow
// script-adjacency predicate used by the rewriting stages.
func IsCJK(r rune) bool {
	return r >= cjkUnifiedFirst && r <= cjkUnifiedLast
}

// IsAlnum reports whether r is an ASCII letter or digit.
func IsAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// IsProblematicBoundary reports whether r next to an emphasis marker is
// likely to confuse a CommonMark renderer. It is broader than IsCJK and is
// only used for hints; it never drives a rewrite.
func IsProblematicBoundary(r rune) bool {
	switch {
	case IsCJK(r):
		return true
	case r >= 0x3000 && r <= 0x303F:
		// CJK symbols and punctuation
		return true
	case r >= 0x2018 && r <= 0x201F:
		// smart quotes
		return true
	case unicode.Is(unicode.Hangul, r):
		return true
	case r >= 0xFF00 && r <= 0xFFEF:
		k := width.LookupRune(r).Kind()
		return k == width.EastAsianFullwidth || k == width.EastAsianHalfwidth
	}
	return false
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}
