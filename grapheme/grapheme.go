// Package grapheme estimates perceived character counts for strings that may
// contain compound emoji. Editors move the caret by perceived glyph, not by
// code point, so the left-arrow repositioning pass needs this estimate.
package grapheme

const (
	zeroWidthJoiner = 0x200d

	// Fitzpatrick skin tone modifiers combine with the preceding emoji into
	// a single perceived glyph.
	fitzpatrickFirst = 0x1f3fb
	fitzpatrickLast  = 0x1f3ff
)

// PrintableCharacterCount returns the estimated number of perceived
// characters in s. A zero-width joiner merges the code points on either side
// of it, so each occurrence reduces the count by 2; each Fitzpatrick modifier
// reduces it by 1. The estimate is clamped to zero and never fails, including
// on malformed input (invalid bytes decode as U+FFFD and count as one).
func PrintableCharacterCount(s string) int {
	codePoints := []rune(s)
	count := len(codePoints)
	for _, c := range codePoints {
		switch {
		case c == zeroWidthJoiner:
			count -= 2
		case c >= fitzpatrickFirst && c <= fitzpatrickLast:
			count--
		}
	}
	if count < 0 {
		return 0
	}
	return count
}
