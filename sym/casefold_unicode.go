package sym

import "unicode"

// toLowerUnicode handles the ≥0x80 range with full Unicode case
// folding, rather than a byte-for-byte Latin-1 upper/lower table.
func toLowerUnicode(r rune) rune {
	return unicode.ToLower(r)
}
