package lex

import "unicode/utf8"

func decodeRuneUTF8(b []byte) (rune, int) {
	r, width := utf8.DecodeRune(b)
	if r == utf8.RuneError && width <= 1 {
		return 0, 0
	}
	return r, width
}
