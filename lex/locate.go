package lex

import "github.com/wyrmlang/wyrmcore/cell"

// locateKind classifies a pre-scanned token into a literal Kind using
// its first byte's class plus its fingerprint. A negated (ok=false) result
// means the token is malformed and the caller should raise (or, under
// RELAX, inline) a syntax error naming the byte range.
func locateKind(t token, src []byte) (cell.Kind, bool) {
	text := t.text(src)
	if len(text) == 0 {
		return 0, false
	}
	first := text[0]

	switch first {
	case '[':
		return cell.KindBlock, true
	case '(':
		return cell.KindGroup, true
	case '"':
		return cell.KindString, true
	}

	// Structural prefixes that are unambiguous from the first byte
	// alone.
	switch first {
	case ':':
		if len(text) == 1 {
			return 0, false
		}
		return cell.KindGetWord, true
	case '\'':
		if len(text) == 1 {
			return 0, false
		}
		return cell.KindLitWord, true
	case '/':
		if len(text) == 1 {
			return cell.KindWord, false // bare slash is not a legal refinement
		}
		return cell.KindRefinement, true
	case '%':
		return cell.KindFile, true
	case '<':
		if text[len(text)-1] == '>' {
			return cell.KindTag, true
		}
		return 0, false
	case '#':
		return locateHash(text)
	}

	if first == '+' || first == '-' || classOf(first) == classDigit {
		if looksNumeric(text) {
			return locateNumber(text, t.fp)
		}
	}

	// Trailing ':' not otherwise consumed above means a SET-WORD, e.g.
	// "foo:" — but only if the colon is the last byte and the rest of
	// the token is a legal word.
	if text[len(text)-1] == ':' && len(text) > 1 && t.fp.has(fpColon) {
		return cell.KindSetWord, true
	}

	if t.fp.has(fpAt) {
		return cell.KindEmail, true
	}

	if looksLikeURL(text) {
		return cell.KindURL, true
	}

	return cell.KindWord, true
}

// looksNumeric reports whether a token starting with a digit or sign
// is plausibly a number-family literal rather than a word like `-foo`
// or a path-opening word (not applicable here, words never start with
// a digit in this grammar, but a leading sign may prefix a
// word-shaped token that is not a number, e.g. none of our grammar
// allows that today, so this mainly guards "+" / "-" alone).
func looksNumeric(text []byte) bool {
	i := 0
	if text[0] == '+' || text[0] == '-' {
		i = 1
	}
	return i < len(text) && isDigit(text[i])
}

func locateHash(text []byte) (cell.Kind, bool) {
	if len(text) == 1 {
		return 0, false
	}
	switch text[1] {
	case '{':
		return cell.KindBinary, true
	case '"':
		return cell.KindChar, true
	case '[':
		return cell.KindBlock, true // #[...] CONSTRUCT syntax
	default:
		return cell.KindIssue, true
	}
}

func looksLikeURL(text []byte) bool {
	schemes := [][]byte{[]byte("http://"), []byte("https://"), []byte("ftp://"), []byte("mailto:")}
	for _, sch := range schemes {
		if len(text) >= len(sch) && string(text[:len(sch)]) == string(sch) {
			return true
		}
	}
	return false
}
