package lex

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/cell"
)

// pathForm holds a compound path token split into its outer kind and
// plain per-segment text, with any GET-/LIT-/SET- marker stripped off
// since it becomes the path's own kind rather than one element's.
type pathForm struct {
	outer    cell.Kind
	segments [][]byte
}

// splitPath applies the path-opening rule — a path opens whenever a
// WORD!/GET-WORD!/LIT-WORD! or an opening / is followed immediately by
// / — by treating the whole slash-joined run captured by prescanToken
// as one compound token, then separating it into the outer path kind
// and its segments.
func splitPath(text []byte) (pathForm, error) {
	outer := cell.KindPath
	body := text

	switch {
	case len(body) > 0 && body[0] == ':':
		outer = cell.KindGetPath
		body = body[1:]
	case len(body) > 0 && body[0] == '\'':
		outer = cell.KindLitPath
		body = body[1:]
	}
	if len(body) > 0 && body[len(body)-1] == ':' {
		outer = cell.KindSetPath
		body = body[:len(body)-1]
	}

	parts := bytes.Split(body, []byte("/"))
	if len(parts) < 2 {
		return pathForm{}, errors.Errorf("lex: %q does not split into a compound path", text)
	}

	// A marker may also appear on the trailing segment alone, e.g.
	// "foo/bar/:baz" produces a GET-PATH of three plain words, so we
	// promote it to the outer kind here and strip it from the segment.
	last := len(parts) - 1
	if outer == cell.KindPath && len(parts[last]) > 0 {
		switch parts[last][0] {
		case ':':
			outer = cell.KindGetPath
			parts[last] = parts[last][1:]
		case '\'':
			outer = cell.KindLitPath
			parts[last] = parts[last][1:]
		}
	}

	for _, p := range parts {
		if len(p) == 0 {
			return pathForm{}, errors.Errorf("lex: empty path segment in %q", text)
		}
	}

	return pathForm{outer: outer, segments: parts}, nil
}

// segmentCell builds the plain WORD!/INTEGER! cell a path segment
// denotes — path elements never carry their own GET-/LIT-/SET- marker
// independently of the path's own kind in this implementation.
func (lx *Lexer) segmentCell(seg []byte) (cell.Cell, error) {
	var c cell.Cell
	if seg[0] == '(' {
		return cell.Cell{}, errors.New("lex: group-valued path segments are not supported by this scanner")
	}
	if allDigits(seg) {
		n, err := strconv.ParseInt(string(seg), 10, 64)
		if err != nil {
			return cell.Cell{}, errors.Wrapf(err, "lex: malformed path segment %q", seg)
		}
		c.SetInt64(n)
		return c, nil
	}
	s := lx.interner.Intern(string(seg))
	c.SetWord(cell.KindWord, s)
	return c, nil
}

func allDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if !isDigit(c) {
			return false
		}
	}
	return true
}
