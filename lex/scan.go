package lex

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/series"
	"github.com/wyrmlang/wyrmcore/sym"
)

// Scan turns a full source buffer into a top-level BLOCK! series by
// driving token location in a loop. relax selects error-recovery mode:
// true inlines a malformed token as an ERROR!-kind cell rather
// than stopping the scan.
func Scan(src []byte, interner *sym.Interner, mgr *pool.Manager, manuals *series.Manuals, relax bool) (*series.Series, error) {
	lx := New(src, interner, mgr, manuals, relax)
	return lx.scanArrayBody(0)
}

// scanArrayBody drives the token loop for one array nesting level. term
// is the closing delimiter expected ( ']' or ')' ), or 0 for the
// top-level scan which runs to EOF.
func (lx *Lexer) scanArrayBody(term byte) (*series.Series, error) {
	var cells []cell.Cell

	for {
		lx.skipSpace()
		if lx.eof() {
			if term != 0 {
				return nil, errors.Errorf("lex: unterminated block/group, expected %q", term)
			}
			break
		}
		b := lx.peek()
		if term != 0 && b == term {
			lx.pos++
			break
		}
		if b == ']' || b == ')' {
			return nil, errors.Errorf("lex: unexpected %q at line %d", b, lx.line)
		}

		switch b {
		case '[':
			lx.pos++
			child, err := lx.scanArrayBody(']')
			if err != nil {
				return nil, err
			}
			var c cell.Cell
			c.SetSeries(cell.KindBlock, child, 0)
			cells = append(cells, c)
			continue
		case '(':
			lx.pos++
			child, err := lx.scanArrayBody(')')
			if err != nil {
				return nil, err
			}
			var c cell.Cell
			c.SetSeries(cell.KindGroup, child, 0)
			cells = append(cells, c)
			continue
		}

		c, err := lx.scanAtom()
		if err != nil {
			if lx.relax {
				cells = append(cells, makeErrorCell(err))
				lx.recoverToDelimiter()
				continue
			}
			return nil, err
		}
		cells = append(cells, c)
	}

	return lx.buildArray(cells)
}

// recoverToDelimiter is RELAX mode's resynchronization: skip forward to
// the next whitespace or structural byte so one malformed token does
// not cascade into further spurious errors.
func (lx *Lexer) recoverToDelimiter() {
	for !lx.eof() {
		b := lx.peek()
		if isSpace(b) || b == '\n' || classOf(b) == classDelimit {
			return
		}
		lx.pos++
	}
}

// makeErrorCell builds the inline ERROR!-kind placeholder RELAX mode
// substitutes for a token that failed to scan.
// The underlying Go error is carried as the cell's reference payload,
// not as an rterr.Error, since the full ERROR! context shape belongs
// to rterr, not the scanner.
func makeErrorCell(cause error) cell.Cell {
	var c cell.Cell
	c.Reset(cell.KindError)
	c.SetRef(cause)
	return c
}

// buildArray copies the collected cells into a freshly allocated arrayed
// series, reversing nothing (cells is already in source order — a
// push-then-reverse data-stack implementation is an internal detail,
// not an externally visible ordering).
func (lx *Lexer) buildArray(cells []cell.Cell) (*series.Series, error) {
	arr, err := series.NewArray(lx.mgr, lx.manuals, len(cells))
	if err != nil {
		return nil, err
	}
	for i := range cells {
		arr.At(i).CopyFrom(&cells[i])
	}
	arr.SetLen(len(cells))
	return arr, nil
}

// scanAtom scans exactly one non-array-opening value: a literal, a
// word-family token, a string, a binary/char literal, or a compound
// path built from a slash-joined run of the above.
func (lx *Lexer) scanAtom() (cell.Cell, error) {
	t, ok := lx.prescanToken()
	if !ok {
		return cell.Cell{}, errors.New("lex: scanAtom called at EOF")
	}
	text := t.text(lx.src)

	switch text[0] {
	case '"':
		runes, end, err := lx.scanQuoteString()
		if err != nil {
			return cell.Cell{}, err
		}
		lx.pos = end
		return lx.newStringCell(cell.KindString, runes)
	case '{':
		runes, end, err := lx.scanBraceString()
		if err != nil {
			return cell.Cell{}, err
		}
		lx.pos = end
		return lx.newStringCell(cell.KindString, runes)
	case '#':
		if len(text) == 1 {
			return lx.scanHashLiteral()
		}
	}

	kind, ok := locateKind(t, lx.src)
	if !ok {
		return cell.Cell{}, errors.Errorf("lex: malformed token %q at line %d", text, t.line)
	}

	if isPathOpener(kind) && t.fp.has(fpSlash) {
		return lx.buildPathCell(text)
	}

	return lx.makeLiteralCell(kind, text)
}

// isPathOpener reports whether kind is one of the element kinds that
// can lead a compound path.
func isPathOpener(kind cell.Kind) bool {
	switch kind {
	case cell.KindWord, cell.KindGetWord, cell.KindLitWord, cell.KindSetWord, cell.KindRefinement:
		return true
	}
	return false
}

// scanHashLiteral handles the three `#`-prefixed forms whose second
// byte is a structural delimiter that prescanToken's fingerprint loop
// stops at before it can be folded into the token text: #{...} BINARY!,
// #"x" CHAR!, and #[...] CONSTRUCT (unsupported here).
func (lx *Lexer) scanHashLiteral() (cell.Cell, error) {
	switch lx.peek() {
	case '{':
		lx.pos++
		data, end, err := lx.scanBinary()
		if err != nil {
			return cell.Cell{}, err
		}
		lx.pos = end
		s, err := series.NewBytes(lx.mgr, lx.manuals, len(data), false)
		if err != nil {
			return cell.Cell{}, err
		}
		s.PutBytes(data)
		var c cell.Cell
		c.SetSeries(cell.KindBinary, s, 0)
		return c, nil
	case '"':
		lx.pos++
		r, end, err := lx.scanChar()
		if err != nil {
			return cell.Cell{}, err
		}
		lx.pos = end
		var c cell.Cell
		c.SetChar(r)
		return c, nil
	case '[':
		return cell.Cell{}, errors.New("lex: #[...] CONSTRUCT syntax is not supported by this scanner")
	default:
		return cell.Cell{}, errors.New("lex: malformed '#' literal")
	}
}

// buildPathCell splits a compound slash-joined token into its outer
// path kind and segment cells.
func (lx *Lexer) buildPathCell(text []byte) (cell.Cell, error) {
	form, err := splitPath(text)
	if err != nil {
		return cell.Cell{}, err
	}
	arr, err := series.NewArray(lx.mgr, lx.manuals, len(form.segments))
	if err != nil {
		return cell.Cell{}, err
	}
	for i, seg := range form.segments {
		sc, err := lx.segmentCell(seg)
		if err != nil {
			return cell.Cell{}, err
		}
		arr.At(i).CopyFrom(&sc)
	}
	arr.SetLen(len(form.segments))

	var c cell.Cell
	c.SetSeries(form.outer, arr, 0)
	return c, nil
}

// makeLiteralCell builds the cell for every non-path, non-string,
// non-# token kind locateKind can return.
func (lx *Lexer) makeLiteralCell(kind cell.Kind, text []byte) (cell.Cell, error) {
	var c cell.Cell
	switch kind {
	case cell.KindInteger:
		return c, setInteger(&c, text)
	case cell.KindDecimal:
		return c, setDecimal(&c, text)
	case cell.KindPercent:
		return c, setPercent(&c, text)
	case cell.KindMoney:
		return c, setMoney(&c, text)
	case cell.KindPair:
		return c, setPair(&c, text)
	case cell.KindTuple:
		return c, setTuple(&c, text)
	case cell.KindTime:
		return c, setTime(&c, text)

	case cell.KindWord:
		s := lx.interner.Intern(string(text))
		c.SetWord(cell.KindWord, s)
		return c, nil
	case cell.KindSetWord:
		s := lx.interner.Intern(string(text[:len(text)-1]))
		c.SetWord(cell.KindSetWord, s)
		return c, nil
	case cell.KindGetWord:
		s := lx.interner.Intern(string(text[1:]))
		c.SetWord(cell.KindGetWord, s)
		return c, nil
	case cell.KindLitWord:
		s := lx.interner.Intern(string(text[1:]))
		c.SetWord(cell.KindLitWord, s)
		return c, nil
	case cell.KindRefinement:
		s := lx.interner.Intern(string(text[1:]))
		c.SetWord(cell.KindRefinement, s)
		return c, nil
	case cell.KindIssue:
		s := lx.interner.Intern(string(text[1:]))
		c.SetWord(cell.KindIssue, s)
		return c, nil

	case cell.KindFile:
		return lx.newStringCellBytes(cell.KindFile, text[1:])
	case cell.KindEmail:
		return lx.newStringCellBytes(cell.KindEmail, text)
	case cell.KindURL:
		return lx.newStringCellBytes(cell.KindURL, text)
	case cell.KindTag:
		body := text
		if len(body) >= 2 && body[0] == '<' && body[len(body)-1] == '>' {
			body = body[1 : len(body)-1]
		}
		return lx.newStringCellBytes(cell.KindTag, body)

	default:
		return cell.Cell{}, errors.Errorf("lex: unhandled literal kind %s", kind)
	}
}

// newStringCell allocates a byte-wide series from decoded runes and
// wraps it in a cell of the given kind.
func (lx *Lexer) newStringCell(kind cell.Kind, runes []rune) (cell.Cell, error) {
	buf := make([]byte, 0, len(runes)*utf8.UTFMax)
	var tmp [utf8.UTFMax]byte
	for _, r := range runes {
		n := utf8.EncodeRune(tmp[:], r)
		buf = append(buf, tmp[:n]...)
	}
	return lx.newStringCellBytes(kind, buf)
}

func (lx *Lexer) newStringCellBytes(kind cell.Kind, data []byte) (cell.Cell, error) {
	s, err := series.NewBytes(lx.mgr, lx.manuals, len(data), false)
	if err != nil {
		return cell.Cell{}, err
	}
	s.PutBytes(data)
	var c cell.Cell
	c.SetSeries(kind, s, 0)
	return c, nil
}
