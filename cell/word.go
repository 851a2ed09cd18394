package cell

import "github.com/wyrmlang/wyrmcore/sym"

// SetWord turns c into one of the six word-family kinds, carrying the
// interned Symbol as its reference payload. The binding half is left
// nil (unbound) — callers bind separately via SetBinding.
func (c *Cell) SetWord(k Kind, s *sym.Symbol) {
	if !k.IsWord() {
		panic("cell: SetWord called with non-word kind " + k.String())
	}
	c.Reset(k)
	c.ref = s
}

// Symbol returns the interned word this cell names. Panics if c is not
// a word-family cell — callers must check Kind().IsWord() first, the
// same discipline the source's VAL_WORD_SPELLING macro assumes.
func (c *Cell) Symbol() *sym.Symbol {
	s, ok := c.ref.(*sym.Symbol)
	if !ok {
		panic("cell: Symbol() called on non-word cell")
	}
	return s
}

// Spelling is a convenience wrapper returning the word's natural-case
// spelling, e.g. for error message rendering.
func (c *Cell) Spelling() string {
	return c.Symbol().String()
}
