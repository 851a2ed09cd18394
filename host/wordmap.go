package host

import (
	"github.com/wyrmlang/wyrmcore/sym"
)

// MapWord interns text against in's canonical table: the entry point
// a host uses to obtain a stable Symbol handle for a string it read
// from outside the interpreter (an extension's compiled-in word list,
// a key typed at a REPL prompt).
func (in *Interp) MapWord(text string) *sym.Symbol {
	return in.Interner.Intern(text)
}

// WordString returns s's natural-cased spelling,
// the inverse of MapWord.
func (in *Interp) WordString(s *sym.Symbol) string {
	return s.String()
}

// FindWord reports whether text has already been interned, without
// creating a new Symbol as MapWord would.
func (in *Interp) FindWord(text string) (*sym.Symbol, bool) {
	return in.Interner.Lookup(text)
}
