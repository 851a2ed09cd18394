// Package bind implements contexts (object/module/frame keylist+varlist
// pairs) and the binding operations bind_deep, resolve_context, and
// intern_deep.
package bind

import (
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/sym"
)

// ParamClass is a paramlist parameter's calling convention: how the
// evaluator fulfills this slot from the source stream.
type ParamClass uint8

const (
	ClassNormal ParamClass = iota
	ClassTight             // evaluates its argument but does not look ahead for enfix
	ClassQuote             // takes the next value unevaluated
	ClassHardQuote         // quotes even through parens
	ClassRefinement
	ClassLocal // not fulfilled by the caller; internal to the body
)

func (c ParamClass) String() string {
	switch c {
	case ClassTight:
		return "tight"
	case ClassQuote:
		return "quote"
	case ClassHardQuote:
		return "hard-quote"
	case ClassRefinement:
		return "refinement"
	case ClassLocal:
		return "local"
	default:
		return "normal"
	}
}

// TypeMask is a bitmask over cell.Kind, one bit per discriminant, used
// to typecheck an argument against a parameter's declared type set
// without touching the payload.
type TypeMask uint64

func MaskOf(kinds ...cell.Kind) TypeMask {
	var m TypeMask
	for _, k := range kinds {
		m |= 1 << uint(k)
	}
	return m
}

// Allows reports whether k is a member of the mask.
func (m TypeMask) Allows(k cell.Kind) bool {
	return m&(1<<uint(k)) != 0
}

// AllowsAny is the typeset that accepts every kind (the default for an
// unconstrained parameter).
const AllowsAny TypeMask = ^TypeMask(0)

// Typeset is one entry of a keylist: the symbol a key is stored under
// plus its parameter class and allowed type mask. Every Context's
// keylist and every Function's paramlist is built from these.
type Typeset struct {
	Symbol *sym.Symbol
	Class  ParamClass
	Mask   TypeMask
}

// Paramlist is the keylist half of a function's calling convention,
// shared across every frame activating that function — it carries no
// varlist of its own, unlike a Context. Relative word bindings
// reference a Paramlist until a specifier resolves them to a concrete
// varlist slot.
type Paramlist struct {
	Keys []*Typeset
}

// IndexOf returns the 0-based key offset for sym within keys, or -1.
func (p *Paramlist) IndexOf(s *sym.Symbol) int {
	for i, k := range p.Keys {
		if sym.Same(k.Symbol, s) {
			return i
		}
	}
	return -1
}
