package bind

import (
	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/series"
	"github.com/wyrmlang/wyrmcore/sym"
)

// BindWord attaches a specific binding: c now resolves against ctx
// directly rather than through a specifier.
func BindWord(c *cell.Cell, ctx *Context) {
	c.SetBinding(ctx)
	c.ClearFlag(cell.FlagRelative)
}

// BindWordRelative attaches a relative binding: c resolves against
// whatever specifier Context is active when it is finally read.
func BindWordRelative(c *cell.Cell, pl *Paramlist) {
	c.SetBinding(pl)
	c.SetFlag(cell.FlagRelative)
}

// BindDeep walks arr (and, if deep, every nested block/group/path
// array) rewriting the binding of every WORD!-family cell whose symbol
// is one of ctx's keys to point at ctx.
// Words not found among ctx's keys are left untouched.
func BindDeep(arr *series.Series, ctx *Context, deep bool) {
	walkWords(arr, deep, func(c *cell.Cell) {
		if ctx.IndexOf(c.Symbol()) >= 0 {
			BindWord(c, ctx)
		}
	})
}

// BindDeepRelative is BindDeep's relative-binding counterpart, used
// when installing a function's body against its own paramlist before
// the first call.
func BindDeepRelative(arr *series.Series, pl *Paramlist, deep bool) {
	walkWords(arr, deep, func(c *cell.Cell) {
		if pl.IndexOf(c.Symbol()) >= 0 {
			BindWordRelative(c, pl)
		}
	})
}

// walkWords applies fn to every word-family cell in arr, recursing into
// nested arrays when deep is true.
func walkWords(arr *series.Series, deep bool, fn func(*cell.Cell)) {
	if arr == nil || !arr.IsArrayed() {
		return
	}
	for i := 0; i < arr.Len(); i++ {
		c := arr.At(i)
		if c.Kind().IsWord() {
			fn(c)
			continue
		}
		if deep && c.Kind().IsArray() {
			if inner, ok := c.Ref().(*series.Series); ok {
				walkWords(inner, deep, fn)
			}
		}
	}
}

// Resolve derives the concrete (context, varlist-index) pair a word
// cell denotes, consulting specifier only when the cell's binding is
// relative: deriving specific values from relative ones requires a
// specifier. Returns ok=false for an unbound word.
func Resolve(c *cell.Cell, specifier *Context) (*Context, int, bool) {
	if !c.Kind().IsWord() {
		return nil, 0, false
	}
	b := c.Binding()
	if b == nil {
		return nil, 0, false
	}
	if c.HasFlag(cell.FlagRelative) {
		pl, ok := b.(*Paramlist)
		if !ok || specifier == nil {
			return nil, 0, false
		}
		idx := pl.IndexOf(c.Symbol())
		if idx < 0 {
			return nil, 0, false
		}
		return specifier, idx + 1, true
	}
	ctx, ok := b.(*Context)
	if !ok {
		return nil, 0, false
	}
	idx := ctx.IndexOf(c.Symbol())
	if idx < 0 {
		return nil, 0, false
	}
	return ctx, idx, true
}

// ResolveContextInto copies src's variable values into dst's matching
// slots by canonical-symbol match. Keys present in src but
// absent from dst are skipped — resolve never adds new keys.
func ResolveContextInto(dst, src *Context) error {
	if dst.Kind != src.Kind {
		return errors.Errorf("bind: cannot resolve %s context into %s context", src.Kind, dst.Kind)
	}
	for _, k := range src.Keys {
		dstSlot := dst.Var(k.Symbol)
		if dstSlot == nil {
			continue
		}
		srcSlot := src.Var(k.Symbol)
		dstSlot.CopyFrom(srcSlot)
	}
	return nil
}

// InternDeep walks arr (recursively) re-associating every word cell's
// symbol through interner. In this implementation every word
// the scanner produces is already interned through the same table, so
// InternDeep is mainly exercised when binding a tree built by a caller
// using a different interner instance (e.g. loading a second module).
func InternDeep(interner *sym.Interner, arr *series.Series) {
	walkWords(arr, true, func(c *cell.Cell) {
		s := interner.Intern(c.Symbol().String())
		c.SetRef(s)
	})
}
