package bind

import (
	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/series"
	"github.com/wyrmlang/wyrmcore/sym"
)

// Context is the keylist+varlist pair backing OBJECT!/MODULE!/FRAME!/
// ERROR!. Varlist slot 0 is the archetype cell — a cell of
// the context's own kind referencing the context itself, the way a
// context value handed to user code can always answer "what kind am
// I" without a separate tag.
type Context struct {
	Kind    cell.Kind
	Keys    []*Typeset
	Varlist *series.Series
}

// New allocates a context of the given kind with one varlist slot per
// key plus the leading archetype slot, every non-archetype slot
// initialized to NONE!.
func New(mgr *pool.Manager, manuals *series.Manuals, kind cell.Kind, keys []*Typeset) (*Context, error) {
	if !kind.IsContext() {
		return nil, errors.Errorf("bind: %s is not a context kind", kind)
	}
	varlist, err := series.NewArray(mgr, manuals, len(keys)+1)
	if err != nil {
		return nil, err
	}
	ctx := &Context{Kind: kind, Keys: keys, Varlist: varlist}
	ctx.Varlist.At(0).SetSeries(kind, ctx, 0)
	for i := 1; i <= len(keys); i++ {
		ctx.Varlist.At(i).Init()
	}
	varlist.SetLen(len(keys) + 1)
	return ctx, nil
}

// IndexOf returns the 1-based varlist slot for sym (slot 0 is the
// archetype), or -1 if the symbol is not a key of this context.
func (ctx *Context) IndexOf(s *sym.Symbol) int {
	for i, k := range ctx.Keys {
		if sym.Same(k.Symbol, s) {
			return i + 1
		}
	}
	return -1
}

// Var returns the varlist slot for s, or nil if s is not a key.
func (ctx *Context) Var(s *sym.Symbol) *cell.Cell {
	i := ctx.IndexOf(s)
	if i < 0 {
		return nil
	}
	return ctx.Varlist.At(i)
}

// Archetype returns context slot 0, the self-referencing context cell.
func (ctx *Context) Archetype() *cell.Cell {
	return ctx.Varlist.At(0)
}
