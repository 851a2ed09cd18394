package eval

import (
	"github.com/wyrmlang/wyrmcore/bind"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/rterr"
	"github.com/wyrmlang/wyrmcore/series"
	"github.com/wyrmlang/wyrmcore/sym"
)

// nativeThrow implements THROW: sets
// the THROWN flag on its result and stashes the payload.
func nativeThrow(ev *Evaluator, f *Frame) (cell.Cell, *rterr.Error) {
	return ev.Throw(f.Arg(0)), nil
}

// nativeCatch implements CATCH: evaluates its
// block argument; if that throws, clears THROWN and returns the
// stashed payload, otherwise returns the block's own last result.
func nativeCatch(ev *Evaluator, f *Frame) (cell.Cell, *rterr.Error) {
	blockCell := f.Arg(0)
	block, ok := blockCell.Ref().(*series.Series)
	if !ok {
		return cell.Cell{}, rterr.New(rterr.CodeArgType, "catch expects a block!")
	}
	var result cell.Cell
	if err := ev.Do(block, f.Specifier, &result); err != nil {
		return cell.Cell{}, rterr.New(rterr.CodeMisc, err.Error())
	}
	if result.HasFlag(cell.FlagThrown) {
		return ev.CatchStash(), nil
	}
	return result, nil
}

// nativeAdd/nativeSubtract are small arithmetic natives used to
// exercise two-argument normal-class dispatch in tests.
func nativeAdd(ev *Evaluator, f *Frame) (cell.Cell, *rterr.Error) {
	var out cell.Cell
	out.SetInt64(f.Arg(0).Int64() + f.Arg(1).Int64())
	return out, nil
}

func nativeSubtract(ev *Evaluator, f *Frame) (cell.Cell, *rterr.Error) {
	var out cell.Cell
	out.SetInt64(f.Arg(0).Int64() - f.Arg(1).Int64())
	return out, nil
}

// ts is a small helper for declaring a normal-class, any-type
// parameter typeset when registering natives.
func ts(interner *sym.Interner, name string) *bind.Typeset {
	return &bind.Typeset{Symbol: interner.Intern(name), Class: bind.ClassNormal, Mask: bind.AllowsAny}
}

// NewStandardLib builds a MODULE! context pre-bound with the small set
// of natives this implementation ships: THROW/CATCH cover early-return
// unwind, and the arithmetic pair exercises ordinary two-argument
// dispatch.
func NewStandardLib(mgr *pool.Manager, manuals *series.Manuals, interner *sym.Interner) (*bind.Context, error) {
	type entry struct {
		name string
		fn   *Function
	}
	entries := []entry{
		{"throw", NewNative("throw", []*bind.Typeset{ts(interner, "value")}, false, nativeThrow)},
		{"catch", NewNative("catch", []*bind.Typeset{ts(interner, "block")}, false, nativeCatch)},
		{"add", NewNative("add", []*bind.Typeset{ts(interner, "a"), ts(interner, "b")}, false, nativeAdd)},
		{"subtract", NewNative("subtract", []*bind.Typeset{ts(interner, "a"), ts(interner, "b")}, false, nativeSubtract)},
	}

	keys := make([]*bind.Typeset, len(entries))
	for i, e := range entries {
		keys[i] = &bind.Typeset{Symbol: interner.Intern(e.name), Class: bind.ClassNormal, Mask: bind.AllowsAny}
	}
	ctx, err := bind.New(mgr, manuals, cell.KindModule, keys)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		ctx.Varlist.At(i + 1).SetSeries(cell.KindFunction, e.fn, 0)
	}
	return ctx, nil
}
