package eval

import (
	"testing"

	"github.com/wyrmlang/wyrmcore/bind"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/lex"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/series"
	"github.com/wyrmlang/wyrmcore/sym"
)

func newTestEvaluator(t *testing.T) (*Evaluator, *bind.Context, *sym.Interner) {
	t.Helper()
	mgr := pool.New()
	manuals := series.NewManuals()
	interner := sym.New()
	lib, err := NewStandardLib(mgr, manuals, interner)
	if err != nil {
		t.Fatalf("NewStandardLib: %v", err)
	}
	ev := New(mgr, manuals, interner)
	return ev, lib, interner
}

func runSource(t *testing.T, ev *Evaluator, lib *bind.Context, interner *sym.Interner, src string) cell.Cell {
	t.Helper()
	arr, err := lex.Scan([]byte(src), interner, ev.Mgr, ev.Manuals, false)
	if err != nil {
		t.Fatalf("scan %q: %v", src, err)
	}
	bind.BindDeep(arr, lib, true)
	var out cell.Cell
	if err := ev.Do(arr, lib, &out); err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return out
}

// catch [throw 42] yields an INTEGER cell with value 42 that no longer
// carries FlagThrown.
func TestCatchThrow(t *testing.T) {
	ev, lib, interner := newTestEvaluator(t)
	out := runSource(t, ev, lib, interner, "catch [throw 42]")
	if out.Kind() != cell.KindInteger || out.Int64() != 42 {
		t.Fatalf("result = %v %v, want INTEGER 42", out.Kind(), out.Int64())
	}
	if out.HasFlag(cell.FlagThrown) {
		t.Fatal("result must not carry FlagThrown after catch")
	}
}

func TestThrowWithoutCatchPropagatesFlag(t *testing.T) {
	ev, lib, interner := newTestEvaluator(t)
	out := runSource(t, ev, lib, interner, "throw 99")
	if !out.HasFlag(cell.FlagThrown) {
		t.Fatal("expected FlagThrown to propagate out of an uncaught throw")
	}
	if out.Int64() != 99 {
		t.Fatalf("thrown value = %d, want 99", out.Int64())
	}
}

func TestTwoArgumentNativeDispatch(t *testing.T) {
	ev, lib, interner := newTestEvaluator(t)
	out := runSource(t, ev, lib, interner, "add 2 3")
	if out.Kind() != cell.KindInteger || out.Int64() != 5 {
		t.Fatalf("add 2 3 = %v %v, want INTEGER 5", out.Kind(), out.Int64())
	}

	out = runSource(t, ev, lib, interner, "subtract add 2 3 1")
	if out.Int64() != 4 {
		t.Fatalf("subtract add 2 3 1 = %v, want 4", out.Int64())
	}
}

func TestSetWordAssignsAndEvaluatesToValue(t *testing.T) {
	ev, lib, interner := newTestEvaluator(t)
	xSym := interner.Intern("x")
	lib.Keys = append(lib.Keys, &bind.Typeset{Symbol: xSym, Class: bind.ClassNormal, Mask: bind.AllowsAny})

	// Re-create lib with room for x: bind.New fixed the varlist size up
	// front, so grow a fresh context instead of mutating in place.
	ev2, lib2, interner2 := newTestEvaluator(t)
	xSym2 := interner2.Intern("x")
	keys := append(append([]*bind.Typeset{}, libKeysCopy(lib2)...), &bind.Typeset{Symbol: xSym2, Class: bind.ClassNormal, Mask: bind.AllowsAny})
	grown, err := bind.New(ev2.Mgr, ev2.Manuals, cell.KindModule, keys)
	if err != nil {
		t.Fatalf("bind.New: %v", err)
	}
	for i, k := range lib2.Keys {
		grown.Varlist.At(i + 1).CopyFrom(lib2.Var(k.Symbol))
	}

	out := runSource(t, ev2, grown, interner2, "x: add 1 2")
	if out.Int64() != 3 {
		t.Fatalf("x: add 1 2 -> %v, want 3", out.Int64())
	}
	if grown.Var(xSym2).Int64() != 3 {
		t.Fatalf("x = %v, want 3", grown.Var(xSym2).Int64())
	}
}

func libKeysCopy(ctx *bind.Context) []*bind.Typeset {
	out := make([]*bind.Typeset, len(ctx.Keys))
	copy(out, ctx.Keys)
	return out
}
