package bind

import (
	"testing"

	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/lex"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/series"
	"github.com/wyrmlang/wyrmcore/sym"
)

func TestBindDeepRewritesWordBinding(t *testing.T) {
	mgr, manuals, interner := pool.New(), series.NewManuals(), sym.New()

	arr, err := lex.Scan([]byte("q: [x y]"), interner, mgr, manuals, false)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	xSym := interner.Intern("x")
	ySym := interner.Intern("y")
	keys := []*Typeset{
		{Symbol: xSym, Class: ClassNormal, Mask: AllowsAny},
		{Symbol: ySym, Class: ClassNormal, Mask: AllowsAny},
	}
	ctx, err := New(mgr, manuals, cell.KindObject, keys)
	if err != nil {
		t.Fatalf("New context: %v", err)
	}

	BindDeep(arr, ctx, true)

	setWord := arr.At(0)
	if setWord.Binding() != nil {
		t.Fatal("SET-WORD q is not one of ctx's keys and should be left unbound")
	}

	block := arr.At(1).Ref().(*series.Series)
	wx, wy := block.At(0), block.At(1)
	resolvedCtx, idx, ok := Resolve(wx, nil)
	if !ok || resolvedCtx != ctx || idx != 1 {
		t.Fatalf("Resolve(x) = %v %d %v, want ctx 1 true", resolvedCtx, idx, ok)
	}
	_, idxY, ok := Resolve(wy, nil)
	if !ok || idxY != 2 {
		t.Fatalf("Resolve(y) idx = %d, want 2", idxY)
	}
}

func TestResolveContextIntoCopiesMatchingKeys(t *testing.T) {
	mgr, manuals, interner := pool.New(), series.NewManuals(), sym.New()
	aSym := interner.Intern("a")
	keys := []*Typeset{{Symbol: aSym, Class: ClassNormal, Mask: AllowsAny}}

	src, _ := New(mgr, manuals, cell.KindObject, keys)
	src.Var(aSym).SetInt64(42)

	dst, _ := New(mgr, manuals, cell.KindObject, keys)
	if err := ResolveContextInto(dst, src); err != nil {
		t.Fatalf("ResolveContextInto: %v", err)
	}
	if dst.Var(aSym).Int64() != 42 {
		t.Fatalf("dst.a = %d, want 42", dst.Var(aSym).Int64())
	}
}

func TestInternDeepReassociatesThroughNewInterner(t *testing.T) {
	mgr, manuals, interner1 := pool.New(), series.NewManuals(), sym.New()
	arr, err := lex.Scan([]byte("[foo]"), interner1, mgr, manuals, false)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	block := arr.At(0).Ref().(*series.Series)

	interner2 := sym.New()
	InternDeep(interner2, block)

	got := block.At(0).Symbol()
	want, _ := interner2.Lookup("foo")
	if got != want {
		t.Fatal("word symbol was not re-associated with the new interner")
	}
}
