package lex

import (
	"testing"

	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/series"
	"github.com/wyrmlang/wyrmcore/sym"
)

func newTestEnv() (*pool.Manager, *series.Manuals, *sym.Interner) {
	return pool.New(), series.NewManuals(), sym.New()
}

// scan("1 2.5 [a b]") -> array of length 3 with kinds INTEGER,
// DECIMAL, BLOCK; the block contains two WORD! cells spelled a, b.
func TestScanLexPrimitives(t *testing.T) {
	mgr, manuals, interner := newTestEnv()
	arr, err := Scan([]byte("1 2.5 [a b]"), interner, mgr, manuals, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if arr.Len() != 3 {
		t.Fatalf("top array length = %d, want 3", arr.Len())
	}
	if arr.At(0).Kind() != cell.KindInteger || arr.At(0).Int64() != 1 {
		t.Fatalf("element 0 = %v %v, want INTEGER 1", arr.At(0).Kind(), arr.At(0).Int64())
	}
	if arr.At(1).Kind() != cell.KindDecimal || arr.At(1).Decimal() != 2.5 {
		t.Fatalf("element 1 = %v %v, want DECIMAL 2.5", arr.At(1).Kind(), arr.At(1).Decimal())
	}
	if arr.At(2).Kind() != cell.KindBlock {
		t.Fatalf("element 2 kind = %v, want BLOCK", arr.At(2).Kind())
	}
	block := arr.At(2).Ref().(*series.Series)
	if block.Len() != 2 {
		t.Fatalf("inner block length = %d, want 2", block.Len())
	}
	wantSpellings := []string{"a", "b"}
	for i, want := range wantSpellings {
		c := block.At(i)
		if c.Kind() != cell.KindWord {
			t.Fatalf("inner element %d kind = %v, want WORD", i, c.Kind())
		}
		if c.Spelling() != want {
			t.Fatalf("inner element %d spelling = %q, want %q", i, c.Spelling(), want)
		}
	}
}

// scan("foo/bar/:baz") -> a GET-PATH of three WORD! elements foo,
// bar, baz.
func TestScanPathAssembly(t *testing.T) {
	mgr, manuals, interner := newTestEnv()
	arr, err := Scan([]byte("foo/bar/:baz"), interner, mgr, manuals, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if arr.Len() != 1 {
		t.Fatalf("top array length = %d, want 1", arr.Len())
	}
	top := arr.At(0)
	if top.Kind() != cell.KindGetPath {
		t.Fatalf("path kind = %v, want GET-PATH", top.Kind())
	}
	path := top.Ref().(*series.Series)
	if path.Len() != 3 {
		t.Fatalf("path length = %d, want 3", path.Len())
	}
	want := []string{"foo", "bar", "baz"}
	for i, w := range want {
		c := path.At(i)
		if c.Kind() != cell.KindWord {
			t.Fatalf("path element %d kind = %v, want WORD", i, c.Kind())
		}
		if c.Spelling() != w {
			t.Fatalf("path element %d spelling = %q, want %q", i, c.Spelling(), w)
		}
	}
}

// scan("{a^/b^(41)c}") -> a STRING of length 5 whose code points
// are a, 0x0A, b, A, c.
func TestScanStringEscapes(t *testing.T) {
	mgr, manuals, interner := newTestEnv()
	arr, err := Scan([]byte("{a^/b^(41)c}"), interner, mgr, manuals, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if arr.Len() != 1 {
		t.Fatalf("top array length = %d, want 1", arr.Len())
	}
	c := arr.At(0)
	if c.Kind() != cell.KindString {
		t.Fatalf("kind = %v, want STRING", c.Kind())
	}
	s := c.Ref().(*series.Series)
	got := string(s.Bytes())
	want := "a\nbAc"
	if got != want {
		t.Fatalf("string content = %q, want %q", got, want)
	}
	if len([]rune(got)) != 5 {
		t.Fatalf("code point count = %d, want 5", len([]rune(got)))
	}
}

// scan("#{DEAD BEEF}") -> BINARY of length 4 with bytes DE AD BE
// EF; whitespace inside the braces is ignored.
func TestScanBinaryLiteral(t *testing.T) {
	mgr, manuals, interner := newTestEnv()
	arr, err := Scan([]byte("#{DEAD BEEF}"), interner, mgr, manuals, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if arr.Len() != 1 {
		t.Fatalf("top array length = %d, want 1", arr.Len())
	}
	c := arr.At(0)
	if c.Kind() != cell.KindBinary {
		t.Fatalf("kind = %v, want BINARY", c.Kind())
	}
	s := c.Ref().(*series.Series)
	if s.Len() != 4 {
		t.Fatalf("binary length = %d, want 4", s.Len())
	}
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	got := s.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %02x, want %02x", i, got[i], want[i])
		}
	}
}

func TestScanCharLiteral(t *testing.T) {
	mgr, manuals, interner := newTestEnv()
	arr, err := Scan([]byte(`#"A"`), interner, mgr, manuals, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if arr.At(0).Kind() != cell.KindChar || arr.At(0).Char() != 'A' {
		t.Fatalf("char cell = %v %v, want CHAR 'A'", arr.At(0).Kind(), arr.At(0).Char())
	}
}

func TestScanSetWordAndRefinement(t *testing.T) {
	mgr, manuals, interner := newTestEnv()
	arr, err := Scan([]byte("x: /only"), interner, mgr, manuals, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if arr.Len() != 2 {
		t.Fatalf("length = %d, want 2", arr.Len())
	}
	if arr.At(0).Kind() != cell.KindSetWord || arr.At(0).Spelling() != "x" {
		t.Fatalf("element 0 = %v %q, want SET-WORD x", arr.At(0).Kind(), arr.At(0).Spelling())
	}
	if arr.At(1).Kind() != cell.KindRefinement || arr.At(1).Spelling() != "only" {
		t.Fatalf("element 1 = %v %q, want REFINEMENT only", arr.At(1).Kind(), arr.At(1).Spelling())
	}
}

func TestScanUnterminatedBlockErrors(t *testing.T) {
	mgr, manuals, interner := newTestEnv()
	if _, err := Scan([]byte("[a b"), interner, mgr, manuals, false); err == nil {
		t.Fatal("expected error for unterminated block")
	}
}

func TestScanRelaxModeInlinesError(t *testing.T) {
	mgr, manuals, interner := newTestEnv()
	arr, err := Scan([]byte("1 <bad tag 2"), interner, mgr, manuals, true)
	if err != nil {
		t.Fatalf("Scan under relax: %v", err)
	}
	foundError := false
	for i := 0; i < arr.Len(); i++ {
		if arr.At(i).Kind() == cell.KindError {
			foundError = true
		}
	}
	if !foundError {
		t.Fatal("expected an inline ERROR! cell under relax mode")
	}
}

func TestHeaderScan(t *testing.T) {
	res, off := HeaderScan([]byte("REBOL [title: \"x\"] print 1"))
	if res != FoundHeader {
		t.Fatalf("result = %v, want FoundHeader", res)
	}
	if off != 6 {
		t.Fatalf("offset = %d, want 6", off)
	}

	res, _ = HeaderScan([]byte("print 1"))
	if res != NoHeader {
		t.Fatalf("result = %v, want NoHeader", res)
	}
}
