package ffi

import (
	"testing"

	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/rterr"
)

func TestIntConvertRoundTrip(t *testing.T) {
	var c cell.Cell
	c.SetInt64(42)
	buf := make([]byte, 4)
	if err := ArgToFFI(&c, Schema{Prim: PrimSint32}, buf); err != nil {
		t.Fatalf("ArgToFFI: %v", err)
	}
	back, err := FFIToRebol(Schema{Prim: PrimSint32}, buf)
	if err != nil {
		t.Fatalf("FFIToRebol: %v", err)
	}
	if back.Int64() != 42 {
		t.Fatalf("round trip got %d, want 42", back.Int64())
	}
}

// TestInt32BoundaryAccepted covers the positive case: the int32 max
// value converts cleanly.
func TestInt32BoundaryAccepted(t *testing.T) {
	var c cell.Cell
	c.SetInt64(2147483647)
	buf := make([]byte, 4)
	if err := ArgToFFI(&c, Schema{Prim: PrimSint32}, buf); err != nil {
		t.Fatalf("expected in-range int32 to convert, got %v", err)
	}
}

// TestInt32OverflowRejected covers the negative case: calling it with
// 2_147_483_648 raises an out-of-range type error before the foreign
// call executes, verified here at the conversion step any
// Routine.Call goes through prior to invoking backendCall.
func TestInt32OverflowRejected(t *testing.T) {
	var c cell.Cell
	c.SetInt64(2147483648)
	buf := make([]byte, 4)
	err := ArgToFFI(&c, Schema{Prim: PrimSint32}, buf)
	if err == nil {
		t.Fatal("expected out-of-range error for int32 overflow")
	}
	if err.Code != rterr.CodeOutOfRange {
		t.Fatalf("got code %v, want CodeOutOfRange", err.Code)
	}
}

func TestArgToFFITypeMismatch(t *testing.T) {
	var c cell.Cell
	c.SetDecimal(1.5)
	buf := make([]byte, 4)
	err := ArgToFFI(&c, Schema{Prim: PrimSint32}, buf)
	if err == nil || err.Code != rterr.CodeArgType {
		t.Fatalf("expected CodeArgType for decimal! passed as int32, got %v", err)
	}
}

func TestStructSize(t *testing.T) {
	st := &Struct{Fields: []StructField{
		{Name: "a", Type: Schema{Prim: PrimUint8}},
		{Name: "b", Type: Schema{Prim: PrimSint32}},
	}}
	// a uint8 at offset 0, padding to 4-byte alignment, then int32 at
	// offset 4: total 8 bytes, ordinary C struct layout.
	if got := st.Size(); got != 8 {
		t.Fatalf("struct size = %d, want 8", got)
	}
}

// TestCompileWithoutLibFFI exercises the default (non -tags ffi_libffi)
// build path: OpenLibrary, the step every Compile starts from, fails.
func TestCompileWithoutLibFFI(t *testing.T) {
	_, err := OpenLibrary("libm.so.6")
	if err == nil {
		t.Fatal("expected OpenLibrary to fail on the default non-libffi build")
	}
}

func TestABIParseRoundTrip(t *testing.T) {
	for _, name := range []string{"default", "win64", "stdcall", "sysv", "unix64", "n64-soft-float"} {
		abi, ok := ParseABI(name)
		if !ok {
			t.Fatalf("ParseABI(%q) not recognized", name)
		}
		if abi.String() != name {
			t.Fatalf("ABI round trip: got %q, want %q", abi.String(), name)
		}
	}
	if _, ok := ParseABI("not-a-real-abi"); ok {
		t.Fatal("expected unrecognized ABI name to fail")
	}
}

func TestSchemaValidateRejectsEmptyStruct(t *testing.T) {
	s := Schema{Prim: PrimStruct, Struct: &Struct{}}
	if err := s.Validate(); err == nil {
		t.Fatal("expected empty struct schema to fail validation")
	}
}
