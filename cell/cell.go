package cell

import "math"

// Cell is the universal value. The historical C layout packs
// header, payload and binding into two machine words; Go has no union
// type, so here the payload is split into a scalar half (`num`, `idx`)
// good for every inline kind, and a reference half (`ref`, `bind`) for
// every kind whose value lives in a Series, Context or Function. Which
// half is meaningful is determined entirely by Kind — callers use the
// typed accessors below rather than touching the fields directly.
//
// `ref` and `bind` are declared `any` rather than a concrete pointer
// type to avoid a cell <-> series import cycle: the series, bind and
// eval packages each store their own pointer types here and recover
// them with a type assertion, letting the host language's type system
// carry the "this is a pointer into a specific kind of series"
// distinction instead of an untyped union member.
type Cell struct {
	kind  Kind
	flags Flags
	num   uint64 // integer / decimal bits / char / logic / time-ns / pair / tuple / date
	idx   int32  // index into the referenced series, when applicable
	ref   any    // *series.Series, *bind.Context, *fn.Function, *Handle, ...
	bind  any    // binding: nil, or a context/paramlist reference
}

// Kind returns the cell's discriminant.
func (c *Cell) Kind() Kind { return c.kind }

// Flags returns the cell's header bits.
func (c *Cell) Flags() Flags { return c.flags }

// SetFlag/ClearFlag mutate a single header bit.
func (c *Cell) SetFlag(f Flags)   { c.flags.Set(f) }
func (c *Cell) ClearFlag(f Flags) { c.flags.Clear(f) }
func (c *Cell) HasFlag(f Flags) bool { return c.flags.Has(f) }

// IsEnd reports whether this cell is the unwritable terminator written
// into the final slot of every array. An End
// cell must not be read as a value.
func (c *Cell) IsEnd() bool { return c.flags.Has(FlagEnd) }

// SetEnd resets the cell in place to an END marker. An END cell may
// not carry a payload.
func (c *Cell) SetEnd() {
	*c = Cell{kind: KindEnd, flags: FlagEnd}
}

// Init resets the cell to a fresh NONE! value, the zero value used when
// a slot must be "valid but empty" (e.g. an unfulfilled trailing
// refinement argument).
func (c *Cell) Init() {
	*c = Cell{kind: KindNone, flags: FlagValid}
}

// Reset overwrites kind and marks the cell valid, clearing any stale
// reference payload. Callers then use the kind-specific setter.
func (c *Cell) Reset(k Kind) {
	*c = Cell{kind: k, flags: FlagValid}
}

// --- scalar accessors ---

func (c *Cell) Int64() int64     { return int64(c.num) }
func (c *Cell) SetInt64(v int64) { c.Reset(KindInteger); c.num = uint64(v) }

func (c *Cell) Decimal() float64     { return math.Float64frombits(c.num) }
func (c *Cell) SetDecimal(v float64) { c.Reset(KindDecimal); c.num = math.Float64bits(v) }

func (c *Cell) Percent() float64     { return math.Float64frombits(c.num) }
func (c *Cell) SetPercent(v float64) { c.Reset(KindPercent); c.num = math.Float64bits(v) }

func (c *Cell) Logic() bool {
	return c.num != 0
}
func (c *Cell) SetLogic(v bool) {
	c.Reset(KindLogic)
	if v {
		c.num = 1
	}
}

func (c *Cell) Char() rune     { return rune(c.num) }
func (c *Cell) SetChar(v rune) { c.Reset(KindChar); c.num = uint64(v) }

// Pair packs two float32 halves into the scalar word, the way the
// source keeps PAIR! inline rather than series-backed.
func (c *Cell) Pair() (x, y float32) {
	return math.Float32frombits(uint32(c.num)), math.Float32frombits(uint32(c.num >> 32))
}
func (c *Cell) SetPair(x, y float32) {
	c.Reset(KindPair)
	c.num = uint64(math.Float32bits(x)) | uint64(math.Float32bits(y))<<32
}

// Money holds a fixed-point amount in the scalar word as int64 cents;
// it is not an arbitrary-precision decimal.
func (c *Cell) Money() int64     { return int64(c.num) }
func (c *Cell) SetMoney(v int64) { c.Reset(KindMoney); c.num = uint64(v) }

// Tuple stores up to 8 bytes (e.g. 1.2.3 or an IP/version tuple)
// packed big-endian into the scalar word, with idx holding the count.
func (c *Cell) Tuple() []byte {
	n := int(c.idx)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		shift := uint(8 * (n - 1 - i))
		out[i] = byte(c.num >> shift)
	}
	return out
}
func (c *Cell) SetTuple(bs []byte) {
	c.Reset(KindTuple)
	if len(bs) > 8 {
		bs = bs[:8]
	}
	var v uint64
	for _, b := range bs {
		v = v<<8 | uint64(b)
	}
	c.num = v
	c.idx = int32(len(bs))
}

// --- reference accessors ---

// SetSeries attaches a series-bearing payload: a pointer into an
// arrayed or byte-wide series plus an index.
func (c *Cell) SetSeries(k Kind, ref any, index int32) {
	c.Reset(k)
	c.ref = ref
	c.idx = index
}

// Ref returns the raw reference payload (a *series.Series in practice);
// callers type-assert to the concrete pointer type they expect.
func (c *Cell) Ref() any { return c.ref }

// SetRef overwrites just the reference half, keeping kind/flags/index.
func (c *Cell) SetRef(ref any) { c.ref = ref }

// Index returns the series-relative position this cell refers to (the
// "current position" for a block/string cursor).
func (c *Cell) Index() int32     { return c.idx }
func (c *Cell) SetIndex(i int32) { c.idx = i }

// Binding returns the word/array's binding: nil (unbound), or an
// opaque reference the bind package resolves to a context or
// paramlist depending on FlagRelative.
func (c *Cell) Binding() any      { return c.bind }
func (c *Cell) SetBinding(b any)  { c.bind = b }

// CopyFrom overwrites c with src's contents verbatim (a "bit copy",
// the cheap operation the evaluator performs constantly when moving a
// value between a frame's `out` and an argument slot).
func (c *Cell) CopyFrom(src *Cell) { *c = *src }

// SameKindAs reports whether two cells share a discriminant, ignoring
// payload — used by typecheck helpers before inspecting the payload.
func (c *Cell) SameKindAs(o *Cell) bool { return c.kind == o.kind }
