package host

import (
	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/series"
)

// MakeBlock and MakeString are the make_block(capacity) /
// make_string(capacity) entry points: a host builds series
// it intends to hand back into the interpreter (e.g. an extension
// returning a value) through these rather than touching pool/series
// internals directly. MakeString takes no encoding argument: it always
// builds a byte-wide series, with no choice of a wide-character form.
func (in *Interp) MakeBlock(capacity int) (*series.Series, error) {
	s, err := series.NewArray(in.Pool, in.Manuals, capacity)
	if err != nil {
		return nil, errors.Wrap(err, "host: make_block")
	}
	in.GC.Manage(s, in.Manuals)
	return s, nil
}

func (in *Interp) MakeString(capacity int) (*series.Series, error) {
	s, err := series.NewBytes(in.Pool, in.Manuals, capacity, false)
	if err != nil {
		return nil, errors.Wrap(err, "host: make_string")
	}
	in.GC.Manage(s, in.Manuals)
	return s, nil
}

// InitValSeries points c at s. It is the low-level setter every
// higher-level Make* helper and codec result ultimately goes through.
func InitValSeries(c *cell.Cell, k cell.Kind, s *series.Series, index int32) {
	c.SetSeries(k, s, index)
}

// ValSeries, ValInt64, ValDecimal and ValChar are thin named wrappers
// (VAL_SERIES, VAL_INT64, ...) so host code reads the way embedding
// extension code conventionally does, even though the underlying
// accessor already exists on cell.Cell.
func ValSeries(c *cell.Cell) (*series.Series, bool) {
	s, ok := c.Ref().(*series.Series)
	return s, ok
}

func ValInt64(c *cell.Cell) int64       { return c.Int64() }
func ValDecimal(c *cell.Cell) float64   { return c.Decimal() }
func ValChar(c *cell.Cell) rune         { return c.Char() }
func ValPairX(c *cell.Cell) float32     { x, _ := c.Pair(); return x }
func ValPairY(c *cell.Cell) float32     { _, y := c.Pair(); return y }

// ValHandlePointer and SetHandlePointer expose HANDLE! payloads: a
// host registers an opaque pointer (a device's file descriptor, a
// codec's internal decoder state) and gets it back later without the
// interpreter ever interpreting its bits.
func ValHandlePointer(c *cell.Cell) (*cell.Handle, bool) {
	h := c.Handle()
	return h, h != nil
}

func SetHandlePointer(c *cell.Cell, data any, cleaner func(*cell.Handle)) {
	c.SetHandle(&cell.Handle{Data: data, Cleaner: cleaner})
}

// SetSeriesLen, SetChar and GetChar are the mutators for building a
// STRING!/BLOCK! result a byte or cell at a time, e.g. while a codec
// decodes into a freshly made series.
func SetSeriesLen(s *series.Series, n int) { s.SetLen(n) }

func SetChar(s *series.Series, index int, ch rune) {
	s.Bytes()[index] = byte(ch)
}

func GetChar(s *series.Series, index int) rune {
	return rune(s.Bytes()[index])
}
