// Package series implements the dynamic/inline growable sequence node
// every array (block, group, path, context keylist/varlist) and every
// byte-wide value (string, binary, file, ...) is built from.
package series

import (
	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/pool"
)

// inlineCapacity is the number of cells a Series stores without going
// through the pool at all. The
// source uses this to let short blocks and small contexts skip a
// dynamic allocation entirely; an inline Series's own header doubles
// as the implicit terminator instead of spending a physical END cell.
const inlineCapacity = 2

// Series is the header node backing every array or byte-wide value.
// It is either inline (cells stored directly in the header, no END
// cell needed) or dynamic (a pool-backed allocation tracked by
// len/rest/bias).
type Series struct {
	arrayed bool
	inline  bool
	flags   Flags

	// inline storage, valid only when inline is true.
	inlineCells [inlineCapacity]cell.Cell

	// dynamic arrayed storage: physical backing is rest+1 cells, the
	// last of which (index rest) is a real END cell. Logical content
	// is cells[bias : bias+length].
	cells []cell.Cell

	// dynamic byte-wide storage (strings, binaries, files, ...).
	// Logical content is bytes[bias : bias+length]. No terminator
	// cell is needed for byte-wide series.
	bytes   []byte
	mgr     *pool.Manager
	byteCap int // actual_size pool.AllocBytes reported, for FreeBytes

	bias   int
	rest   int // capacity in elements, excluding the reserved END slot
	length int

	manuals *Manuals // non-nil while this series is on a manuals list
}

var sharedEnd = func() cell.Cell {
	var c cell.Cell
	c.SetEnd()
	return c
}()

// NewArray allocates an arrayed series (block/group/path/context list)
// with room for `capacity` elements.
func NewArray(mgr *pool.Manager, manuals *Manuals, capacity int) (*Series, error) {
	if capacity < 0 {
		return nil, errors.New("series: negative capacity")
	}
	s := &Series{arrayed: true}
	if capacity <= inlineCapacity {
		s.inline = true
		s.rest = inlineCapacity
	} else {
		s.cells = make([]cell.Cell, capacity+1)
		s.cells[capacity].SetEnd()
		s.rest = capacity
	}
	if manuals != nil && !manuals.isSelf(s) {
		manuals.Add(s)
	}
	return s, nil
}

// NewBytes allocates a byte-wide series (string/binary/file/...) with
// room for `capacity` bytes, backed by the pool's variable-payload
// allocator.
func NewBytes(mgr *pool.Manager, manuals *Manuals, capacity int, roundPow2 bool) (*Series, error) {
	if capacity < 0 {
		return nil, errors.New("series: negative capacity")
	}
	s := &Series{arrayed: false, mgr: mgr}
	if capacity == 0 {
		capacity = 1
	}
	if capacity <= inlineCapacity*16 {
		// Small strings stay Go-native; no pool round trip needed for
		// the inline-equivalent case since []byte already owns its
		// storage cheaply. We still record `inline` so Free() knows
		// not to call FreeBytes.
		s.inline = true
		s.bytes = make([]byte, capacity)
		s.rest = capacity
	} else {
		buf, actual, err := mgr.AllocBytes(capacity, roundPow2)
		if err != nil {
			return nil, err
		}
		s.bytes = buf
		s.byteCap = actual
		s.rest = actual
	}
	if manuals != nil && !manuals.isSelf(s) {
		manuals.Add(s)
	}
	return s, nil
}

// IsArrayed reports whether this series holds cells (vs. raw bytes).
func (s *Series) IsArrayed() bool { return s.arrayed }

// IsInline reports whether this series' payload is stored in the
// header itself rather than a separate dynamic allocation.
func (s *Series) IsInline() bool { return s.inline }

// Flags exposes the bookkeeping bits for gc and bind to inspect/mutate.
func (s *Series) Flags() *Flags { return &s.flags }

// Len returns the valid content length, in elements.
func (s *Series) Len() int { return s.length }

// Rest returns the total usable capacity (elements), excluding any
// reserved END slot.
func (s *Series) Rest() int { return s.rest }

// Bias returns the reserved head capacity already consumed.
func (s *Series) Bias() int { return s.bias }

// SetLen sets the valid content length directly; callers are
// responsible for having written every element up to n (e.g. the
// lexer after pushing tokens, or Remake after a bulk copy).
func (s *Series) SetLen(n int) {
	if n < 0 || n > s.rest {
		panic("series: SetLen out of range")
	}
	s.length = n
}

// At returns a pointer to the arrayed cell at logical index i.
func (s *Series) At(i int) *cell.Cell {
	if !s.arrayed {
		panic("series: At called on a byte-wide series")
	}
	if i < 0 || i >= s.rest {
		panic("series: index out of range")
	}
	if s.inline {
		return &s.inlineCells[i]
	}
	return &s.cells[s.bias+i]
}

// End returns the array's terminator cell: the shared package-level
// END value for inline series (the header doubles as END), or the
// real trailing cell for dynamic series.
func (s *Series) End() *cell.Cell {
	if !s.arrayed {
		panic("series: End called on a byte-wide series")
	}
	if s.inline {
		return &sharedEnd
	}
	return &s.cells[s.bias+s.rest]
}

// Bytes returns the logical byte-wide content as a slice aliasing the
// series' own storage — callers must not retain it across an Expand.
func (s *Series) Bytes() []byte {
	if s.arrayed {
		panic("series: Bytes called on an arrayed series")
	}
	return s.bytes[s.bias : s.bias+s.length]
}

// Cells returns the logical arrayed content as a slice aliasing the
// series' own storage — same aliasing caveat as Bytes.
func (s *Series) Cells() []cell.Cell {
	if !s.arrayed {
		panic("series: Cells called on a byte-wide series")
	}
	if s.inline {
		return s.inlineCells[:s.length]
	}
	return s.cells[s.bias : s.bias+s.length]
}

// PutBytes copies data into the series' own storage starting at
// logical offset 0 and sets the logical length to len(data). Callers
// must have allocated enough capacity (e.g. via NewBytes) beforehand —
// this is the write side callers outside the package use to populate a
// byte-wide series built from scanned or computed content.
func (s *Series) PutBytes(data []byte) {
	if s.arrayed {
		panic("series: PutBytes called on an arrayed series")
	}
	if len(data) > s.rest {
		panic("series: PutBytes data exceeds capacity")
	}
	copy(s.bytes[s.bias:], data)
	s.length = len(data)
}

// Lock marks the series read-only (PROTECT).
func (s *Series) Lock() { s.flags.Set(FlagLocked) }

// Locked reports whether mutation is forbidden.
func (s *Series) Locked() bool { return s.flags.Has(FlagLocked) }
