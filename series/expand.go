package series

import "github.com/wyrmlang/wyrmcore/cell"

// mruDepth is the size of the "recently expanded" tracking table used
// to decide when to double on growth instead of growing by exactly the
// requested delta.
const mruDepth = 8

// mruTable is a tiny fixed-size most-recently-expanded cache, checked
// before every Expand that must reallocate.
type mruTable struct {
	entries [mruDepth]*Series
	next    int
}

func (t *mruTable) seen(s *Series) bool {
	for _, e := range t.entries {
		if e == s {
			return true
		}
	}
	return false
}

func (t *mruTable) record(s *Series) {
	t.entries[t.next] = s
	t.next = (t.next + 1) % mruDepth
}

var globalMRU mruTable

// Expand grows the series so that inserting `delta` elements at
// logical `index` does not overflow capacity, trying three cases in
// order: O(1) bias-region reuse, in-place tail shift, and full
// reallocation (with amortized doubling once the series has recently
// been expanded before).
func (s *Series) Expand(index, delta int) error {
	if s.flags.Has(FlagFixedSize) || s.flags.Has(FlagLocked) {
		return errSeriesLocked
	}
	if delta <= 0 {
		return nil
	}
	if s.inline {
		s.promoteFromInline(delta)
	}

	// Case 1: expanding at the head and we have unused bias room —
	// O(1), just reclaim part of the reserved head capacity.
	if index == 0 && s.bias >= delta {
		s.bias -= delta
		s.rest += delta
		s.openGapHead(delta)
		return nil
	}

	// Case 2: there is enough room after length to shift the tail
	// forward in place without reallocating.
	if s.length+delta <= s.rest {
		s.shiftTail(index, delta)
		return nil
	}

	// Case 3: reallocate. Double the request if this series has
	// recently been expanded, to smooth amortized cost; otherwise grow
	// by exactly what's needed.
	needed := s.length + delta
	newRest := needed
	if globalMRU.seen(s) {
		newRest = needed * 2
	}
	globalMRU.record(s)
	return s.grow(index, delta, newRest)
}

// promoteFromInline moves an inline series' content into a real
// dynamic backing array so Expand's bias/tail machinery applies
// uniformly from here on.
func (s *Series) promoteFromInline(extra int) {
	newRest := inlineCapacity + extra
	if s.arrayed {
		cells := make([]cell.Cell, newRest+1)
		copy(cells, s.inlineCells[:s.length])
		cells[newRest].SetEnd()
		s.cells = cells
	} else {
		b := make([]byte, newRest)
		copy(b, s.bytes[:s.length])
		s.bytes = b
	}
	s.inline = false
	s.bias = 0
	s.rest = newRest
}

// openGapHead clears the delta slots just reclaimed from the bias
// region (case 1). The existing content already sits right after them,
// so nothing moves; byte-wide gaps are left as-is for the caller to
// fill, as in shiftTail.
func (s *Series) openGapHead(delta int) {
	if s.arrayed {
		for i := 0; i < delta; i++ {
			s.cells[s.bias+i] = cell.Cell{}
		}
	}
}

// shiftTail opens an in-place gap of `delta` elements at `index` by
// sliding the tail forward (case 2); the gap itself is left
// uninitialized (zero cells/bytes) for the caller to fill.
func (s *Series) shiftTail(index, delta int) {
	if s.arrayed {
		base := s.bias
		copy(s.cells[base+index+delta:base+s.length+delta], s.cells[base+index:base+s.length])
		for i := 0; i < delta; i++ {
			s.cells[base+index+i] = cell.Cell{}
		}
	} else {
		base := s.bias
		copy(s.bytes[base+index+delta:base+s.length+delta], s.bytes[base+index:base+s.length])
	}
}

// grow reallocates to newRest capacity, copying head then tail around
// the new gap at index.
func (s *Series) grow(index, delta, newRest int) error {
	if s.arrayed {
		cells := make([]cell.Cell, newRest+1)
		copy(cells[:index], s.cells[s.bias:s.bias+index])
		copy(cells[index+delta:index+delta+(s.length-index)], s.cells[s.bias+index:s.bias+s.length])
		cells[newRest].SetEnd()
		s.cells = cells
	} else {
		b := make([]byte, newRest)
		copy(b[:index], s.bytes[s.bias:s.bias+index])
		copy(b[index+delta:index+delta+(s.length-index)], s.bytes[s.bias+index:s.bias+s.length])
		if s.mgr != nil && s.byteCap > 0 {
			s.mgr.FreeBytes(s.bytes, s.byteCap)
		}
		s.bytes = b
		s.byteCap = 0
	}
	s.bias = 0
	s.rest = newRest
	return nil
}

// ShrinkHead removes `n` elements from the front without freeing any
// capacity — the inverse of Expand(0, n), and together with it makes
// expand-then-shrink-head lossless.
func (s *Series) ShrinkHead(n int) {
	if n <= 0 || n > s.length {
		panic("series: ShrinkHead out of range")
	}
	s.bias += n
	s.rest -= n
	s.length -= n
}

// Remake reallocates the series to a new capacity, optionally
// preserving the first min(len, newCapacity) elements. Changing width while preserving content is forbidden —
// there is no width here to change since byte-wide vs. arrayed is
// fixed at construction, so that restriction is automatically upheld.
func (s *Series) Remake(newCapacity int, preserve bool) error {
	if s.flags.Has(FlagLocked) {
		return errSeriesLocked
	}
	keep := 0
	if preserve {
		keep = s.length
		if keep > newCapacity {
			keep = newCapacity
		}
	}
	if s.arrayed {
		cells := make([]cell.Cell, newCapacity+1)
		if keep > 0 {
			copy(cells, s.Cells()[:keep])
		}
		cells[newCapacity].SetEnd()
		s.cells = cells
	} else {
		b := make([]byte, newCapacity)
		if keep > 0 {
			copy(b, s.Bytes()[:keep])
		}
		if s.mgr != nil && s.byteCap > 0 {
			s.mgr.FreeBytes(s.bytes, s.byteCap)
		}
		s.bytes = b
		s.byteCap = 0
	}
	s.inline = false
	s.bias = 0
	s.rest = newCapacity
	s.length = keep
	return nil
}
