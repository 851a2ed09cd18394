package series

// Free releases a manually-owned series. It is a
// programmer error to call Free on a GC-managed series — the GC, not
// the caller, owns that lifetime from the moment FlagManaged is set.
func (s *Series) Free(m *Manuals) error {
	if s.flags.Has(FlagManaged) {
		return errNotManual
	}
	s.runHandleCleaner()
	if s.manuals != nil {
		s.manuals.Remove(s)
	} else if m != nil {
		m.Remove(s)
	}
	s.releaseBacking()
	return nil
}

// CollectManaged releases a GC-managed series' backing storage during
// a sweep. Only package gc calls this, after
// determining the series carries no mark bit; it is the managed-series
// counterpart to Free, without the manual-ownership guard or manuals
// list bookkeeping.
func (s *Series) CollectManaged() {
	s.runHandleCleaner()
	s.releaseBacking()
}

// releaseBacking returns the series' dynamic payload (if any) to the
// pool it came from; inline series own no separate allocation.
func (s *Series) releaseBacking() {
	if s.inline {
		return
	}
	if !s.arrayed && s.mgr != nil && s.byteCap > 0 {
		s.mgr.FreeBytes(s.bytes, s.byteCap)
		s.bytes = nil
		s.byteCap = 0
	}
	// Arrayed backing is a plain Go slice (holds cell.Cell values,
	// which may themselves hold interface references the Go GC must
	// trace) rather than pool-owned bytes, so there is nothing further
	// to return to a pool — dropping the slice reference is enough for
	// the Go runtime to reclaim it once nothing else points at it.
	s.cells = nil
}

// runHandleCleaner invokes the handle's cleaner if the array's first
// cell is a HANDLE! whose back-pointer targets this array.
func (s *Series) runHandleCleaner() {
	if !s.arrayed || s.length == 0 {
		return
	}
	first := s.At(0)
	h := first.Handle()
	if h == nil || h.Cleaner == nil {
		return
	}
	if back, ok := h.BackRef.(*Series); !ok || back != s {
		return
	}
	h.Cleaner(h)
}
