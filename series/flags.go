package series

// Flags holds per-series bookkeeping bits.
type Flags uint8

const (
	// FlagManaged means the GC, not the manuals list, owns freeing
	// this series.
	FlagManaged Flags = 1 << iota

	// FlagFixedSize forbids Expand/Remake from growing the series —
	// set on series whose capacity must never move (e.g. a frame's
	// chunk-backed argument window).
	FlagFixedSize

	// FlagLocked forbids both growth and mutation (PROTECT'd series).
	FlagLocked

	// FlagMarked is the GC's own per-cycle mark bit. It is
	// cleared at the start of every mark phase.
	FlagMarked

	// FlagGCManuals marks the one series that is itself the manuals
	// list's backing array — it is exempt from being added to its own
	// list.
	FlagGCManuals
)

func (f Flags) Has(bit Flags) bool   { return f&bit != 0 }
func (f *Flags) Set(bit Flags)       { *f |= bit }
func (f *Flags) Clear(bit Flags)     { *f &^= bit }
