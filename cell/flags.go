package cell

// Flags holds the header bits every cell carries alongside its Kind.
type Flags uint16

const (
	// FlagValid marks a cell as holding a fully-initialized value. A
	// cell on the chunk stack that has been reserved but not yet
	// written must NOT have this bit set — the evaluator checks it to
	// know which argument slots are safe for the GC to trace.
	FlagValid Flags = 1 << iota

	// FlagEnd distinguishes a live cell from the terminator written
	// into the last usable slot of every array.
	FlagEnd

	// FlagManaged means the GC owns this cell's series reference (if
	// any); manually-allocated series are invisible to mark-sweep.
	FlagManaged

	// FlagCell distinguishes a pairing (two cells glued back to back,
	// used for paired GC roots) from an ordinary series-backed cell.
	FlagCell

	// FlagRelative means a WORD!/array cell's binding refers to a
	// function paramlist rather than a concrete varlist — it must be
	// resolved against a specifier context (see bind.Resolve) before use.
	FlagRelative

	// FlagThrown means this cell (always a frame's `out`) is in
	// mid-unwind; the actual thrown payload lives in the process-wide
	// throw stash.
	FlagThrown

	// FlagLine records that a LF preceded this cell in source, purely
	// for re-molding with the original layout.
	FlagLine

	// FlagProtected forbids in-place mutation (PROTECT, or a running
	// frame's reified varlist held during a native hold).
	FlagProtected

	// FlagUnevaluated marks a literal that entered a frame's argument
	// slot without going through a further evaluation step (quoted
	// arguments).
	FlagUnevaluated
)

func (f Flags) Has(bit Flags) bool  { return f&bit != 0 }
func (f *Flags) Set(bit Flags)      { *f |= bit }
func (f *Flags) Clear(bit Flags)    { *f &^= bit }
func (f Flags) With(bit Flags) Flags {
	return f | bit
}
