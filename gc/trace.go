// Package gc implements the stop-the-world mark-sweep collector that
// owns every series once it transitions out of the manuals list. It
// deliberately knows nothing about contexts, functions or frames as
// concrete types — those live in higher packages (bind, eval, ffi)
// that would have to import gc to register themselves, which would
// create an import cycle the other way. Instead anything a cell can
// reference that needs deep tracing implements Traceable; gc
// discovers it structurally.
package gc

import (
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/series"
)

// Traceable is implemented by any reference-typed cell payload (a
// bind.Context, an eval.Function, an ffi.Routine, ...) that owns
// series or cells the GC must follow to find everything reachable.
type Traceable interface {
	GCSeries() []*series.Series
	GCCells() []*cell.Cell
}

// traceCell marks whatever the cell references and recurses into it.
// mark is idempotent — calling it on an already-marked series is a
// cheap no-op check, which is what makes the recursion terminate on
// cyclic structures.
func traceCell(c *cell.Cell, mark func(*series.Series)) {
	if c == nil || c.IsEnd() {
		return
	}
	traceRef(c.Ref(), mark)
	traceRef(c.Binding(), mark)
}

func traceRef(ref any, mark func(*series.Series)) {
	switch r := ref.(type) {
	case nil:
		return
	case *series.Series:
		traceSeries(r, mark)
	case Traceable:
		for _, s := range r.GCSeries() {
			traceSeries(s, mark)
		}
		for _, c := range r.GCCells() {
			traceCell(c, mark)
		}
	}
}

// traceSeries marks s and, if it is an array, recurses into its live
// cells. The mark bit itself prevents revisiting a series already
// marked in this cycle, so cyclic block structures (a block containing
// itself) terminate correctly.
func traceSeries(s *series.Series, mark func(*series.Series)) {
	if s == nil {
		return
	}
	if s.Flags().Has(series.FlagMarked) {
		return
	}
	mark(s)
	if !s.IsArrayed() {
		return
	}
	cells := s.Cells()
	for i := range cells {
		traceCell(&cells[i], mark)
	}
}
