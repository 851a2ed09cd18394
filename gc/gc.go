package gc

import (
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/series"
)

// Roots supplies every GC root the mark phase must start from: the
// pinned interpreter globals, the value/data stack,
// and a callback into the evaluator for the frame chain's output
// cells, scratch cells and argument slabs — kept as a callback rather
// than a concrete frame type for the same reason Traceable is an
// interface: it keeps gc free of any dependency on eval, which sits
// above it.
type Roots struct {
	Pinned     []*cell.Cell
	Stack      []*cell.Cell
	FrameCells func() []*cell.Cell
	Manuals    *series.Manuals
}

// Collector is the process-wide mark-sweep GC. It only ever sweeps
// series it was told to Manage — manually-owned series are never its
// concern until promoted.
type Collector struct {
	mgr     *pool.Manager
	managed map[*series.Series]struct{}
	roots   Roots

	cycles int
}

// New returns a Collector bound to mgr's ballast/accounting counters.
func New(mgr *pool.Manager) *Collector {
	return &Collector{mgr: mgr, managed: make(map[*series.Series]struct{})}
}

// SetRoots installs (or replaces) the root set the next Recycle walks.
func (c *Collector) SetRoots(r Roots) { c.roots = r }

// Manage promotes s from a manuals list to GC ownership.
func (c *Collector) Manage(s *series.Series, owner *series.Manuals) {
	if s.Flags().Has(series.FlagManaged) {
		return
	}
	if owner != nil {
		owner.Remove(s)
	}
	s.Flags().Set(series.FlagManaged)
	c.managed[s] = struct{}{}
}

// ManagedCount reports how many series the collector currently owns,
// for tests and the embedding API's introspection surface.
func (c *Collector) ManagedCount() int { return len(c.managed) }

// Stats summarizes one Recycle pass.
type Stats struct {
	Marked int
	Swept  int
}

// Recycle runs one full stop-the-world mark-sweep cycle. It must only be called when no partially-initialized
// cell is reachable from the roots — the evaluator
// is responsible for only calling it between steps or at an explicit
// safe point.
func (c *Collector) Recycle() Stats {
	for s := range c.managed {
		s.Flags().Clear(series.FlagMarked)
	}

	mark := func(s *series.Series) { s.Flags().Set(series.FlagMarked) }

	for i := range c.roots.Pinned {
		traceCell(c.roots.Pinned[i], mark)
	}
	for i := range c.roots.Stack {
		traceCell(c.roots.Stack[i], mark)
	}
	if c.roots.FrameCells != nil {
		for _, fc := range c.roots.FrameCells() {
			traceCell(fc, mark)
		}
	}
	if c.roots.Manuals != nil {
		for _, s := range c.roots.Manuals.All() {
			traceSeries(s, mark)
		}
	}

	marked := 0
	var dead []*series.Series
	for s := range c.managed {
		if s.Flags().Has(series.FlagMarked) {
			marked++
			continue
		}
		dead = append(dead, s)
	}
	for _, s := range dead {
		delete(c.managed, s)
		s.CollectManaged()
	}

	c.cycles++
	c.mgr.ResetBallast(pool.DefaultBallast)
	return Stats{Marked: marked, Swept: len(dead)}
}

// Cycles reports how many Recycle passes have run, for diagnostics.
func (c *Collector) Cycles() int { return c.cycles }

// NeedsRecycle mirrors the pool's ballast signal.
func (c *Collector) NeedsRecycle() bool { return c.mgr.NeedsRecycle() }
