package gc

import (
	"testing"

	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/series"
)

func TestRecycleCollectsUnreachable(t *testing.T) {
	mgr := pool.New()
	manuals := series.NewManuals()
	collector := New(mgr)

	reachable, _ := series.NewArray(mgr, manuals, 2)
	unreachable, _ := series.NewArray(mgr, manuals, 2)

	collector.Manage(reachable, manuals)
	collector.Manage(unreachable, manuals)

	var root cell.Cell
	root.SetSeries(cell.KindBlock, reachable, 0)

	collector.SetRoots(Roots{Pinned: []*cell.Cell{&root}})

	stats := collector.Recycle()
	if stats.Marked != 1 {
		t.Fatalf("marked = %d, want 1", stats.Marked)
	}
	if stats.Swept != 1 {
		t.Fatalf("swept = %d, want 1", stats.Swept)
	}
	if collector.ManagedCount() != 1 {
		t.Fatalf("managed count = %d, want 1 (invariant 8.2)", collector.ManagedCount())
	}
}

func TestRecycleFollowsNestedBlocks(t *testing.T) {
	mgr := pool.New()
	manuals := series.NewManuals()
	collector := New(mgr)

	inner, _ := series.NewArray(mgr, manuals, 1)
	outer, _ := series.NewArray(mgr, manuals, 1)
	outer.SetLen(1)
	outer.At(0).SetSeries(cell.KindBlock, inner, 0)

	collector.Manage(inner, manuals)
	collector.Manage(outer, manuals)

	var root cell.Cell
	root.SetSeries(cell.KindBlock, outer, 0)
	collector.SetRoots(Roots{Pinned: []*cell.Cell{&root}})

	stats := collector.Recycle()
	if stats.Marked != 2 {
		t.Fatalf("marked = %d, want 2 (outer and the block it contains)", stats.Marked)
	}
}
