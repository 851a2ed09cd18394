package series

import (
	"testing"

	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/pool"
)

func TestNewArrayEndSentinel(t *testing.T) {
	mgr := pool.New()
	manuals := NewManuals()
	s, err := NewArray(mgr, manuals, 4)
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	if !s.End().IsEnd() {
		t.Fatalf("expected capacity's reserved slot to carry the END flag (invariant 8.3)")
	}
	if manuals.Len() != 1 {
		t.Fatalf("expected series to be born on the manuals list")
	}
}

func TestExpandShrinkHeadRoundTrip(t *testing.T) {
	mgr := pool.New()
	manuals := NewManuals()
	s, _ := NewArray(mgr, manuals, 4)
	for i := 0; i < 4; i++ {
		s.At(i).SetInt64(int64(i))
	}
	s.SetLen(4)

	before := make([]int64, 4)
	for i := range before {
		before[i] = s.At(i).Int64()
	}

	if err := s.Expand(0, 2); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	s.At(0).SetInt64(100)
	s.At(1).SetInt64(200)
	s.SetLen(6)

	s.ShrinkHead(2)

	if s.Len() != 4 {
		t.Fatalf("len after shrink = %d, want 4", s.Len())
	}
	for i, want := range before {
		if got := s.At(i).Int64(); got != want {
			t.Fatalf("cell %d = %d, want %d (lossless round trip, invariant 8.8)", i, got, want)
		}
	}
}

func TestExpandTailInPlace(t *testing.T) {
	mgr := pool.New()
	manuals := NewManuals()
	s, _ := NewArray(mgr, manuals, 5) // one spare slot: Expand shifts the tail in place
	for i := 0; i < 4; i++ {
		s.At(i).SetInt64(int64(i))
	}
	s.SetLen(4)

	if err := s.Expand(2, 1); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	s.At(2).SetInt64(999)
	s.SetLen(5)

	want := []int64{0, 1, 999, 2, 3}
	for i, w := range want {
		if got := s.At(i).Int64(); got != w {
			t.Fatalf("cell %d = %d, want %d", i, got, w)
		}
	}
}

func TestLockedSeriesRejectsExpand(t *testing.T) {
	mgr := pool.New()
	manuals := NewManuals()
	s, _ := NewArray(mgr, manuals, 2)
	s.Lock()
	if err := s.Expand(0, 1); err == nil {
		t.Fatalf("expected locked series to reject Expand")
	}
}

func TestFreeRejectsManaged(t *testing.T) {
	mgr := pool.New()
	manuals := NewManuals()
	s, _ := NewArray(mgr, manuals, 2)
	s.Flags().Set(FlagManaged)
	if err := s.Free(manuals); err == nil {
		t.Fatalf("expected Free to reject a managed series")
	}
}

func TestHandleCleanerRunsOnFree(t *testing.T) {
	mgr := pool.New()
	manuals := NewManuals()
	s, _ := NewArray(mgr, manuals, 2)
	s.SetLen(1)

	ran := false
	h := &cell.Handle{Cleaner: func(h *cell.Handle) { ran = true }}
	h.BackRef = s
	s.At(0).SetHandle(h)

	if err := s.Free(manuals); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if !ran {
		t.Fatalf("expected handle cleaner to run")
	}
}

func TestNewBytesRoundTrip(t *testing.T) {
	mgr := pool.New()
	manuals := NewManuals()
	s, err := NewBytes(mgr, manuals, 10, false)
	if err != nil {
		t.Fatalf("NewBytes: %v", err)
	}
	copy(s.Bytes()[:0:s.Rest()], []byte("hello"))
	b := s.Bytes()
	copy(b[:5], "hello")
	s.SetLen(5)
	if string(s.Bytes()) != "hello" {
		t.Fatalf("Bytes() = %q, want hello", s.Bytes())
	}
}
