package pool

import "testing"

func TestAllocNodeRoundTrip(t *testing.T) {
	m := New()
	n, err := m.AllocNode(32)
	if err != nil {
		t.Fatalf("AllocNode: %v", err)
	}
	if len(n) != 32 {
		t.Fatalf("len = %d, want 32", len(n))
	}
	n[0] = 0xFF
	m.FreeNode(32, n)
	if n[0] != 0 {
		t.Fatalf("expected FreeNode to zero the header")
	}
}

func TestStatsInvariant(t *testing.T) {
	m := New()
	var nodes [][]byte
	for i := 0; i < 5; i++ {
		n, err := m.AllocNode(16)
		if err != nil {
			t.Fatalf("AllocNode: %v", err)
		}
		nodes = append(nodes, n)
	}
	for _, n := range nodes {
		m.FreeNode(16, n)
	}
	for _, s := range m.Stats() {
		if s.Wide != 16 {
			continue
		}
		if s.Has != s.Free+s.Live {
			t.Fatalf("class %d: has=%d != free=%d + live=%d", s.Wide, s.Has, s.Free, s.Live)
		}
		if s.Live != 0 {
			t.Fatalf("expected all nodes freed, live=%d", s.Live)
		}
	}
}

func TestAllocBytesPooledVsOversized(t *testing.T) {
	m := New()
	buf, actual, err := m.AllocBytes(10, false)
	if err != nil {
		t.Fatalf("AllocBytes: %v", err)
	}
	if actual < 10 {
		t.Fatalf("actual = %d, too small for request of 10", actual)
	}
	m.FreeBytes(buf, actual)

	big, actual2, err := m.AllocBytes(5000, true)
	if err != nil {
		t.Fatalf("AllocBytes big: %v", err)
	}
	if actual2 < 5000 || actual2&(actual2-1) != 0 {
		t.Fatalf("expected power-of-two round-up >= 5000, got %d", actual2)
	}
	m.FreeBytes(big, actual2)
}

func TestBallastTriggersRecycle(t *testing.T) {
	m := New()
	m.ResetBallast(10)
	if m.NeedsRecycle() {
		t.Fatalf("should not need recycle immediately after reset")
	}
	if _, _, err := m.AllocBytes(64, false); err != nil {
		t.Fatalf("AllocBytes: %v", err)
	}
	if !m.NeedsRecycle() {
		t.Fatalf("expected ballast to cross zero and request a recycle")
	}
}
