package host

import "testing"

func TestDoStringInteger(t *testing.T) {
	in, err := Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer in.Shutdown(true)

	kind, out, err := in.DoString("add 1 2", false)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if kind <= ResultVoid {
		t.Fatalf("got result kind %v, want a successful positive kind", kind)
	}
	if out.Int64() != 3 {
		t.Fatalf("add 1 2 = %d, want 3", out.Int64())
	}
}

func TestDoStringVoid(t *testing.T) {
	in, err := Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer in.Shutdown(true)

	kind, _, err := in.DoString("", false)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if kind != ResultVoid {
		t.Fatalf("empty program: got kind %v, want ResultVoid", kind)
	}
}

func TestWordMapRoundTrip(t *testing.T) {
	in, err := Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer in.Shutdown(true)

	s := in.MapWord("foo")
	if in.WordString(s) != "foo" {
		t.Fatalf("WordString round trip failed: got %q", in.WordString(s))
	}
	if found, ok := in.FindWord("foo"); !ok || found != s {
		t.Fatal("FindWord did not return the same symbol MapWord interned")
	}
	if _, ok := in.FindWord("never-interned-elsewhere"); ok {
		t.Fatal("FindWord should not find a word nobody has interned")
	}
}

func TestCodecRegistry(t *testing.T) {
	r := NewCodecRegistry()
	if _, ok := r.Lookup("json"); ok {
		t.Fatal("fresh registry should have no codecs registered")
	}
}

func TestEventQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	q.Push(Event{Type: "key"})
	q.Push(Event{Type: "resize"})
	first, ok := q.Pop()
	if !ok || first.Type != "key" {
		t.Fatalf("expected first event to be key, got %+v ok=%v", first, ok)
	}
	if q.Len() != 1 {
		t.Fatalf("expected 1 remaining event, got %d", q.Len())
	}
}
