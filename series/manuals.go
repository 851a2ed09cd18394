package series

// Manuals is the "born in the manuals list" registry every series
// joins at construction until it is either
// explicitly freed, promoted to GC-managed, or swept when an error
// unwind abandons the frame that owned it.
//
// The registry itself is a plain set, and is itself a GC root: a
// series someone forgot to promote or free must never be collected
// out from under them.
type Manuals struct {
	set  map[*Series]struct{}
	self *Series // the series backing this list itself, if any (rare)
}

// NewManuals returns an empty registry.
func NewManuals() *Manuals {
	return &Manuals{set: make(map[*Series]struct{})}
}

// Add registers s as manually-owned.
func (m *Manuals) Add(s *Series) {
	s.manuals = m
	m.set[s] = struct{}{}
}

// Remove drops s from the registry, e.g. because it was just promoted
// to GC-managed or explicitly freed.
func (m *Manuals) Remove(s *Series) {
	delete(m.set, s)
	if s.manuals == m {
		s.manuals = nil
	}
}

// Len reports how many series are currently manually owned.
func (m *Manuals) Len() int { return len(m.set) }

// All returns every manually-owned series, for the GC root walk.
func (m *Manuals) All() []*Series {
	out := make([]*Series, 0, len(m.set))
	for s := range m.set {
		out = append(out, s)
	}
	return out
}

// TruncateTo restores the registry to contain exactly `keep` (a
// snapshot taken at trap-push time), dropping everything registered
// since and returning the dropped series.
// Series present in keep are left alone; anything else currently in
// the registry is dropped but not freed (the caller is responsible for
// actually releasing payload memory via Free, which also runs HANDLE!
// cleaners).
func (m *Manuals) TruncateTo(keep []*Series) []*Series {
	keepSet := make(map[*Series]struct{}, len(keep))
	for _, s := range keep {
		keepSet[s] = struct{}{}
	}
	var dropped []*Series
	for s := range m.set {
		if _, ok := keepSet[s]; !ok {
			dropped = append(dropped, s)
			delete(m.set, s)
		}
	}
	return dropped
}

func (m *Manuals) isSelf(s *Series) bool {
	return m.self == s
}

// MarkSelf designates s as the series backing the manuals list's own
// storage, exempting it from being added to itself.
func (m *Manuals) MarkSelf(s *Series) {
	m.self = s
	s.flags.Set(FlagGCManuals)
}
