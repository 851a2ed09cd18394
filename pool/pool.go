// Package pool implements a size-classed slab allocator: fixed-width
// nodes (AllocNode/FreeNode) and variable-size payloads
// (AllocBytes/FreeBytes). Within wyrmcore its only client is the series
// layer's byte-wide payloads; cells, series headers and arrayed series
// storage are ordinary Go allocations and do not go through it.
// It is deliberately ignorant of what it is allocating — every request
// is just "a block of N bytes" to this package, kept separate from the
// series layer built on top of it.
package pool

import (
	"os"

	"github.com/pkg/errors"
)

// BIG is the tunable size-class ceiling: classes exist for
// requests up to 4*BIG, everything larger bypasses pooling.
const BIG = 256

// Class describes one size class: every node handed out by this class
// is exactly Wide bytes, and a freshly-filled segment holds Units of
// them.
type Class struct {
	Wide  int
	Units int
}

// classTable is the static size-class table. Widths are 8-byte
// aligned, and include 16/32 (the two possible cell widths) and a
// handful of common series-header and small-string sizes so most
// core allocations hit a pool.
var classTable = []Class{
	{Wide: 8, Units: 1024},
	{Wide: 16, Units: 1024}, // cell pool (32-bit pointer width)
	{Wide: 24, Units: 512},
	{Wide: 32, Units: 1024}, // cell pool (64-bit pointer width) / series header
	{Wide: 40, Units: 512},
	{Wide: 48, Units: 512},
	{Wide: 64, Units: 512},
	{Wide: 80, Units: 256},
	{Wide: 96, Units: 256},
	{Wide: 128, Units: 256},
	{Wide: 160, Units: 128},
	{Wide: 192, Units: 128},
	{Wide: 224, Units: 128},
	{Wide: 256, Units: 128}, // BIG
	{Wide: 320, Units: 64},
	{Wide: 384, Units: 64},
	{Wide: 448, Units: 64},
	{Wide: 512, Units: 64},
	{Wide: 640, Units: 32},
	{Wide: 768, Units: 32},
	{Wide: 896, Units: 32},
	{Wide: 1024, Units: 16}, // 4*BIG, the last pooled class
}

type freeNode struct {
	data []byte
	next *freeNode
}

type nodePool struct {
	class    Class
	free     *freeNode
	segments [][]byte
	has      int64 // total nodes ever carved for this class
	live     int64 // nodes currently allocated (not on the free list)
}

// Manager owns every size class plus the accounting counters the GC
// and the "memory" security policy read.
type Manager struct {
	pools   []nodePool
	byClass map[int]int // width -> index into pools

	used    int64 // mem_used: bytes currently allocated through this manager
	ballast int64 // counts down to zero to request a GC recycle
	recycle bool

	debugBypass bool // WYRM_POOL_DEBUG=1: go straight to the Go allocator
}

// DefaultBallast is the byte threshold a fresh Manager arms its
// recycle signal with; gc.Collector resets it after each cycle.
const DefaultBallast = 4 << 20 // 4 MiB

// New returns a ready Manager with the standard class table installed.
func New() *Manager {
	m := &Manager{
		pools:       make([]nodePool, len(classTable)),
		byClass:     make(map[int]int, len(classTable)),
		ballast:     DefaultBallast,
		debugBypass: os.Getenv("WYRM_POOL_DEBUG") == "1",
	}
	for i, c := range classTable {
		m.pools[i] = nodePool{class: c}
		m.byClass[c.Wide] = i
	}
	return m
}

// classFor returns the index of the smallest class whose width covers
// size, or -1 if size exceeds the largest pooled class (4*BIG).
func (m *Manager) classFor(size int) int {
	for i, c := range classTable {
		if c.Wide >= size {
			return i
		}
	}
	return -1
}

// fill carves one freshly-allocated segment into class.Units equal
// free nodes and chains them onto the pool's free list. Segment
// backing is platform-specific (segment_unix.go / segment_other.go),
// split along per-GOOS lines the way platform-specific runtime
// concerns usually are.
func (p *nodePool) fill() error {
	seg, err := newSegment(p.class.Wide * p.class.Units)
	if err != nil {
		return errors.Wrapf(err, "pool: fill class wide=%d", p.class.Wide)
	}
	p.segments = append(p.segments, seg)
	for i := p.class.Units - 1; i >= 0; i-- {
		node := seg[i*p.class.Wide : (i+1)*p.class.Wide : (i+1)*p.class.Wide]
		p.free = &freeNode{data: node, next: p.free}
	}
	p.has += int64(p.class.Units)
	return nil
}

// AllocNode returns a zeroed block of exactly `wide` bytes from the
// matching size class, filling the class from a fresh segment if its
// free list is empty. wide must equal one of classTable's widths
// exactly — cell and series headers always request their own fixed
// width.
func (m *Manager) AllocNode(wide int) ([]byte, error) {
	if m.debugBypass {
		return m.debugAlloc(wide), nil
	}
	idx, ok := m.byClass[wide]
	if !ok {
		return nil, errors.Errorf("pool: no node class for width %d", wide)
	}
	p := &m.pools[idx]
	if p.free == nil {
		if err := p.fill(); err != nil {
			return nil, err
		}
	}
	n := p.free
	p.free = n.next
	p.live++
	m.recordAlloc(int64(wide))
	return n.data, nil
}

// FreeNode returns a node to its class's free list; the header is
// zeroed to mark it free.
func (m *Manager) FreeNode(wide int, node []byte) {
	if m.debugBypass {
		m.debugFree(node)
		return
	}
	idx, ok := m.byClass[wide]
	if !ok {
		return
	}
	for i := range node {
		node[i] = 0
	}
	p := &m.pools[idx]
	p.free = &freeNode{data: node, next: p.free}
	p.live--
	m.recordFree(int64(wide))
}

// AllocBytes implements the variable-payload allocator. Requests that fit a pooled class are served from
// that class (actual_size is the class width, which may exceed size);
// larger requests bypass pooling and go straight to the segment
// backend, optionally rounded up to a power of two at or above 2048.
func (m *Manager) AllocBytes(size int, roundPow2 bool) ([]byte, int, error) {
	if size <= 0 {
		size = 1
	}
	if m.debugBypass {
		buf := m.debugAlloc(size)
		return buf, size, nil
	}
	if idx := m.classFor(size); idx >= 0 {
		p := &m.pools[idx]
		if p.free == nil {
			if err := p.fill(); err != nil {
				return nil, 0, err
			}
		}
		n := p.free
		p.free = n.next
		p.live++
		m.recordAlloc(int64(p.class.Wide))
		return n.data, p.class.Wide, nil
	}

	actual := size
	if roundPow2 && size > BIG {
		actual = nextPow2(size)
		if actual < 2048 {
			actual = 2048
		}
	}
	buf, err := newSegment(actual)
	if err != nil {
		return nil, 0, errors.Wrap(err, "pool: alloc_bytes oversized request")
	}
	m.recordAlloc(int64(actual))
	return buf, actual, nil
}

// FreeBytes returns a payload allocated by AllocBytes. size must be the
// actual_size AllocBytes reported — the caller, not the allocator,
// remembers how big the block was.
func (m *Manager) FreeBytes(buf []byte, size int) {
	if m.debugBypass {
		m.debugFree(buf)
		return
	}
	if idx, ok := m.byClass[size]; ok {
		p := &m.pools[idx]
		for i := range buf {
			buf[i] = 0
		}
		p.free = &freeNode{data: buf, next: p.free}
		p.live--
		m.recordFree(int64(size))
		return
	}
	// Oversized block: it owns its own segment, so hand that back to
	// the OS (a no-op off unix, where the Go GC reclaims it) and drop
	// the accounting.
	_ = releaseSegment(buf)
	m.recordFree(int64(size))
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// recordAlloc/recordFree keep mem_used and the recycle ballast in sync.
func (m *Manager) recordAlloc(n int64) {
	m.used += n
	m.ballast -= n
	if m.ballast <= 0 {
		m.recycle = true
	}
}

func (m *Manager) recordFree(n int64) {
	m.used -= n
}

// Used returns the current mem_used accounting counter.
func (m *Manager) Used() int64 { return m.used }

// NeedsRecycle reports whether the ballast has crossed zero since the
// last ResetBallast, i.e. whether the GC should run at the next safe
// point.
func (m *Manager) NeedsRecycle() bool { return m.recycle }

// ResetBallast is called by gc.Collector after a mark-sweep pass,
// re-arming the next threshold.
func (m *Manager) ResetBallast(n int64) {
	m.ballast = n
	m.recycle = false
}

// Stats reports per-class bookkeeping: has = free + live, summed
// with width gives mem_used.
type Stats struct {
	Wide int
	Has  int64
	Live int64
	Free int64
}

func (m *Manager) Stats() []Stats {
	out := make([]Stats, len(m.pools))
	for i, p := range m.pools {
		free := p.has - p.live
		out[i] = Stats{Wide: p.class.Wide, Has: p.has, Live: p.live, Free: free}
	}
	return out
}
