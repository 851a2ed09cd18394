package pool

import "encoding/binary"

// debugStampSize is the size-stamped prefix written ahead of every
// debug-bypass allocation. debugFree does not read it back (see
// there); the bypass exists so external memory-error detectors
// (ASan-style tooling wrapping the process) see ordinary allocator
// traffic instead of pool traffic.
const debugStampSize = 8

// debugAlloc bypasses pooling entirely and calls straight through to
// the Go allocator, stamping the requested size ahead of the returned
// slice.
func (m *Manager) debugAlloc(size int) []byte {
	buf := make([]byte, size+debugStampSize)
	binary.LittleEndian.PutUint64(buf, uint64(size))
	m.recordAlloc(int64(size))
	return buf[debugStampSize:]
}

// debugFree only updates the accounting; it does not check the stamp
// written by debugAlloc, and the Go GC does the actual reclamation.
func (m *Manager) debugFree(data []byte) {
	// The stamp lives debugStampSize bytes before data; recovering it
	// would require the original full slice, which callers do not
	// retain. Debug mode trades that check away in exchange for
	// running entirely outside the pool/segment machinery, which is
	// the point: it exists so an external detector sees vanilla
	// malloc/free calls.
	m.recordFree(int64(len(data)))
}
