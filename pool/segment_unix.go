//go:build unix

package pool

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// newSegment carves a fresh OS-backed segment for a pool class to
// slice into nodes, or for an oversized alloc_bytes request. On unix this goes straight to an anonymous mmap
// rather than the Go heap, the way the source's segment allocator
// talks to the OS directly rather than through a GC'd allocator — the
// same reasoning that leads the retrieval pack's userfaultfd VM
// (dh-cli's uffd_linux.go) to call unix.Mmap instead of make([]byte).
func newSegment(size int) ([]byte, error) {
	if size <= 0 {
		size = unix.Getpagesize()
	}
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, errors.Wrap(err, "pool: mmap segment")
	}
	return buf, nil
}

// releaseSegment returns a segment's backing pages to the OS.
// FreeBytes calls it for oversized blocks; the segments carved into
// pool classes are never released and live for the process lifetime,
// like the source's pool segments.
func releaseSegment(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return unix.Munmap(buf)
}
