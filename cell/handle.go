package cell

// Handle wraps an opaque foreign pointer (an FFI library handle, an
// open file descriptor, a GC-unmanaged C buffer, ...). Cleaner, if
// set, runs when the handle's owning series is freed and BackRef still
// points at that same series.
type Handle struct {
	Data    any
	Cleaner func(*Handle)
	BackRef any // set by the allocator to the owning series, for the back-pointer check
}

// SetHandle stores h as c's payload.
func (c *Cell) SetHandle(h *Handle) {
	c.Reset(KindHandle)
	c.ref = h
}

// Handle returns the handle payload, or nil if c is not a HANDLE!.
func (c *Cell) Handle() *Handle {
	h, _ := c.ref.(*Handle)
	return h
}
