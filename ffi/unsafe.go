package ffi

import (
	"unsafe"

	"github.com/wyrmlang/wyrmcore/cell"
)

// ptrOf and cellAddr centralize the package's two unsafe.Pointer
// conversions (a byte-wide series' backing storage, and a cell's own
// address for the "rebval" primitive) so the rest of convert.go reads
// as ordinary byte marshalling code.
func ptrOf(b *byte) unsafe.Pointer { return unsafe.Pointer(b) }

func cellAddr(c *cell.Cell) unsafe.Pointer { return unsafe.Pointer(c) }
