package host

import (
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/eval"
)

// FrmArg and FrmNumArgs are the frame-introspection entry points: a
// native written as a Go function rather than interpreted Rebol
// reaches its own arguments through the Frame eval hands it, the same
// Frame an FFI Routine's trampoline already reads via ArgCells (see
// ffi.Routine.NewFunction).
func FrmArg(f *eval.Frame, index int) *cell.Cell {
	return f.Arg(index)
}

func FrmNumArgs(f *eval.Frame) int {
	return len(f.ArgCells())
}
