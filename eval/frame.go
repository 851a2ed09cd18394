package eval

import (
	"github.com/wyrmlang/wyrmcore/bind"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/series"
	"github.com/wyrmlang/wyrmcore/sym"
)

// EvalType distinguishes how a frame is being driven.
type EvalType uint8

const (
	EvalNormal EvalType = iota
	EvalFunction
	EvalLookback
	EvalPickup
)

// FrameFlags are the per-frame bits: to-end, no-lookahead, va-list,
// native-hold.
type FrameFlags uint8

const (
	FlagToEnd FrameFlags = 1 << iota
	FlagNoLookahead
	FlagVAList
	FlagNativeHold
)

func (f FrameFlags) Has(bit FrameFlags) bool { return f&bit != 0 }

// Frame is one call/step activation. Fields unused by a given
// eval_type are simply left zero.
type Frame struct {
	Prior     *Frame
	Out       *cell.Cell
	Value     *cell.Cell
	Index     int
	Array     *series.Series
	Specifier *bind.Context

	ParamIdx int // cursor into Func.Paramlist.Keys
	ArgIdx   int // cursor into the argument slab
	Special  *bind.Context

	Func       *Function
	Underlying *Function
	Binding    *bind.Context
	Label      *sym.Symbol

	Cell cell.Cell // inline GC-safe scratch

	Varlist        *series.Series // nil until reified
	reifiedContext *bind.Context

	EvalType EvalType
	DSPOrig  int
	Flags    FrameFlags

	args  []cell.Cell // the argument slab (arg_head)
	chunk *Chunk       // non-nil while args is chunk-backed
}

// ArgCells returns the frame's argument slab.
func (f *Frame) ArgCells() []cell.Cell { return f.args }

// Arg returns a pointer to argument slot i (0-based).
func (f *Frame) Arg(i int) *cell.Cell { return &f.args[i] }

// allocArgs handles argument-slab allocation: arity 0 needs nothing and
// the frame's own scratch cell is free to reuse; anything larger pushes
// a chunk of exactly that many cells on the chunk stack.
func (f *Frame) allocArgs(chunks *ChunkStack, arity int) {
	if arity == 0 {
		f.args = nil
		return
	}
	f.chunk = chunks.Push(arity)
	f.args = f.chunk.Cells()
}

// releaseArgs pops the frame's chunk, if any. Called on ordinary frame
// teardown; error unwinds instead truncate the chunk stack directly to
// a trap's recorded mark.
func (f *Frame) releaseArgs(chunks *ChunkStack) {
	if f.chunk != nil {
		chunks.Pop(f.chunk)
		f.chunk = nil
	}
}

// Reify promotes the frame's varlist to a managed, reachable FRAME!
// context. Once reified, a closure capturing
// this frame's arguments keeps working after the call returns, because
// the values now live in a heap-backed varlist rather than only the
// chunk stack.
func (f *Frame) Reify(mgr *pool.Manager, manuals *series.Manuals) (*bind.Context, error) {
	if f.reifiedContext != nil {
		return f.reifiedContext, nil
	}
	keys := f.Func.Paramlist.Keys
	ctx, err := bind.New(mgr, manuals, cell.KindFrame, keys)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		ctx.Varlist.At(i + 1).CopyFrom(f.Arg(i))
	}
	f.Varlist = ctx.Varlist
	f.reifiedContext = ctx
	return ctx, nil
}
