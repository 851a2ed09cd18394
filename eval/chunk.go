// Package eval implements the evaluator's call protocol: a chunk
// stack for transient argument cells, the Frame structure, function
// dispatch (including enfix lookback and reification), and the
// tree-walking Do loop that drives evaluation of a scanned array.
package eval

import "github.com/wyrmlang/wyrmcore/cell"

// Chunk is one push-allocated slab of the chunk stack: a
// fixed-size run of cells backing one call's arguments, freed in LIFO
// order when the call ends.
type Chunk struct {
	cells []cell.Cell
	prior *Chunk
}

// Cells returns the chunk's argument slots.
func (c *Chunk) Cells() []cell.Cell { return c.cells }

// ChunkStack is the process-wide stack of argument chunks. The zero value is ready to use.
type ChunkStack struct {
	top *Chunk
}

// Push allocates a chunk of n cells, linking it above the current top
// so an error unwind can truncate back to any earlier chunk boundary.
func (cs *ChunkStack) Push(n int) *Chunk {
	cells := make([]cell.Cell, n)
	for i := range cells {
		cells[i].Init()
	}
	c := &Chunk{cells: cells, prior: cs.top}
	cs.top = c
	return c
}

// Pop releases a chunk, panicking if it is not the current top — chunk
// teardown is strictly LIFO with push order.
func (cs *ChunkStack) Pop(c *Chunk) {
	if cs.top != c {
		panic("eval: chunk popped out of LIFO order")
	}
	cs.top = c.prior
}

// Top returns the innermost live chunk, or nil.
func (cs *ChunkStack) Top() *Chunk { return cs.top }

// TruncateTo drops every chunk above mark.
func (cs *ChunkStack) TruncateTo(mark *Chunk) {
	cs.top = mark
}
