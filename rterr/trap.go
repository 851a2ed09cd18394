package rterr

// Mark records high-water marks for the data stack, the chunk
// stack, the manually-managed series list, and the guarded-series
// stack at the time a trap is pushed; Catch does not truncate anything
// to them. Whoever pushes a trap computes these depths and passes
// them in — rterr itself never touches those stacks,
// matching the dependency direction the rest of the module uses to
// avoid import cycles.
type Mark struct {
	DataStack  int
	ChunkStack int
	ManualsLen int
	GuardDepth int
}

// Trap is one entry in the trap stack a catch/trap-style construct
// pushes before running a protected body.
type Trap struct {
	Mark       Mark
	Unhaltable bool
	prior      *Trap
}

// Stack is the process-wide trap stack. The zero value is ready to
// use; the interpreter is single-threaded cooperative, so it is never
// accessed concurrently.
type Stack struct {
	top *Trap
}

// Push records a new trap at the given mark, returning it so the
// caller can later Pop exactly this one (traps nest strictly LIFO).
func (s *Stack) Push(mark Mark, unhaltable bool) *Trap {
	t := &Trap{Mark: mark, Unhaltable: unhaltable, prior: s.top}
	s.top = t
	return t
}

// Pop removes the top trap, panicking if it is not t — a caller that
// pops out of order has a bug in frame teardown ordering.
func (s *Stack) Pop(t *Trap) {
	if s.top != t {
		panic("rterr: trap popped out of LIFO order")
	}
	s.top = t.prior
}

// Top returns the current innermost trap, or nil if none is pushed.
func (s *Stack) Top() *Trap {
	return s.top
}

// thrown is the panic payload Raise produces; Catch recovers exactly
// this type and lets any other panic continue propagating.
type thrown struct {
	err *Error
}

// Raise unwinds to the nearest matching trap via panic, the Go
// equivalent of the source's long-jump-based error propagation.
func Raise(err *Error) {
	panic(thrown{err: err})
}

// Catch runs body, recovering a Raise-d Error and returning it instead
// of letting it escape. A HALT error only stops at an unhaltable trap
// (isUnhaltable); otherwise Catch re-raises it so an outer trap gets a
// chance.
func Catch(isUnhaltable bool, body func()) (err *Error) {
	defer func() {
		if r := recover(); r != nil {
			th, ok := r.(thrown)
			if !ok {
				panic(r)
			}
			if IsHalt(th.err) && !isUnhaltable {
				panic(th)
			}
			err = th.err
		}
	}()
	body()
	return nil
}
