package eval

import (
	"github.com/wyrmlang/wyrmcore/bind"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/rterr"
	"github.com/wyrmlang/wyrmcore/series"
)

// DispatcherKind is which of the function archetypes actually runs the
// call: interpreted, native, action, specializer, adapter, chainer,
// hijacker, routine, or callback.
type DispatcherKind uint8

const (
	DispatchInterpreted DispatcherKind = iota
	DispatchNative
	DispatchAction
	DispatchSpecializer
	DispatchAdapter
	DispatchChainer
	DispatchHijacker
	DispatchRoutine  // FFI forward call
	DispatchCallback // FFI reverse call
)

// NativeFunc is the Go closure backing a DispatchNative function. It
// receives the Evaluator (for process-wide state like the thrown-value
// stash) and the fully-fulfilled call Frame, and either returns a
// result or an *rterr.Error.
type NativeFunc func(ev *Evaluator, f *Frame) (cell.Cell, *rterr.Error)

// Function is a paramlist, a dispatcher, a body, and the cached
// underlying-function pointer every call must fulfill against.
// Specialization/adaptation/chaining compose by nesting Underlying;
// Paramlist always describes what the caller sees.
type Function struct {
	Paramlist  *bind.Paramlist
	Dispatcher DispatcherKind
	Native     NativeFunc
	Body       *series.Series // interpreted body, nil otherwise
	Underlying *Function      // self for a plain function
	Closure    *bind.Context  // lexical environment interpreted bodies bind into
	Enfix      bool           // lookback bit: first argument comes from the left
	Label      string
}

// Arity is the number of parameters the caller must fulfill.
func (fn *Function) Arity() int {
	return len(fn.Paramlist.Keys)
}

// NewNative builds a native function with the given parameter keys, all
// ClassNormal unless the caller constructs keys with a different class.
func NewNative(label string, keys []*bind.Typeset, enfix bool, impl NativeFunc) *Function {
	pl := &bind.Paramlist{Keys: keys}
	fn := &Function{Paramlist: pl, Dispatcher: DispatchNative, Native: impl, Enfix: enfix, Label: label}
	fn.Underlying = fn
	return fn
}

// NewInterpreted builds a user-defined function whose body is evaluated
// against closure each call.
func NewInterpreted(label string, keys []*bind.Typeset, body *series.Series, closure *bind.Context) *Function {
	pl := &bind.Paramlist{Keys: keys}
	fn := &Function{Paramlist: pl, Dispatcher: DispatchInterpreted, Body: body, Closure: closure, Label: label}
	fn.Underlying = fn
	return fn
}
