package eval

import (
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/rterr"
)

// CallFunction invokes fn against a set of already-evaluated
// arguments rather than pulling them from a source stream. This is
// the path an FFI reverse callback uses to re-enter the interpreter,
// and generally whatever future APPLY-style native needs to invoke a
// function value it was handed rather than one appearing literally in
// source.
func (ev *Evaluator) CallFunction(fn *Function, args []cell.Cell) (cell.Cell, *rterr.Error) {
	if len(args) != fn.Arity() {
		return cell.Cell{}, rterr.New(rterr.CodeInvalidArg, "argument count does not match function arity")
	}
	sub := &Frame{Func: fn, Underlying: fn.Underlying, EvalType: EvalFunction}
	sub.allocArgs(&ev.Chunks, fn.Arity())
	for i := range args {
		sub.Arg(i).CopyFrom(&args[i])
	}
	sub.ParamIdx = fn.Arity()
	result, rerr := ev.dispatch(fn, sub)
	sub.releaseArgs(&ev.Chunks)
	return result, rerr
}
