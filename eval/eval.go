package eval

import (
	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/bind"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/rterr"
	"github.com/wyrmlang/wyrmcore/series"
	"github.com/wyrmlang/wyrmcore/sym"
)

// Evaluator is the process-wide evaluation state: the chunk stack, the trap stack,
// and the well-known thrown-value stash.
type Evaluator struct {
	Chunks   ChunkStack
	Traps    rterr.Stack
	Mgr      *pool.Manager
	Manuals  *series.Manuals
	Interner *sym.Interner

	stash  cell.Cell
	Signal Signals
}

// Signals is the halt/interrupt mask the evaluator tests between steps.
type Signals struct {
	Halt bool
}

// New returns a ready-to-use Evaluator.
func New(mgr *pool.Manager, manuals *series.Manuals, interner *sym.Interner) *Evaluator {
	return &Evaluator{Mgr: mgr, Manuals: manuals, Interner: interner}
}

// Throw stashes v as the thrown payload and returns a
// copy flagged THROWN, suitable as a native's return value.
func (ev *Evaluator) Throw(v *cell.Cell) cell.Cell {
	ev.stash.CopyFrom(v)
	ev.stash.SetFlag(cell.FlagThrown)
	out := *v
	out.SetFlag(cell.FlagThrown)
	return out
}

// CatchStash retrieves and clears the thrown-value stash. After this
// call the stash is "unreadable" again until the next Throw.
func (ev *Evaluator) CatchStash() cell.Cell {
	v := ev.stash
	v.ClearFlag(cell.FlagThrown)
	ev.stash.Init()
	return v
}

// Do evaluates every value in arr in turn against specifier, leaving
// the result of the final expression in out. If evaluation
// throws, Do returns nil error with out carrying FlagThrown — callers
// that are not a CATCH construct should check for that and propagate.
func (ev *Evaluator) Do(arr *series.Series, specifier *bind.Context, out *cell.Cell) error {
	out.Init()
	if arr == nil || arr.Len() == 0 {
		out.Reset(cell.KindUnset) // an empty program yields void
		return nil
	}
	f := &Frame{Array: arr, Index: 0, Specifier: specifier, Out: out, EvalType: EvalNormal}
	return ev.runFrame(f)
}

// runFrame drives f.Index from its start to the end of f.Array (or
// until a throw stops it early), writing each step's result into
// f.Out.
func (ev *Evaluator) runFrame(f *Frame) error {
	for f.Index < f.Array.Len() {
		if ev.Signal.Halt {
			return rterr.Halt
		}
		if err := ev.step(f); err != nil {
			return err
		}
		if f.Out.HasFlag(cell.FlagThrown) {
			return nil
		}
	}
	return nil
}

// step evaluates exactly one source position (plus any enfix lookback
// that follows it) into f.Out, advancing f.Index past everything it
// consumed.
func (ev *Evaluator) step(f *Frame) error {
	c := f.Array.At(f.Index)

	switch {
	case c.Kind() == cell.KindSetWord:
		f.Index++
		if f.Index >= f.Array.Len() {
			return errors.New("eval: set-word has nothing to assign")
		}
		if err := ev.step(f); err != nil {
			return err
		}
		if f.Out.HasFlag(cell.FlagThrown) {
			return nil
		}
		ctx, idx, ok := bind.Resolve(c, f.Specifier)
		if !ok {
			return errors.Errorf("eval: %q is not bound, cannot set", c.Spelling())
		}
		ctx.Varlist.At(idx).CopyFrom(f.Out)
		return ev.lookahead(f)

	case c.Kind() == cell.KindGetWord:
		ctx, idx, ok := bind.Resolve(c, f.Specifier)
		if !ok {
			return errors.Errorf("eval: %q is not bound", c.Spelling())
		}
		f.Out.CopyFrom(ctx.Varlist.At(idx))
		f.Index++
		return nil

	case c.Kind() == cell.KindLitWord:
		f.Out.SetWord(cell.KindWord, c.Symbol())
		f.Index++
		return nil

	case c.Kind() == cell.KindWord:
		ctx, idx, ok := bind.Resolve(c, f.Specifier)
		if !ok {
			return errors.Errorf("eval: %q has no value", c.Spelling())
		}
		val := ctx.Varlist.At(idx)
		if val.Kind() == cell.KindFunction {
			fn := val.Ref().(*Function)
			f.Index++
			if err := ev.call(f, fn, c.Symbol()); err != nil {
				return err
			}
			return ev.lookahead(f)
		}
		f.Out.CopyFrom(val)
		f.Index++
		return ev.lookahead(f)

	case c.Kind() == cell.KindGroup:
		inner, _ := c.Ref().(*series.Series)
		if err := ev.Do(inner, f.Specifier, f.Out); err != nil {
			return err
		}
		f.Index++
		return ev.lookahead(f)

	default:
		f.Out.CopyFrom(c)
		f.Index++
		return ev.lookahead(f)
	}
}

// lookahead implements enfix dispatch: after producing a value, peek
// at the next source cell; if it names a function marked Enfix, the
// just-produced value becomes its left-hand argument.
func (ev *Evaluator) lookahead(f *Frame) error {
	for f.Index < f.Array.Len() {
		if f.Out.HasFlag(cell.FlagThrown) {
			return nil
		}
		next := f.Array.At(f.Index)
		if next.Kind() != cell.KindWord {
			return nil
		}
		ctx, idx, ok := bind.Resolve(next, f.Specifier)
		if !ok {
			return nil
		}
		val := ctx.Varlist.At(idx)
		if val.Kind() != cell.KindFunction {
			return nil
		}
		fn, _ := val.Ref().(*Function)
		if fn == nil || !fn.Enfix {
			return nil
		}
		f.Index++
		if err := ev.callEnfix(f, fn, next.Symbol()); err != nil {
			return err
		}
	}
	return nil
}

// call fulfills fn's paramlist from the input stream starting at
// f.Index and dispatches it, writing the result into f.Out.
func (ev *Evaluator) call(f *Frame, fn *Function, label *sym.Symbol) error {
	return ev.invoke(f, fn, label, nil)
}

// callEnfix is call's lookback counterpart: the first parameter is
// fulfilled from f.Out (the value already produced) rather than from
// the input stream.
func (ev *Evaluator) callEnfix(f *Frame, fn *Function, label *sym.Symbol) error {
	var lhs cell.Cell
	lhs.CopyFrom(f.Out)
	return ev.invoke(f, fn, label, &lhs)
}

func (ev *Evaluator) invoke(f *Frame, fn *Function, label *sym.Symbol, lhs *cell.Cell) error {
	arity := fn.Arity()
	sub := &Frame{
		Prior: f, Array: f.Array, Index: f.Index, Specifier: f.Specifier,
		Func: fn, Underlying: fn.Underlying, Label: label,
	}
	if lhs != nil {
		sub.EvalType = EvalLookback
	} else {
		sub.EvalType = EvalFunction
	}
	sub.allocArgs(&ev.Chunks, arity)

	start := 0
	if lhs != nil {
		sub.Arg(0).CopyFrom(lhs)
		start = 1
	}

	for i := start; i < arity; i++ {
		ts := fn.Paramlist.Keys[i]
		arg := sub.Arg(i)
		switch ts.Class {
		case bind.ClassQuote, bind.ClassHardQuote:
			if sub.Index >= f.Array.Len() {
				sub.releaseArgs(&ev.Chunks)
				return errors.Errorf("eval: %s missing argument %s", label, ts.Symbol)
			}
			arg.CopyFrom(f.Array.At(sub.Index))
			arg.SetFlag(cell.FlagUnevaluated)
			sub.Index++
		default:
			if sub.Index >= f.Array.Len() {
				sub.releaseArgs(&ev.Chunks)
				return errors.Errorf("eval: %s missing argument %s", label, ts.Symbol)
			}
			argFrame := &Frame{Array: f.Array, Index: sub.Index, Specifier: f.Specifier, Out: arg}
			if err := ev.step(argFrame); err != nil {
				sub.releaseArgs(&ev.Chunks)
				return err
			}
			sub.Index = argFrame.Index
			if arg.HasFlag(cell.FlagThrown) {
				f.Out.CopyFrom(arg)
				f.Index = sub.Index
				sub.releaseArgs(&ev.Chunks)
				return nil
			}
		}
		if !ts.Mask.Allows(arg.Kind()) {
			sub.releaseArgs(&ev.Chunks)
			return errors.Errorf("eval: %s argument %s is the wrong type (%s)", label, ts.Symbol, arg.Kind())
		}
	}
	sub.ParamIdx = arity // past the end of the paramlist: fulfilling -> running

	result, rerr := ev.dispatch(fn, sub)
	sub.releaseArgs(&ev.Chunks)
	if rerr != nil {
		return errors.New(rerr.Error())
	}
	f.Out.CopyFrom(&result)
	f.Index = sub.Index
	return nil
}

// dispatch runs fn's body against the fulfilled sub frame. Specializer/adapter/chainer/hijacker
// delegate straight to Underlying; no pre- or post-call code is
// spliced around the call.
func (ev *Evaluator) dispatch(fn *Function, sub *Frame) (cell.Cell, *rterr.Error) {
	sub.Flags |= FlagNativeHold
	switch fn.Dispatcher {
	case DispatchNative:
		return fn.Native(ev, sub)
	case DispatchInterpreted:
		ctx, err := bind.New(ev.Mgr, ev.Manuals, cell.KindFrame, fn.Paramlist.Keys)
		if err != nil {
			return cell.Cell{}, rterr.New(rterr.CodeNoMemory, err.Error())
		}
		for i := range fn.Paramlist.Keys {
			ctx.Varlist.At(i + 1).CopyFrom(sub.Arg(i))
		}
		var result cell.Cell
		if err := ev.Do(fn.Body, ctx, &result); err != nil {
			return cell.Cell{}, rterr.New(rterr.CodeMisc, err.Error())
		}
		return result, nil
	case DispatchSpecializer, DispatchAdapter, DispatchChainer, DispatchHijacker:
		if fn.Underlying == fn || fn.Underlying == nil {
			return cell.Cell{}, rterr.New(rterr.CodeIllegalAction, "composed function has no underlying dispatcher")
		}
		return ev.dispatch(fn.Underlying, sub)
	case DispatchRoutine, DispatchCallback:
		// The ffi package builds these functions with Native already
		// set to a closure that marshals sub's arguments through a
		// Routine/Callback; eval has no business knowing
		// the ABI details, only that the trampoline is a NativeFunc.
		if fn.Native == nil {
			return cell.Cell{}, rterr.New(rterr.CodeNotFFIBuild, "routine has no bound trampoline")
		}
		return fn.Native(ev, sub)
	default:
		return cell.Cell{}, rterr.New(rterr.CodeIllegalAction, "dispatcher kind not supported by this build")
	}
}
