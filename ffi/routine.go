package ffi

import (
	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/bind"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/eval"
	"github.com/wyrmlang/wyrmcore/rterr"
)

// Routine is a compiled forward-call descriptor: the
// ABI, the per-argument and return schemas, and a library symbol
// (ordinary C function); reverse trampolines are the separate Callback
// type built by NewCallback. A fixed-arity Routine precomputes its CIF once
// at Compile time; a Variadic one rebuilds a per-call CIF from the
// actual argument types supplied.
type Routine struct {
	ABI      ABI
	Args     []Schema
	Return   Schema
	Variadic bool
	Symbol   string

	lib *Library
	sym backendSym
	cif backendCIF
}

// Compile builds a Routine bound to sym within lib, precomputing its
// CIF unless Variadic.
func Compile(lib *Library, symbol string, abi ABI, args []Schema, ret Schema, variadic bool) (*Routine, error) {
	for _, a := range args {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	sy, err := lib.Symbol(symbol)
	if err != nil {
		return nil, err
	}
	r := &Routine{ABI: abi, Args: args, Return: ret, Variadic: variadic, Symbol: symbol, lib: lib, sym: sy}
	if !variadic {
		cif, err := backendPrepCIF(abi, args, ret)
		if err != nil {
			return nil, errors.Wrapf(err, "ffi: compile routine %q", symbol)
		}
		r.cif = cif
	}
	return r, nil
}

// Call runs the forward-call sequence end to end, given the
// already-evaluated argument cells from a fulfilled call Frame.
func (r *Routine) Call(args []cell.Cell) (cell.Cell, *rterr.Error) {
	if len(args) != len(r.Args) {
		return cell.Cell{}, rterr.New(rterr.CodeInvalidArg, "ffi: argument count does not match routine schema")
	}

	// Step 1: accumulate each argument's C-ABI footprint (aligned per
	// primitive) into one scratch buffer.
	offsets := make([]int, len(r.Args))
	off := 0
	for i, a := range r.Args {
		w := a.size()
		off = alignUp(off, w)
		offsets[i] = off
		off += w
	}
	store := make([]byte, off)

	// Step 2: typecheck and convert each argument in place.
	for i, a := range r.Args {
		w := a.size()
		if rerr := ArgToFFI(&args[i], a, store[offsets[i]:offsets[i]+w]); rerr != nil {
			return cell.Cell{}, rerr
		}
	}

	// Step 3: variadic routines rebuild a per-call CIF from the
	// concrete argument types actually passed.
	cif := r.cif
	if r.Variadic {
		c, err := backendPrepCIF(r.ABI, r.Args, r.Return)
		if err != nil {
			return cell.Cell{}, rterr.New(rterr.CodeBadLibrary, err.Error())
		}
		cif = c
	}

	// Step 4: rebase store offsets into pointers now that every push
	// has happened and the buffer will not move again.
	argPtrs := make([]uintptr, len(r.Args))
	if len(store) > 0 {
		base := uintptr(ptrOf(&store[0]))
		for i := range r.Args {
			argPtrs[i] = base + uintptr(offsets[i])
		}
	}

	// Step 5: clear the callback-error slot, then invoke.
	lastCallbackErr = nil
	retBuf := make([]byte, r.Return.size())
	if err := backendCall(cif, r.sym, argPtrs, retBuf); err != nil {
		return cell.Cell{}, rterr.New(rterr.CodeNotFFIBuild, err.Error())
	}

	// Step 6: a nested callback failure surfaces here rather than unwinding
	// through the library's own call stack.
	if lastCallbackErr != nil {
		return cell.Cell{}, lastCallbackErr
	}
	if r.Return.Prim == PrimVoid {
		var out cell.Cell
		out.Init()
		return out, nil
	}
	result, rerr := FFIToRebol(r.Return, retBuf)
	if rerr != nil {
		return cell.Cell{}, rerr
	}
	// store and any per-call CIF are ordinary Go heap values here — no
	// explicit free, the Go GC reclaims them once Call returns; these
	// allocations sit entirely outside the pool/series accounting.
	return result, nil
}

// NewFunction wraps r as an eval.Function whose Native trampoline
// marshals a fulfilled call Frame's arguments through r.Call. label and keys describe the
// paramlist callers see; it need not match r.Args one-to-one in name,
// only in count and order.
func (r *Routine) NewFunction(label string, keys []*bind.Typeset) *eval.Function {
	native := func(ev *eval.Evaluator, f *eval.Frame) (cell.Cell, *rterr.Error) {
		return r.Call(f.ArgCells())
	}
	fn := &eval.Function{
		Paramlist:  &bind.Paramlist{Keys: keys},
		Dispatcher: eval.DispatchRoutine,
		Native:     native,
		Label:      label,
	}
	fn.Underlying = fn
	return fn
}
