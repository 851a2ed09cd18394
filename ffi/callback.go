package ffi

import (
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/eval"
	"github.com/wyrmlang/wyrmcore/rterr"
)

// lastCallbackErr is the process-wide callback-error slot: a forward
// call may itself re-enter foreign code that calls back into the
// interpreter before the original call returns, and a failure there
// must surface to the original caller once ffi_call returns rather
// than unwinding through the foreign frames in between.
var lastCallbackErr *rterr.Error

// Callback wraps an interpreter Function so foreign C code can invoke
// it through a raw function pointer. The cgo backend's trampoline
// calls Callback.invoke on the foreign thread; it must never unwind
// through that frame, so a Rebol-side failure is stashed in
// CallbackErr for the caller of the original routine call to inspect.
type Callback struct {
	ABI    ABI
	Args   []Schema
	Return Schema

	Ev *eval.Evaluator
	Fn *eval.Function

	CallbackErr *rterr.Error

	cif     backendCIF
	handle  backendCBHandle
	closure backendClosure
	codeloc backendSym
}

// NewCallback validates every schema and asks the backend to register
// a reverse trampoline for fn. On the default (non-libffi) build this
// always fails with the stub backend's errNotFFIBuild, matching
// Routine.Call.
func NewCallback(ev *eval.Evaluator, fn *eval.Function, abi ABI, args []Schema, ret Schema) (*Callback, error) {
	for _, a := range args {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	cb := &Callback{ABI: abi, Args: args, Return: ret, Ev: ev, Fn: fn}
	sy, err := backendMakeCallback(cb)
	if err != nil {
		return nil, err
	}
	cb.codeloc = sy
	return cb, nil
}

// Pointer returns the raw C function pointer foreign code calls
// through — the value handed out as a HANDLE!.
func (cb *Callback) Pointer() uintptr {
	return symToUintptr(cb.codeloc)
}

// Release frees the backend's closure allocation. Not required before
// process exit, but lets repeated-construction tests avoid leaking
// libffi closures.
func (cb *Callback) Release() {
	backendFreeCallback(cb.codeloc)
}

// invoke runs on whatever thread the foreign C call landed on. It converts the raw
// argument bytes libffi handed the trampoline into cells, evaluates
// Fn against them through the Evaluator's CallFunction path, and
// marshals the result back into the return buffer libffi will hand to
// the C caller.
func (cb *Callback) invoke(rawArgs [][]byte, rawRet []byte) {
	cb.CallbackErr = nil
	lastCallbackErr = nil
	defer func() { lastCallbackErr = cb.CallbackErr }()

	args := make([]cell.Cell, len(rawArgs))
	for i, raw := range rawArgs {
		c, err := FFIToRebol(cb.Args[i], raw)
		if err != nil {
			cb.CallbackErr = err
			return
		}
		args[i] = c
	}

	result, err := cb.Ev.CallFunction(cb.Fn, args)
	if err != nil {
		cb.CallbackErr = err
		return
	}
	if rawRet != nil {
		if err := ArgToFFI(&result, cb.Return, rawRet); err != nil {
			cb.CallbackErr = err
		}
	}
}
