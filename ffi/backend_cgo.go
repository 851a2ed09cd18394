//go:build ffi_libffi

package ffi

/*
#cgo LDFLAGS: -lffi -ldl
#include <ffi.h>
#include <dlfcn.h>
#include <stdlib.h>
#include <string.h>

// wyrm_ffi_call is a thin wrapper so the Go side passes a single
// contiguous argv array of void* rather than building a C array of
// pointers through cgo call-by-call (which the cgo pointer-passing
// rules forbid storing across calls).
static void wyrm_ffi_call(ffi_cif *cif, void *fn, void *rvalue, void **avalue) {
	ffi_call(cif, (void (*)(void))fn, rvalue, avalue);
}
*/
import "C"

import (
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// This file is the real FFI backend, compiled only with
// `-tags ffi_libffi` (and a system libffi + cgo toolchain available).
// It drives libffi directly: ffi_cif, ffi_type,
// ffi_prep_cif/ffi_prep_cif_var, ffi_call, and (for reverse calls)
// ffi_prep_closure_loc/ffi_closure.

type backendHandle = unsafe.Pointer
type backendSym = unsafe.Pointer
type backendCBHandle = cgo.Handle
type backendClosure = unsafe.Pointer

type backendCIF struct {
	cif   C.ffi_cif
	rtype *C.ffi_type
	atype []*C.ffi_type // kept alive alongside cif: libffi retains these pointers
}

func backendDlopen(path string) (backendHandle, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	h := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_GLOBAL)
	if h == nil {
		return nil, errors.New(C.GoString(C.dlerror()))
	}
	return backendHandle(h), nil
}

func backendDlsym(h backendHandle, name string) (backendSym, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	sy := C.dlsym(h, cname)
	if sy == nil {
		return nil, errors.New(C.GoString(C.dlerror()))
	}
	return backendSym(sy), nil
}

func backendDlclose(h backendHandle) error {
	if C.dlclose(h) != 0 {
		return errors.New(C.GoString(C.dlerror()))
	}
	return nil
}

// ffiType converts a Schema into a libffi ffi_type*, recursing for
// PrimStruct entries.
func ffiType(s Schema) (*C.ffi_type, error) {
	switch s.Prim {
	case PrimVoid:
		return &C.ffi_type_void, nil
	case PrimUint8:
		return &C.ffi_type_uint8, nil
	case PrimSint8:
		return &C.ffi_type_sint8, nil
	case PrimUint16:
		return &C.ffi_type_uint16, nil
	case PrimSint16:
		return &C.ffi_type_sint16, nil
	case PrimUint32:
		return &C.ffi_type_uint32, nil
	case PrimSint32:
		return &C.ffi_type_sint32, nil
	case PrimUint64:
		return &C.ffi_type_uint64, nil
	case PrimSint64:
		return &C.ffi_type_sint64, nil
	case PrimFloat:
		return &C.ffi_type_float, nil
	case PrimDouble:
		return &C.ffi_type_double, nil
	case PrimPointer, PrimRebval:
		return &C.ffi_type_pointer, nil
	case PrimStruct:
		elems := make([]*C.ffi_type, len(s.Struct.Fields)+1)
		for i, f := range s.Struct.Fields {
			t, err := ffiType(f.Type)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		elems[len(s.Struct.Fields)] = nil // libffi elements array is NULL-terminated
		structType := &C.ffi_type{
			size:      0,
			alignment: 0,
			_type:     C.FFI_TYPE_STRUCT,
			elements:  (**C.ffi_type)(unsafe.Pointer(&elems[0])),
		}
		return structType, nil
	default:
		return nil, errors.Errorf("ffi: unsupported schema prim %d", s.Prim)
	}
}

func backendPrepCIF(abi ABI, args []Schema, ret Schema) (backendCIF, error) {
	var out backendCIF
	rtype, err := ffiType(ret)
	if err != nil {
		return out, err
	}
	out.rtype = rtype
	out.atype = make([]*C.ffi_type, len(args))
	for i, a := range args {
		t, err := ffiType(a)
		if err != nil {
			return out, err
		}
		out.atype[i] = t
	}
	var atypePtr **C.ffi_type
	if len(out.atype) > 0 {
		atypePtr = (**C.ffi_type)(unsafe.Pointer(&out.atype[0]))
	}
	status := C.ffi_prep_cif(
		&out.cif,
		C.ffi_abi(cABI(abi)),
		C.uint(len(args)),
		rtype,
		atypePtr,
	)
	if status != C.FFI_OK {
		return out, errors.Errorf("ffi: ffi_prep_cif failed: status=%d", int(status))
	}
	return out, nil
}

// cABI maps our ABI enum onto libffi's FFI_ABI constants for the
// common default case; platform-specific ABI selection beyond
// FFI_DEFAULT_ABI is deliberately left to the default for now.
func cABI(a ABI) int {
	if a == ABIDefault {
		return int(C.FFI_DEFAULT_ABI)
	}
	return int(C.FFI_DEFAULT_ABI)
}

func backendCall(cif backendCIF, fn backendSym, argPtrs []uintptr, retBuf []byte) error {
	var avalue *unsafe.Pointer
	if len(argPtrs) > 0 {
		ptrs := make([]unsafe.Pointer, len(argPtrs))
		for i, p := range argPtrs {
			ptrs[i] = unsafe.Pointer(p)
		}
		avalue = &ptrs[0]
	}
	var rvalue unsafe.Pointer
	if len(retBuf) > 0 {
		rvalue = unsafe.Pointer(&retBuf[0])
	}
	// The mutable copy escapes to C for the duration of this call
	// only; ffi_call does not retain cif beyond it.
	cifCopy := cif.cif
	C.wyrm_ffi_call((*C.ffi_cif)(unsafe.Pointer(&cifCopy)), fn, rvalue, (*unsafe.Pointer)(avalue))
	return nil
}

// callbackRegistry maps the cgo.Handle passed as libffi's user_data
// back to the Go-side Callback, the standard pattern for giving a C
// callback a way to find its Go closure without storing a Go pointer
// directly in C memory.
var callbackRegistry sync.Map // map[cgo.Handle]*Callback

//export wyrmFFICallbackTrampoline
func wyrmFFICallbackTrampoline(cifPtr *C.ffi_cif, ret unsafe.Pointer, args **unsafe.Pointer, userData unsafe.Pointer) {
	h := *(*cgo.Handle)(userData)
	v, ok := callbackRegistry.Load(h)
	if !ok {
		return
	}
	cb := v.(*Callback)
	n := len(cb.Args)
	argSlice := unsafe.Slice(args, n)
	rawArgs := make([][]byte, n)
	for i, s := range cb.Args {
		sz := s.size()
		rawArgs[i] = unsafe.Slice((*byte)(argSlice[i]), sz)
	}
	retSz := cb.Return.size()
	var rawRet []byte
	if retSz > 0 {
		rawRet = unsafe.Slice((*byte)(ret), retSz)
	}
	cb.invoke(rawArgs, rawRet)
}

func backendMakeCallback(cb *Callback) (backendSym, error) {
	cifBack, err := backendPrepCIF(cb.ABI, cb.Args, cb.Return)
	if err != nil {
		return nil, err
	}
	cb.cif = cifBack

	var codeloc unsafe.Pointer
	closure := C.ffi_closure_alloc(C.size_t(unsafe.Sizeof(C.ffi_closure{})), &codeloc)
	if closure == nil {
		return nil, errors.New("ffi: ffi_closure_alloc failed")
	}

	h := cgo.NewHandle(cb)
	callbackRegistry.Store(h, cb)
	cb.handle = h
	cb.closure = closure
	cb.codeloc = codeloc

	hPtr := new(cgo.Handle)
	*hPtr = h

	status := C.ffi_prep_closure_loc(
		(*C.ffi_closure)(closure),
		&cb.cif.cif,
		(*[0]byte)(C.wyrmFFICallbackTrampoline),
		unsafe.Pointer(hPtr),
		codeloc,
	)
	if status != C.FFI_OK {
		return nil, errors.Errorf("ffi: ffi_prep_closure_loc failed: status=%d", int(status))
	}
	return backendSym(codeloc), nil
}

func backendFreeCallback(codeloc backendSym) {
	C.ffi_closure_free(unsafe.Pointer(codeloc))
}

func symToUintptr(s backendSym) uintptr { return uintptr(s) }
