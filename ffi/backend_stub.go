//go:build !ffi_libffi

package ffi

import "github.com/pkg/errors"

// This file is the default backend: a cgo-free build with no libffi
// dependency, compiled whenever the `ffi_libffi` build tag is absent.
// When libffi support is not compiled in, every backend entry point
// fails with a not-FFI-build error so the rest of the routine type
// keeps compiling and remains inspectable even when nothing can
// actually be called. backend_cgo.go (build tag `ffi_libffi`) is the
// real libffi-backed implementation.
type backendHandle struct{}
type backendSym struct{}
type backendCIF struct{}
type backendCBHandle struct{}
type backendClosure struct{}

var errNotFFIBuild = errors.New("ffi: not built with libffi (build with -tags ffi_libffi)")

func backendDlopen(path string) (backendHandle, error) {
	return backendHandle{}, errNotFFIBuild
}

func backendDlsym(h backendHandle, name string) (backendSym, error) {
	return backendSym{}, errNotFFIBuild
}

func backendDlclose(h backendHandle) error {
	return nil
}

func backendPrepCIF(abi ABI, args []Schema, ret Schema) (backendCIF, error) {
	return backendCIF{}, errNotFFIBuild
}

func backendCall(cif backendCIF, fn backendSym, argPtrs []uintptr, retBuf []byte) error {
	return errNotFFIBuild
}

// backendMakeCallback would register a reverse trampoline with libffi
// (ffi_prep_closure_loc); the stub build has no way to hand out a
// callable C function pointer at all, so NewCallback always fails
// with errNotFFIBuild, the same way a routine call does.
func backendMakeCallback(cb *Callback) (backendSym, error) {
	return backendSym{}, errNotFFIBuild
}

func backendFreeCallback(codeloc backendSym) {}

func symToUintptr(s backendSym) uintptr { return 0 }
