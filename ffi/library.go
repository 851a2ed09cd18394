package ffi

import "github.com/pkg/errors"

// Library is an opened shared library handle, shared by every Routine
// resolved against the same `lib-name` in a routine spec.
type Library struct {
	Path   string
	handle backendHandle
}

// OpenLibrary dlopen's path. On the default (non-libffi) build this
// always fails with backend_stub.go's errNotFFIBuild (a plain Go error,
// wrapped with the path, not an *rterr.Error): the routine
// machinery exists, but actually calling into it always reports
// "not FFI build".
func OpenLibrary(path string) (*Library, error) {
	h, err := backendDlopen(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ffi: open library %q", path)
	}
	return &Library{Path: path, handle: h}, nil
}

// Symbol resolves name against lib.
func (lib *Library) Symbol(name string) (backendSym, error) {
	sy, err := backendDlsym(lib.handle, name)
	if err != nil {
		var zero backendSym
		return zero, errors.Wrapf(err, "ffi: lookup symbol %q in %q", name, lib.Path)
	}
	return sy, nil
}

// Close releases the library handle. The interpreter does not call
// this during ordinary operation — a dlopen'd library lives for the
// process lifetime, the way every other long-lived resource in this
// core is either GC-managed or process-scoped — but tests use it to
// avoid leaking handles across repeated routine-construction runs.
func (lib *Library) Close() error {
	return backendDlclose(lib.handle)
}
