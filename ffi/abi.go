// Package ffi implements the FFI trampoline: a routine spec compiled
// into a libffi call-interface descriptor, a forward-call path that
// marshals cells into a C-ABI argument buffer, and a reverse-call
// (callback) path that lets interpreter functions be handed to C code
// as raw function pointers.
//
// backend_cgo.go does the real work through cgo + libffi (behind the
// ffi_libffi build tag); backend_stub.go is the cgo-free stub compiled
// by default, failing every entry point with a not-FFI-build error.
package ffi

// ABI is the calling convention a Routine or Callback is compiled
// against. Every value is accepted: the libffi backend passes
// FFI_DEFAULT_ABI for each of them, and Compile rejects no selection.
type ABI uint8

const (
	ABIDefault ABI = iota
	ABIWin64
	ABIStdcall
	ABISysv
	ABIThiscall
	ABIFastcall
	ABIMSCdecl
	ABIUnix64
	ABIVFP
	ABIO32
	ABIN32
	ABIN64
	ABIO32SoftFloat
	ABIN32SoftFloat
	ABIN64SoftFloat
)

var abiNames = [...]string{
	ABIDefault:      "default",
	ABIWin64:        "win64",
	ABIStdcall:      "stdcall",
	ABISysv:         "sysv",
	ABIThiscall:     "thiscall",
	ABIFastcall:     "fastcall",
	ABIMSCdecl:      "ms-cdecl",
	ABIUnix64:       "unix64",
	ABIVFP:          "vfp",
	ABIO32:          "o32",
	ABIN32:          "n32",
	ABIN64:          "n64",
	ABIO32SoftFloat: "o32-soft-float",
	ABIN32SoftFloat: "n32-soft-float",
	ABIN64SoftFloat: "n64-soft-float",
}

func (a ABI) String() string {
	if int(a) < len(abiNames) && abiNames[a] != "" {
		return abiNames[a]
	}
	return "unknown"
}

// ParseABI maps a routine spec's `abi:` word spelling to an ABI value.
func ParseABI(word string) (ABI, bool) {
	for i, n := range abiNames {
		if n == word {
			return ABI(i), true
		}
	}
	return 0, false
}
