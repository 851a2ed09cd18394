// Package rterr implements the error taxonomy and unwind machinery: a
// compact category/code pair carried by every ERROR! cell, plus a
// Trap stack with panic-based Raise/Catch. The evaluator and lexer
// return errors as ordinary Go values and do not raise through it, and
// Catch does not truncate any frame, chunk or manually-managed series
// stack on unwind.
package rterr

// Category groups error Codes into scan, type/value, resource,
// evaluation, FFI, and a generic catch-all.
type Category uint8

const (
	CategoryMisc Category = iota
	CategoryScan
	CategoryType
	CategoryResource
	CategoryEvaluation
	CategoryFFI
)

func (c Category) String() string {
	switch c {
	case CategoryScan:
		return "scan"
	case CategoryType:
		return "type"
	case CategoryResource:
		return "resource"
	case CategoryEvaluation:
		return "evaluation"
	case CategoryFFI:
		return "ffi"
	default:
		return "misc"
	}
}

// Code is a compact integer identifying one specific error within its
// Category.
type Code uint16

const (
	CodeMisc Code = iota

	// scan
	CodeScanInvalid
	CodeScanMissing
	CodeScanPastEnd

	// type/value
	CodeInvalidArg
	CodeBadMake
	CodeOutOfRange
	CodeArgType
	CodeCannotReflect
	CodeIllegalAction

	// resource
	CodeNoMemory
	CodeLockedSeries
	CodeProtected
	CodeResourcePastEnd

	// evaluation
	CodeNoCatch
	CodeHalt
	CodeBadRefine
	CodeMalconstruct

	// FFI
	CodeNotFFIBuild
	CodeOnlyCallbackPtr
	CodeBadLibrary
)

var codeNames = map[Code]string{
	CodeMisc:            "misc",
	CodeScanInvalid:     "invalid",
	CodeScanMissing:     "missing",
	CodeScanPastEnd:     "past-end",
	CodeInvalidArg:      "invalid-arg",
	CodeBadMake:         "bad-make",
	CodeOutOfRange:      "out-of-range",
	CodeArgType:         "arg-type",
	CodeCannotReflect:   "cannot-reflect",
	CodeIllegalAction:   "illegal-action",
	CodeNoMemory:        "no-memory",
	CodeLockedSeries:    "locked-series",
	CodeProtected:       "protected",
	CodeResourcePastEnd: "past-end",
	CodeNoCatch:         "no-catch",
	CodeHalt:            "halt",
	CodeBadRefine:       "bad-refine",
	CodeMalconstruct:    "malconstruct",
	CodeNotFFIBuild:     "not-ffi-build",
	CodeOnlyCallbackPtr: "only-callback-ptr",
	CodeBadLibrary:      "bad-library",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "unknown"
}

// CategoryOf reports the Category a Code belongs to, for dispatch and
// error-message templating.
func CategoryOf(c Code) Category {
	switch c {
	case CodeScanInvalid, CodeScanMissing, CodeScanPastEnd:
		return CategoryScan
	case CodeInvalidArg, CodeBadMake, CodeOutOfRange, CodeArgType, CodeCannotReflect, CodeIllegalAction:
		return CategoryType
	case CodeNoMemory, CodeLockedSeries, CodeProtected, CodeResourcePastEnd:
		return CategoryResource
	case CodeNoCatch, CodeHalt, CodeBadRefine, CodeMalconstruct:
		return CategoryEvaluation
	case CodeNotFFIBuild, CodeOnlyCallbackPtr, CodeBadLibrary:
		return CategoryFFI
	default:
		return CategoryMisc
	}
}
