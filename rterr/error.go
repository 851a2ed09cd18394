package rterr

import (
	"fmt"
	"strings"
)

// Error is the payload an ERROR! cell carries: a code/category pair, a message template with up to
// three substituted arguments, and a "near" rendering of the source at
// the fault (from the scanner's line tracking, or from a frame's
// source array and index).
type Error struct {
	Code     Code
	Category Category
	Template string   // e.g. "expected %1 but got %2"
	Args     []string // up to three, substituted into Template positionally
	Near     string   // source text surrounding the fault, if known
}

// New builds an Error, deriving Category from Code.
func New(code Code, template string, args ...string) *Error {
	if len(args) > 3 {
		args = args[:3]
	}
	return &Error{Code: code, Category: CategoryOf(code), Template: template, Args: args}
}

// WithNear attaches source-proximity text and returns the same Error
// for chaining at the call site.
func (e *Error) WithNear(near string) *Error {
	e.Near = near
	return e
}

// Error implements the standard error interface by rendering the
// template with %1/%2/%3 placeholders substituted, the way the
// source's message tables work.
func (e *Error) Error() string {
	msg := e.Template
	for i, a := range e.Args {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("%%%d", i+1), a)
	}
	if e.Near != "" {
		msg += " (near: " + e.Near + ")"
	}
	return fmt.Sprintf("%s error: %s [%s]", e.Category, msg, e.Code)
}

// Halt is the distinguished error HALT signal delivery raises: "HALT is a distinguished error that only unhaltable traps may
// catch; ordinary traps rethrow it."
var Halt = New(CodeHalt, "user requested halt")

// IsHalt reports whether err carries the HALT code.
func IsHalt(err *Error) bool {
	return err != nil && err.Code == CodeHalt
}

// NearFromLine renders a simple "line N" proximity string, the shape
// the lexer uses when all it has is a line counter rather than a full
// source span.
func NearFromLine(line int) string {
	return fmt.Sprintf("line %d", line)
}

// NearFromArray renders proximity text from a source text slice and a
// byte offset, truncating to a bounded window the way error reporting
// typically shows "a few tokens around the fault" rather than the
// whole program.
func NearFromArray(src []byte, offset int) string {
	const window = 24
	lo := offset - window
	if lo < 0 {
		lo = 0
	}
	hi := offset + window
	if hi > len(src) {
		hi = len(src)
	}
	return string(src[lo:hi])
}
