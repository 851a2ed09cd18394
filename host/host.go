// Package host implements the embedding surface: the lifecycle
// (Init/Shutdown), the do_string-equivalent that scans and evaluates
// a UTF-8 source string, and the typed-result-code enum it returns.
// Device I/O, codecs and the event queue are declared here only as Go
// interfaces (device.go) — the device layer itself is out of scope,
// referenced only through the contracts the core exposes to it.
package host

import (
	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/bind"
	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/eval"
	"github.com/wyrmlang/wyrmcore/gc"
	"github.com/wyrmlang/wyrmcore/lex"
	"github.com/wyrmlang/wyrmcore/pool"
	"github.com/wyrmlang/wyrmcore/rterr"
	"github.com/wyrmlang/wyrmcore/series"
	"github.com/wyrmlang/wyrmcore/sym"
)

// Interp is one embeddable interpreter instance: every piece of
// process-wide state, bundled so a host program can run more than one
// instance (e.g. a test harness spinning up a fresh one per test)
// without package-level globals.
type Interp struct {
	Pool     *pool.Manager
	Manuals  *series.Manuals
	Interner *sym.Interner
	GC       *gc.Collector
	Eval     *eval.Evaluator
	Root     *bind.Context // the MODULE! every top-level DoString runs against

	Codecs *CodecRegistry
	Events *EventQueue
}

// Init returns a ready-to-use Interp with the standard natives bound
// into Root. A platform-integration callback table for host
// environment versioning is environment-integration rather than
// core, so it has no analogue here.
func Init() (*Interp, error) {
	mgr := pool.New()
	manuals := series.NewManuals()
	interner := sym.New()
	collector := gc.New(mgr)
	ev := eval.New(mgr, manuals, interner)

	root, err := eval.NewStandardLib(mgr, manuals, interner)
	if err != nil {
		return nil, errors.Wrap(err, "host: init standard library")
	}
	collector.Manage(root.Varlist, manuals)

	in := &Interp{
		Pool: mgr, Manuals: manuals, Interner: interner, GC: collector, Eval: ev, Root: root,
		Codecs: NewCodecRegistry(), Events: NewEventQueue(),
	}
	registerStandardCodecs(in.Codecs)
	return in, nil
}

// Shutdown releases Interp's resources. When clean is false, Shutdown
// skips the final GC Recycle pass (the process is about to exit anyway
// and a crash-path shutdown should not risk running arbitrary
// finalizer code).
func (in *Interp) Shutdown(clean bool) {
	if clean {
		in.GC.Recycle()
	}
}

// ResultKind is a positive enum of kinds, 0 for void, negative for
// errors, -1 for halt, -2 for explicit quit, returned by DoString.
type ResultKind int

const (
	ResultHalt ResultKind = -1
	ResultQuit ResultKind = -2
	ResultVoid ResultKind = 0
	// Any ResultKind > 0 identifies a successful evaluation whose
	// result cell's Kind() is ResultKind-1 (cell.KindEnd is reserved
	// at 0, so ordinary result kinds are offset by one to keep 0
	// meaning "void" rather than colliding with cell.KindEnd).
)

func resultKindFor(c *cell.Cell) ResultKind {
	if c.Kind() == cell.KindUnset {
		return ResultVoid
	}
	return ResultKind(c.Kind()) + 1
}

// DoString scans text and evaluates it against Root, the single
// scan-and-evaluate entry point every caller funnels through. relax
// selects the scanner's error-recovery mode. A HALT signal
// delivered mid-evaluation surfaces as ResultHalt with out left at
// whatever partial value had been produced.
func (in *Interp) DoString(text string, relax bool) (ResultKind, cell.Cell, error) {
	arr, err := lex.Scan([]byte(text), in.Interner, in.Pool, in.Manuals, relax)
	if err != nil {
		return -3, cell.Cell{}, err // scan error: no ResultKind slot reserved, caller sees err
	}
	bind.BindDeep(arr, in.Root, true)
	in.GC.Manage(arr, in.Manuals)

	var out cell.Cell
	if derr := in.Eval.Do(arr, in.Root, &out); derr != nil {
		if rterr.IsHalt(asRterr(derr)) {
			return ResultHalt, out, nil
		}
		return -3, out, derr
	}
	if out.HasFlag(cell.FlagThrown) {
		return -3, out, errors.New("host: uncaught throw escaped top-level DoString")
	}
	return resultKindFor(&out), out, nil
}

func asRterr(err error) *rterr.Error {
	if e, ok := err.(*rterr.Error); ok {
		return e
	}
	return nil
}

// Escape sets the HALT signal sets the HALT
// signal"), checked by the evaluator between steps.
func (in *Interp) Escape() {
	in.Eval.Signal.Halt = true
}
