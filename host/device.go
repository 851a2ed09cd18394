package host

import (
	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/cell"
)

// Device and Scheduler are the contract the core exposes toward the
// device layer: I/O device scheduling is referenced only through the
// contracts the core exposes to it. Nothing in this package
// implements these beyond a no-op scheduler a host may substitute its
// own for; they exist so PORT! natives elsewhere in the tree have an
// interface to call through rather than a concrete OS dependency.
type Device interface {
	Name() string
	Open (DeviceHandle, error)
}

// DeviceHandle is one open device instance (a file, a socket, a serial
// line). Read/Write operate on raw bytes; a PORT!'s actor is
// responsible for any higher-level framing.
type DeviceHandle interface {
	Read(buf []byte) (int, error)
	Write(buf []byte) (int, error)
	Close() error
}

// Scheduler dispatches pending device work between evaluator steps
//. Tick is called
// from the evaluator's step loop; a scheduler with nothing pending
// returns immediately.
type Scheduler interface {
	Tick() error
}

// NoopScheduler never has anything pending. It is the Scheduler a host
// that does no device I/O can use to satisfy the interface without
// writing its own.
type NoopScheduler struct{}

func (NoopScheduler) Tick() error { return nil }

// Codec converts between an external byte encoding and Rebol values
//. Decode is handed the raw bytes
// of, e.g., a loaded file; Encode is handed a value to serialize back
// to bytes.
type Codec interface {
	Name() string
	Decode(data []byte) (cell.Cell, error)
	Encode(c *cell.Cell) ([]byte, error)
}

// CodecRegistry maps a codec name (conventionally a file suffix like
// "json" or "png") to its registered Codec.
type CodecRegistry struct {
	byName map[string]Codec
}

func NewCodecRegistry() *CodecRegistry {
	return &CodecRegistry{byName: make(map[string]Codec, 8)}
}

// Register adds c under its own Name, replacing any codec already
// registered for that name.
func (r *CodecRegistry) Register(c Codec) {
	r.byName[c.Name()] = c
}

// Lookup returns the codec registered for name, if any.
func (r *CodecRegistry) Lookup(name string) (Codec, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// registerStandardCodecs seeds a fresh registry with the codecs this
// module ships. None are registered today: encoding/decoding of the
// canonical literal forms runs
// through lex.Scan and the cell accessors directly rather than the codec path,
// and image/sound codecs belong to the device layer this module
// leaves as contracts only.
func registerStandardCodecs(r *CodecRegistry) {}

// Event is one entry in the event queue that feeds user-input and
// device-completion notifications back to a running program's event
// loop. Payload is codec/device specific; Type distinguishes, e.g., a
// key press from a socket-readable notification.
type Event struct {
	Type    string
	Payload any
}

// EventQueue is an unbounded FIFO of pending Events. A host's device
// layer pushes through Push; a running program's event loop drains
// through Pop.
type EventQueue struct {
	pending []Event
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

func (q *EventQueue) Push(e Event) {
	q.pending = append(q.pending, e)
}

// Pop removes and returns the oldest pending Event. ok is false when
// the queue is empty.
func (q *EventQueue) Pop() (Event, bool) {
	if len(q.pending) == 0 {
		return Event{}, false
	}
	e := q.pending[0]
	q.pending = q.pending[1:]
	return e, true
}

func (q *EventQueue) Len() int { return len(q.pending) }

var errNoDevice = errors.New("host: no device registered for that name")
