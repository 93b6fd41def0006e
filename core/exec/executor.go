// Package exec gives every ledger call all-or-nothing semantics: state writes
// are rolled back and buffered events dropped when the call fails.
package exec

import (
	"ghostledger/core/events"
)

// Runner executes fn atomically. op names the operation for observers.
type Runner interface {
	Atomic(op string, fn func() error) error
}

// Direct runs fn without any rollback. It is the default for engines that
// have not been attached to a ledger.
type Direct struct{}

func (Direct) Atomic(_ string, fn func() error) error { return fn() }

// Snapshotter is the subset of the state manager the executor relies on.
type Snapshotter interface {
	Snapshot() int
	RevertToSnapshot(id int)
}

// Observer is notified once per outermost call.
type Observer interface {
	ObserveCall(op string, err error)
}

// Executor buffers events emitted during a call and only releases them to
// the sink when the outermost call succeeds. Calls may nest; a failing inner
// call reverts to its own snapshot and leaves the outer call free to recover.
// An Executor is not safe for concurrent use; the ledger serializes calls.
type Executor struct {
	state    Snapshotter
	sink     events.Emitter
	observer Observer
	depth    int
	pending  []events.Event
}

// New creates an executor over the given state. A nil sink discards events.
func New(state Snapshotter, sink events.Emitter) *Executor {
	x := &Executor{state: state}
	x.SetSink(sink)
	return x
}

// SetSink replaces the downstream emitter.
func (x *Executor) SetSink(sink events.Emitter) {
	if sink == nil {
		x.sink = events.NoopEmitter{}
		return
	}
	x.sink = sink
}

// SetObserver installs a call observer. Passing nil removes it.
func (x *Executor) SetObserver(o Observer) { x.observer = o }

// Emit buffers evt while a call is in flight and forwards it immediately
// otherwise.
func (x *Executor) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	if x.depth == 0 {
		x.sink.Emit(evt)
		return
	}
	x.pending = append(x.pending, evt)
}

// Depth reports the current nesting level.
func (x *Executor) Depth() int { return x.depth }

// Atomic runs fn inside a snapshot.
func (x *Executor) Atomic(op string, fn func() error) (err error) {
	snap := x.state.Snapshot()
	mark := len(x.pending)
	x.depth++
	outermost := x.depth == 1

	defer func() {
		if r := recover(); r != nil {
			x.rollback(snap, mark)
			x.depth--
			panic(r)
		}
		if err != nil {
			x.rollback(snap, mark)
		}
		x.depth--
		if outermost {
			if err == nil {
				x.flush()
			}
			if x.observer != nil {
				x.observer.ObserveCall(op, err)
			}
		}
	}()

	return fn()
}

func (x *Executor) rollback(snap, mark int) {
	x.state.RevertToSnapshot(snap)
	x.pending = x.pending[:mark]
}

func (x *Executor) flush() {
	pending := x.pending
	x.pending = nil
	for _, evt := range pending {
		x.sink.Emit(evt)
	}
}
