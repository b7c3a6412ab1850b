// Package stage implements the per-stage worker lifecycle: initialize,
// consume-transform-forward, drain, terminate, join. Every transform in
// internal/transform is a thin wrapper around the Contract returned by New.
package stage

import (
	"sync"

	"github.com/relaylab/strpipe/internal/queue"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Sentinel is the in-band record that signals end-of-stream.
const Sentinel = "<END>"

// Transform computes a new owned record from an input record. A false ok
// return means the transform failed for this record; the worker logs and
// drops it.
type Transform func(record string) (out string, ok bool)

// Submitter accepts a record on behalf of the next stage in the chain.
type Submitter func(record string) error

// Contract is the six-entry-point interface every stage exposes to the
// pipeline host: Name, Init, Submit, Attach, WaitFinished and Finalize.
type Contract interface {
	// Name returns the stage's stable identifier.
	Name() string
	// Init creates the stage's queue and spawns its worker.
	Init(capacity int) error
	// Submit hands a record to the stage, blocking under back-pressure.
	Submit(record string) error
	// Attach wires the successor's Submit as this stage's forwarding
	// target. It must be called at most once, before the first Submit.
	Attach(next Submitter)
	// WaitFinished blocks until the stage has processed the sentinel.
	WaitFinished() error
	// Finalize joins the worker and releases the stage's resources.
	Finalize() error
}

type lifecycleState int

const (
	stateUninitialized lifecycleState = iota
	stateReady
	stateDraining
	stateFinished
	stateTerminated
)

// runtime is the generic stage implementation used by every built-in
// transform. Between Init and Finalize its state is mutated only by its own
// worker goroutine, except for next, which is published once by Attach
// before the first Submit.
type runtime struct {
	name string
	fn   Transform

	mu    sync.Mutex
	state lifecycleState
	q     *queue.Queue
	next  Submitter
	wg    sync.WaitGroup

	log *logrus.Entry
}

// New returns a Contract that runs fn under the given stable name.
// Diagnostics are written through logrus's standard logger, which the host
// configures once at startup (see cmd/analyzer); stages never need a
// logger threaded through their six entry points.
func New(name string, fn Transform) Contract {
	return &runtime{name: name, fn: fn, log: logrus.WithField("stage", name)}
}

func (r *runtime) Name() string { return r.name }

func (r *runtime) Init(capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateUninitialized {
		return xerrors.New("stage already initialized")
	}

	q, err := queue.New(capacity)
	if err != nil {
		return xerrors.Errorf("init stage %q: %w", r.name, err)
	}

	r.q = q
	r.state = stateReady
	r.wg.Add(1)
	go r.run()
	return nil
}

func (r *runtime) Attach(next Submitter) {
	r.mu.Lock()
	r.next = next
	r.mu.Unlock()
}

func (r *runtime) Submit(record string) error {
	r.mu.Lock()
	if r.state == stateUninitialized {
		r.mu.Unlock()
		return xerrors.New("not initialized")
	}
	q := r.q
	r.mu.Unlock()

	return q.Submit(record)
}

func (r *runtime) WaitFinished() error {
	r.mu.Lock()
	if r.state == stateUninitialized {
		r.mu.Unlock()
		return xerrors.New("not initialized")
	}
	q := r.q
	r.mu.Unlock()

	q.WaitFinished()
	return nil
}

func (r *runtime) Finalize() error {
	r.mu.Lock()
	if r.state == stateUninitialized {
		r.mu.Unlock()
		return xerrors.New("not initialized")
	}
	if r.state == stateTerminated {
		r.mu.Unlock()
		return nil
	}
	q := r.q
	r.mu.Unlock()

	r.wg.Wait()
	q.Close()

	r.mu.Lock()
	r.state = stateTerminated
	r.mu.Unlock()
	return nil
}

// run dequeues one record at a time, forwards the sentinel and raises
// finished on <END>, otherwise transforms and forwards.
func (r *runtime) run() {
	defer r.wg.Done()

	for {
		record := r.q.Dequeue()

		if record == Sentinel {
			r.mu.Lock()
			r.state = stateDraining
			next := r.next
			r.mu.Unlock()

			// Run the transform for its side effects (logger prints
			// it, typewriter types it out) but always forward the
			// literal sentinel verbatim, regardless of what the
			// transform computed from it.
			r.fn(Sentinel)

			if next != nil {
				if err := next(Sentinel); err != nil {
					r.log.WithError(err).Warn("failed to forward sentinel to next stage")
				}
			}

			r.q.SignalFinished()
			r.mu.Lock()
			r.state = stateFinished
			r.mu.Unlock()
			return
		}

		out, ok := r.fn(record)
		if !ok {
			r.log.Warn("transform dropped record")
			continue
		}

		r.mu.Lock()
		next := r.next
		r.mu.Unlock()

		if next != nil {
			if err := next(out); err != nil {
				r.log.WithError(err).Warn("failed to forward record to next stage")
			}
		}
	}
}
