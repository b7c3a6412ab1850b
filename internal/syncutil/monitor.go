// Package syncutil provides small synchronization primitives shared by the
// pipeline runtime.
package syncutil

import "sync"

// Monitor is a sticky binary signal with broadcast wake-up and explicit
// reset. Once Signal has been called, every subsequent Wait returns
// immediately without blocking, until Reset is called. It is the building
// block the bounded queue uses for its not-full, not-empty and finished
// conditions.
type Monitor struct {
	mu       sync.Mutex
	cond     *sync.Cond
	signaled bool
}

// New returns a Monitor in the reset (unsignaled) state.
func New() *Monitor {
	m := &Monitor{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Signal atomically marks the monitor as signaled and wakes every waiter.
func (m *Monitor) Signal() {
	m.mu.Lock()
	m.signaled = true
	m.cond.Broadcast()
	m.mu.Unlock()
}

// Reset atomically clears the signaled state. A concurrent Signal is
// ordered by the mutex; the last writer wins.
func (m *Monitor) Reset() {
	m.mu.Lock()
	m.signaled = false
	m.mu.Unlock()
}

// Wait blocks until the monitor has been signaled, then returns. It does
// not alter the signaled state, so a sticky signal satisfies every future
// Wait until the next Reset. Spurious wakeups are handled by re-checking
// the condition under the mutex.
func (m *Monitor) Wait() {
	m.mu.Lock()
	for !m.signaled {
		m.cond.Wait()
	}
	m.mu.Unlock()
}
