package runtime

import (
	"sync"
)

// Phase represents where the process is in its lifecycle.
type Phase string

const (
	// PhaseNew means the runtime has been created but not started.
	PhaseNew Phase = "new"
	// PhaseStarting means the application is binding listeners and
	// loading routes.
	PhaseStarting Phase = "starting"
	// PhaseRunning means the gateway is serving traffic.
	PhaseRunning Phase = "running"
	// PhaseExiting means shutdown was requested and in-flight requests
	// are draining.
	PhaseExiting Phase = "exiting"
	// PhaseExited means the application has stopped.
	PhaseExited Phase = "exited"
)

// PhaseChangeCallback is called when the tracked phase changes.
type PhaseChangeCallback func(oldPhase, newPhase Phase, err error)

// Tracker records the process lifecycle phase and notifies on changes.
type Tracker struct {
	mu            sync.RWMutex
	phase         Phase
	lastError     error
	phaseChangeCb PhaseChangeCallback
}

// NewTracker creates a tracker in PhaseNew.
func NewTracker() *Tracker {
	return &Tracker{phase: PhaseNew}
}

// Phase returns the current phase.
func (t *Tracker) Phase() Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phase
}

// LastError returns the error recorded with the most recent transition.
func (t *Tracker) LastError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastError
}

// SetPhaseChangeCallback sets the phase change callback.
func (t *Tracker) SetPhaseChangeCallback(callback PhaseChangeCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phaseChangeCb = callback
}

// Transition updates the phase and notifies the callback.
func (t *Tracker) Transition(newPhase Phase, err error) {
	t.mu.Lock()
	oldPhase := t.phase
	t.phase = newPhase
	t.lastError = err
	callback := t.phaseChangeCb
	t.mu.Unlock()

	// Call the callback outside of the lock to avoid deadlocks
	if callback != nil && oldPhase != newPhase {
		callback(oldPhase, newPhase, err)
	}
}
