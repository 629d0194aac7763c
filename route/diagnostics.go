package route

import "time"

// Diagnostics is a read-only snapshot of engine observability state.
// Nothing in here influences control flow except Ready, which mirrors
// the readiness gate.
type Diagnostics struct {
	Ready             bool
	DeviceName        string
	LastExecDuration  time.Duration
	LastLaunchFrames  int
	LastExecuteFailed bool
}

// Diagnostics returns a snapshot of the engine's diagnostic state.
// Control-path only; it blocks on the engine guard.
func (e *Engine) Diagnostics() Diagnostics {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.diag
	d.Ready = e.ready.Load()
	return d
}

// Ready reports whether the accelerator pipeline is armed. Safe from
// any thread.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}
