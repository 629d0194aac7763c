package route

import (
	"fmt"
	"time"
)

// ProcessBlock runs the block through the accelerator. Realtime-safe:
// it never blocks and never allocates on the steady-state path.
//
// Gate order: enabled flag, readiness flag, then a non-blocking lock
// attempt. Any gate that fails silences the block region and returns;
// contention self-heals on the next callback. A failed launch aborts
// the remainder of the block immediately and clears readiness, leaving
// recovery to the next Prepare — subsequent callbacks hit the
// readiness gate and stay silent.
func (e *Engine) ProcessBlock(block Block) {
	if block.Frames <= 0 {
		return
	}

	if !e.enabled.Load() || !e.ready.Load() {
		zeroBlock(block)
		return
	}

	if !e.mu.TryLock() {
		// Reconfiguration in flight; one silent block.
		zeroBlock(block)
		return
	}
	defer e.mu.Unlock()

	// The flag may have dropped between the gate and the acquire.
	if !e.ready.Load() {
		zeroBlock(block)
		return
	}

	control, ok := e.buildRoutingMessageLocked()
	if !ok {
		// Malformed matrix references: transient, readiness untouched.
		zeroBlock(block)
		return
	}

	for pos := 0; pos < block.Frames; {
		frames := block.Frames - pos
		if frames > e.cfg.MaxFrames {
			frames = e.cfg.MaxFrames
		}

		e.bindTablesLocked(block, block.Offset+pos, frames)

		start := time.Now()
		err := e.executeLocked(frames, control)

		e.diag.LastExecDuration = time.Since(start)
		e.diag.LastLaunchFrames = frames

		if err != nil {
			// Fail fast: a single faulted launch disables the
			// accelerator path until the next successful Prepare. The
			// remainder of the block is deliberately left untouched.
			e.diag.LastExecuteFailed = true
			e.diag.Ready = false
			e.ready.Store(false)
			return
		}

		pos += frames
	}

	// Host channels beyond the configured output count must not leak
	// stale data downstream. They may double as input channels, so
	// this runs only after every launch has consumed them.
	for ch := e.cfg.Outputs; ch < len(block.Channels); ch++ {
		zeroRange(block.Channels[ch], block.Offset, block.Frames)
	}
}

// bindTablesLocked fills the per-launch channel pointer tables for the
// region [offset, offset+frames).
//
// Inputs are staged into an engine-owned copy so the accelerator never
// reads a host channel the launch is also writing (host buffers are
// commonly in-place). Host channels missing from the block read as
// zero; output channels the host does not provide write into a discard
// buffer. The accelerator always sees a full, correctly shaped table.
func (e *Engine) bindTablesLocked(block Block, offset, frames int) {
	for i := 0; i < e.cfg.Inputs; i++ {
		dst := e.stage.Channel(i)[:frames]

		if i < len(block.Channels) && offset+frames <= len(block.Channels[i]) {
			copy(dst, block.Channels[i][offset:offset+frames])
		} else {
			for n := range dst {
				dst[n] = 0
			}
		}

		e.inTable[i] = dst
	}

	for o := 0; o < e.cfg.Outputs; o++ {
		if o < len(block.Channels) && offset+frames <= len(block.Channels[o]) {
			e.outTable[o] = block.Channels[o][offset : offset+frames]
		} else {
			e.outTable[o] = e.discard.Samples()[:frames]
		}
	}
}

// executeLocked issues one launch inside the fault barrier.
//
// The barrier converts panics raised by accelerator or driver code
// into an ordinary error so no fault crosses the call boundary. Go
// cannot intercept hardware faults delivered to foreign driver threads
// (a SIGSEGV inside a cgo driver still terminates the process); the
// exposure window is confined to this single call.
func (e *Engine) executeLocked(frames int, control []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("route: accelerator launch fault: %v", r)
		}
	}()

	return e.exec.Execute(e.inTable, e.outTable, frames, control)
}

// zeroBlock silences the block's region across all host channels.
func zeroBlock(block Block) {
	for _, ch := range block.Channels {
		zeroRange(ch, block.Offset, block.Frames)
	}
}

func zeroRange(ch []float64, offset, frames int) {
	if offset < 0 {
		offset = 0
	}
	end := offset + frames
	if end > len(ch) {
		end = len(ch)
	}
	for i := offset; i < end; i++ {
		ch[i] = 0
	}
}
