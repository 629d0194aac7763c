package route

import (
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-route/accel"
	"github.com/cwbudde/algo-route/buffer"
	"github.com/cwbudde/algo-route/route/wire"
)

// Engine routes audio through an accelerator-side delay/gain matrix.
//
// Two actors share an Engine: a non-realtime control actor calling
// Prepare, Reprepare, SetProcessingEnabled, ReleaseResources, and
// Clear, and a realtime audio actor calling ProcessBlock. Control
// calls block on the internal guard; the audio path only ever
// try-locks it.
type Engine struct {
	rt     accel.Runtime
	module string

	// mu guards all accelerator state and the preallocated launch
	// tables. ready is published with release semantics after a fully
	// successful Prepare and cleared at the first sign of failure,
	// letting ProcessBlock skip the lock entirely while the engine is
	// torn down or mid-reconfiguration.
	mu      sync.Mutex
	ready   atomic.Bool
	enabled atomic.Bool

	cfg Config

	// Non-owning references into the external parameter store,
	// input-major, length Inputs*Outputs. Replaced wholesale by every
	// Prepare; read (never written) on the audio path.
	delayMS []float64
	gains   []float64

	device accel.DeviceInfo
	ctx    accel.Context
	graph  accel.Graph
	proc   accel.Processor
	exec   accel.Executor

	// Launch-time scratch, sized in Prepare so the steady-state audio
	// path does not allocate.
	inTable      [][]float64
	outTable     [][]float64
	stage        *buffer.Channels
	discard      *buffer.Buffer
	delaySamples []float32
	gainValues   []float32
	msgBuf       []byte

	diag Diagnostics
}

// New returns an engine bound to the given accelerator runtime. The
// engine does not own the runtime's lifecycle; it only owns the
// resources it creates on it.
func New(rt accel.Runtime, opts ...Option) *Engine {
	e := &Engine{rt: rt, module: RoutingModule}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Prepare tears down any existing accelerator state and builds a fresh
// context, graph, processor, and executor for cfg. delayMS and gains
// are non-owning references to the external parameter store's
// matrices; they are revalidated every block.
//
// Prepare reports success as a bare bool: every failure mode (no
// runtime, no device, module missing, arming failure) leaves the
// engine fully torn down and not-ready. It is idempotent and safe to
// call repeatedly from the control thread.
func (e *Engine) Prepare(cfg Config, delayMS, gains []float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ready.Store(false)
	e.teardownLocked()

	cfg = cfg.clamped()
	e.cfg = cfg
	e.delayMS = delayMS
	e.gains = gains
	e.enabled.Store(cfg.Enabled)

	if !cfg.valid() || e.rt == nil {
		return false
	}

	if !e.buildLocked() {
		e.teardownLocked()
		return false
	}

	e.allocScratchLocked()

	e.diag = Diagnostics{Ready: true, DeviceName: e.device.Name}
	e.ready.Store(true)

	return true
}

// Reprepare is Prepare under its control-path name: a full rebuild
// with a (possibly) new configuration.
func (e *Engine) Reprepare(cfg Config, delayMS, gains []float64) bool {
	return e.Prepare(cfg, delayMS, gains)
}

// SetProcessingEnabled toggles the processing flag without touching
// accelerator state. A disabled engine outputs silence.
func (e *Engine) SetProcessingEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg.Enabled = enabled
	e.enabled.Store(enabled)
}

// ReleaseResources tears down all accelerator state and marks the
// engine not-ready. The configuration and matrix references survive
// for a later Reprepare.
func (e *Engine) ReleaseResources() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ready.Store(false)
	e.teardownLocked()
	e.diag = Diagnostics{}
}

// Clear releases everything and resets to the zero configuration.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ready.Store(false)
	e.enabled.Store(false)
	e.teardownLocked()

	e.cfg = Config{}
	e.delayMS = nil
	e.gains = nil
	e.diag = Diagnostics{}
}

// buildLocked runs the gated construction sequence: context, graph,
// module lookup, processor, executor. Caller holds mu and handles
// teardown on failure.
func (e *Engine) buildLocked() bool {
	devs, err := e.rt.Devices()
	if err != nil || len(devs) == 0 {
		return false
	}
	e.device = devs[0]

	e.ctx, err = e.rt.NewContext(e.device)
	if err != nil {
		return false
	}

	e.graph, err = e.ctx.NewGraph()
	if err != nil {
		return false
	}

	// Fails closed if the module is absent: no partial acceleration.
	mod, err := e.rt.Module(e.module)
	if err != nil {
		return false
	}

	e.proc, err = mod.NewProcessor(e.graph, accel.ProcessorSpec{
		Inputs:     e.cfg.Inputs,
		Outputs:    e.cfg.Outputs,
		MaxFrames:  e.cfg.MaxFrames,
		SampleRate: e.cfg.SampleRate,
	})
	if err != nil {
		return false
	}

	e.exec, err = e.proc.NewExecutor(accel.ExecutorConfig{
		Inputs:    e.cfg.Inputs,
		Outputs:   e.cfg.Outputs,
		MaxFrames: e.cfg.MaxFrames,
	})

	return err == nil
}

// teardownLocked releases everything in strict reverse construction
// order: executor first (it may hold back-references into the
// processor), then processor, graph, context. Close errors are
// swallowed; there is nothing useful to do with them mid-teardown.
func (e *Engine) teardownLocked() {
	if e.exec != nil {
		_ = e.exec.Close()
		e.exec = nil
	}
	if e.proc != nil {
		_ = e.proc.Close()
		e.proc = nil
	}
	if e.graph != nil {
		_ = e.graph.Close()
		e.graph = nil
	}
	if e.ctx != nil {
		_ = e.ctx.Close()
		e.ctx = nil
	}
	e.device = accel.DeviceInfo{}
}

// allocScratchLocked sizes the launch tables, input staging, discard
// sink, and message buffer for the active configuration.
func (e *Engine) allocScratchLocked() {
	n := e.cfg.Inputs * e.cfg.Outputs

	e.inTable = make([][]float64, e.cfg.Inputs)
	e.outTable = make([][]float64, e.cfg.Outputs)
	e.stage = buffer.NewChannels(e.cfg.Inputs, e.cfg.MaxFrames)
	e.discard = buffer.New(e.cfg.MaxFrames)
	e.delaySamples = make([]float32, n)
	e.gainValues = make([]float32, n)
	e.msgBuf = make([]byte, 0, wire.Size(e.cfg.Inputs, e.cfg.Outputs))
}
