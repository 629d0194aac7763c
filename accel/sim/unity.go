package sim

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-route/accel"
)

// unityModule is a fixed 1x1 pass-through. It shares the lifecycle and
// launch rules of the routing module but ignores control payloads;
// it exists to validate the transport path during bring-up.
type unityModule struct {
	rt *Runtime
}

func (m *unityModule) NewProcessor(g accel.Graph, spec accel.ProcessorSpec) (accel.Processor, error) {
	if g == nil {
		return nil, fmt.Errorf("sim: %s: nil graph", ModuleUnity)
	}
	if spec.Inputs != 1 || spec.Outputs != 1 {
		return nil, fmt.Errorf("sim: %s: topology is fixed at 1x1, got %dx%d", ModuleUnity, spec.Inputs, spec.Outputs)
	}
	if spec.MaxFrames < 1 {
		return nil, fmt.Errorf("sim: %s: invalid max frames %d", ModuleUnity, spec.MaxFrames)
	}

	m.rt.mu.Lock()
	m.rt.stats.ProcessorsOpen++
	m.rt.mu.Unlock()

	return &unityProcessor{rt: m.rt, spec: spec}, nil
}

type unityProcessor struct {
	rt   *Runtime
	spec accel.ProcessorSpec

	mu     sync.Mutex
	closed bool
}

func (p *unityProcessor) NewExecutor(cfg accel.ExecutorConfig) (accel.Executor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, accel.ErrClosed
	}
	if cfg.Inputs != 1 || cfg.Outputs != 1 {
		return nil, fmt.Errorf("sim: %s executor topology must be 1x1, got %dx%d", ModuleUnity, cfg.Inputs, cfg.Outputs)
	}
	if cfg.MaxFrames < 1 || cfg.MaxFrames > p.spec.MaxFrames {
		return nil, fmt.Errorf("sim: executor max frames %d out of range (processor max %d)",
			cfg.MaxFrames, p.spec.MaxFrames)
	}

	p.rt.mu.Lock()
	p.rt.stats.ExecutorsOpen++
	p.rt.mu.Unlock()

	return &unityExecutor{p: p, maxFrames: cfg.MaxFrames}, nil
}

func (p *unityProcessor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return accel.ErrClosed
	}
	p.closed = true

	p.rt.mu.Lock()
	p.rt.stats.ProcessorsClosed++
	p.rt.mu.Unlock()

	return nil
}

type unityExecutor struct {
	p         *unityProcessor
	maxFrames int

	mu     sync.Mutex
	closed bool
}

func (e *unityExecutor) Execute(in, out [][]float64, frames int, _ []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return accel.ErrClosed
	}

	if err := e.p.rt.beforeLaunch(); err != nil {
		return err
	}

	if frames < 0 || frames > e.maxFrames {
		return fmt.Errorf("%w: %d > %d", accel.ErrTooManyFrames, frames, e.maxFrames)
	}
	if len(in) != 1 || len(out) != 1 {
		return fmt.Errorf("sim: launch channel tables %dx%d do not match processor 1x1", len(in), len(out))
	}

	copy(out[0][:frames], in[0][:frames])
	return nil
}

func (e *unityExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return accel.ErrClosed
	}
	e.closed = true

	e.p.rt.mu.Lock()
	e.p.rt.stats.ExecutorsClosed++
	e.p.rt.mu.Unlock()

	return nil
}
