package sim

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-route/accel"
	"github.com/cwbudde/algo-route/route/wire"
)

// ModuleDelayMix is the name of the delay/gain routing module.
const ModuleDelayMix = "route.delaymix"

// ModuleUnity is the name of the 1x1 pass-through module.
const ModuleUnity = "route.unity"

type delayMixModule struct {
	rt *Runtime
}

func (m *delayMixModule) NewProcessor(g accel.Graph, spec accel.ProcessorSpec) (accel.Processor, error) {
	if g == nil {
		return nil, fmt.Errorf("sim: %s: nil graph", ModuleDelayMix)
	}
	if spec.Inputs < 1 || spec.Outputs < 1 {
		return nil, fmt.Errorf("sim: %s: invalid topology %dx%d", ModuleDelayMix, spec.Inputs, spec.Outputs)
	}
	if spec.MaxFrames < 1 {
		return nil, fmt.Errorf("sim: %s: invalid max frames %d", ModuleDelayMix, spec.MaxFrames)
	}

	n := spec.Inputs * spec.Outputs
	p := &delayMixProcessor{
		rt:      m.rt,
		spec:    spec,
		lines:   make([]*delayLine, n),
		delays:  make([]int, n),
		gains:   make([]float64, n),
		scratch: make([]float64, spec.MaxFrames),
		scaled:  make([]float64, spec.MaxFrames),
	}
	for i := range p.lines {
		p.lines[i] = newDelayLine(1)
	}

	m.rt.mu.Lock()
	m.rt.stats.ProcessorsOpen++
	m.rt.mu.Unlock()

	return p, nil
}

// delayMixProcessor routes every input to every output through a
// per-pair delay line and linear gain. Gains start at zero, so a
// processor that never receives a control payload produces silence.
type delayMixProcessor struct {
	rt   *Runtime
	spec accel.ProcessorSpec

	mu     sync.Mutex
	closed bool

	// Input-major flattened matrices, index i*Outputs+o.
	lines  []*delayLine
	delays []int
	gains  []float64

	scratch []float64
	scaled  []float64
}

func (p *delayMixProcessor) NewExecutor(cfg accel.ExecutorConfig) (accel.Executor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, accel.ErrClosed
	}
	if cfg.Inputs != p.spec.Inputs || cfg.Outputs != p.spec.Outputs {
		return nil, fmt.Errorf("sim: executor topology %dx%d does not match processor %dx%d",
			cfg.Inputs, cfg.Outputs, p.spec.Inputs, p.spec.Outputs)
	}
	if cfg.MaxFrames < 1 || cfg.MaxFrames > p.spec.MaxFrames {
		return nil, fmt.Errorf("sim: executor max frames %d out of range (processor max %d)",
			cfg.MaxFrames, p.spec.MaxFrames)
	}

	p.rt.mu.Lock()
	p.rt.stats.ExecutorsOpen++
	p.rt.mu.Unlock()

	return &delayMixExecutor{p: p, maxFrames: cfg.MaxFrames}, nil
}

func (p *delayMixProcessor) Close() error {
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

// applyControl updates the routing matrix from a decoded payload.
func (p *delayMixProcessor) applyControl(control []byte) error {
	msg, err := wire.DecodeRouting(control)
	if err != nil {
		return fmt.Errorf("sim: %s control: %w", ModuleDelayMix, err)
	}
	if msg.Inputs != p.spec.Inputs || msg.Outputs != p.spec.Outputs {
		return fmt.Errorf("sim: %s control topology %dx%d does not match processor %dx%d",
			ModuleDelayMix, msg.Inputs, msg.Outputs, p.spec.Inputs, p.spec.Outputs)
	}

	for i := range p.delays {
		d := int(math.Round(float64(msg.DelaySamples[i])))
		if d < 0 {
			d = 0
		}
		p.delays[i] = d
		p.gains[i] = float64(msg.Gains[i])
	}
	return nil
}

type delayMixExecutor struct {
	p         *delayMixProcessor
	maxFrames int

	mu     sync.Mutex
	closed bool
}

func (e *delayMixExecutor) Execute(in, out [][]float64, frames int, control []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return accel.ErrClosed
	}

	p := e.p
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return accel.ErrClosed
	}

	if err := p.rt.beforeLaunch(); err != nil {
		return err
	}

	if frames < 0 || frames > e.maxFrames {
		return fmt.Errorf("%w: %d > %d", accel.ErrTooManyFrames, frames, e.maxFrames)
	}
	if len(in) != p.spec.Inputs || len(out) != p.spec.Outputs {
		return fmt.Errorf("sim: launch channel tables %dx%d do not match processor %dx%d",
			len(in), len(out), p.spec.Inputs, p.spec.Outputs)
	}

	if len(control) > 0 {
		if err := p.applyControl(control); err != nil {
			return err
		}
	}

	for o := range out {
		dst := out[o][:frames]
		for n := range dst {
			dst[n] = 0
		}
	}

	for i := 0; i < p.spec.Inputs; i++ {
		src := in[i][:frames]
		for o := 0; o < p.spec.Outputs; o++ {
			idx := i*p.spec.Outputs + o
			line := p.lines[idx]
			delay := p.delays[idx]
			line.ensure(delay + 1)

			delayed := p.scratch[:frames]
			for n := range src {
				line.write(src[n])
				delayed[n] = line.read(delay)
			}

			// The line must advance even at zero gain so later gain
			// changes stay sample-accurate.
			gain := p.gains[idx]
			if gain == 0 {
				continue
			}

			scaled := p.scaled[:frames]
			vecmath.ScaleBlock(scaled, delayed, gain)
			vecmath.AddBlockInPlace(out[o][:frames], scaled)
		}
	}

	return nil
}

func (e *delayMixExecutor) Close() error {
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
