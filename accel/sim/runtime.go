package sim

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-route/accel"
)

// Stats counts resource lifecycle events on a Runtime. Tests use it to
// assert that engines build and tear down resources in full.
type Stats struct {
	ContextsCreated  int
	ContextsClosed   int
	GraphsCreated    int
	GraphsClosed     int
	ProcessorsOpen   int
	ProcessorsClosed int
	ExecutorsOpen    int
	ExecutorsClosed  int
	Launches         int
}

// Runtime is a simulated accelerator runtime. It is safe for
// concurrent use.
type Runtime struct {
	mu      sync.Mutex
	devices []accel.DeviceInfo
	modules map[string]accel.Module
	stats   Stats

	launchErr   error
	launchPanic string
}

// New returns a Runtime with one device ("sim0") and the default
// module registry.
func New() *Runtime {
	r := NewEmpty()
	r.devices = []accel.DeviceInfo{{Name: "sim0"}}
	r.modules[ModuleDelayMix] = &delayMixModule{rt: r}
	r.modules[ModuleUnity] = &unityModule{rt: r}
	return r
}

// NewEmpty returns a Runtime with no devices and no modules. Useful
// for exercising configuration-failure paths.
func NewEmpty() *Runtime {
	return &Runtime{modules: map[string]accel.Module{}}
}

// Devices implements accel.Runtime.
func (r *Runtime) Devices() ([]accel.DeviceInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]accel.DeviceInfo, len(r.devices))
	copy(out, r.devices)
	return out, nil
}

// NewContext implements accel.Runtime.
func (r *Runtime) NewContext(dev accel.DeviceInfo) (accel.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for _, d := range r.devices {
		if d.Name == dev.Name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", accel.ErrNoDevice, dev.Name)
	}

	r.stats.ContextsCreated++
	return &simContext{rt: r}, nil
}

// Module implements accel.Runtime.
func (r *Runtime) Module(name string) (accel.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", accel.ErrModuleNotFound, name)
	}
	return m, nil
}

// Stats returns a snapshot of the lifecycle counters.
func (r *Runtime) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// InjectLaunchError makes the next launch on any executor return err.
// Single-shot.
func (r *Runtime) InjectLaunchError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.launchErr = err
}

// InjectLaunchPanic makes the next launch on any executor panic with
// msg, standing in for a driver-level fault. Single-shot.
func (r *Runtime) InjectLaunchPanic(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.launchPanic = msg
}

// beforeLaunch applies pending fault injection and bumps counters.
func (r *Runtime) beforeLaunch() error {
	r.mu.Lock()
	r.stats.Launches++
	err := r.launchErr
	msg := r.launchPanic
	r.launchErr = nil
	r.launchPanic = ""
	r.mu.Unlock()

	if msg != "" {
		panic(msg)
	}
	return err
}

type simContext struct {
	rt     *Runtime
	mu     sync.Mutex
	closed bool
}

func (c *simContext) NewGraph() (accel.Graph, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, accel.ErrClosed
	}

	c.rt.mu.Lock()
	c.rt.stats.GraphsCreated++
	c.rt.mu.Unlock()

	return &simGraph{rt: c.rt}, nil
}

func (c *simContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return accel.ErrClosed
	}
	c.closed = true

	c.rt.mu.Lock()
	c.rt.stats.ContextsClosed++
	c.rt.mu.Unlock()

	return nil
}

type simGraph struct {
	rt     *Runtime
	mu     sync.Mutex
	closed bool
}

func (g *simGraph) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return accel.ErrClosed
	}
	g.closed = true

	g.rt.mu.Lock()
	g.rt.stats.GraphsClosed++
	g.rt.mu.Unlock()

	return nil
}
