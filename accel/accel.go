package accel

import "errors"

// Errors reported by runtime implementations.
var (
	// ErrNoDevice is returned when a runtime has no usable compute device.
	ErrNoDevice = errors.New("accel: no compute device available")

	// ErrModuleNotFound is returned when a named processing module is
	// not present in the runtime.
	ErrModuleNotFound = errors.New("accel: module not found")

	// ErrClosed is returned when a released resource is used.
	ErrClosed = errors.New("accel: resource is closed")

	// ErrTooManyFrames is returned when a launch exceeds the executor's
	// configured maximum frame count.
	ErrTooManyFrames = errors.New("accel: launch exceeds max frames")
)

// DeviceInfo describes one compute device offered by a Runtime.
type DeviceInfo struct {
	// Name is a stable human-readable device identifier.
	Name string
}

// Runtime is the entry point to an accelerator implementation.
// Implementations must be safe for concurrent use by multiple engines.
type Runtime interface {
	// Devices enumerates the available compute devices. An empty list
	// without an error is valid and means no device is usable.
	Devices() ([]DeviceInfo, error)

	// NewContext creates an execution context bound to the given device.
	NewContext(dev DeviceInfo) (Context, error)

	// Module looks up a loaded processing module by its fixed name.
	// Returns ErrModuleNotFound if the module is absent.
	Module(name string) (Module, error)
}

// Context is an execution context exclusively owned by one engine.
type Context interface {
	// NewGraph creates a compute graph on this context.
	NewGraph() (Graph, error)

	// Close releases the context. Graphs created on it must already
	// be closed.
	Close() error
}

// Graph scopes processor instances on a context.
type Graph interface {
	Close() error
}

// ProcessorSpec is the fixed-size specification blob a processor
// instance is built from.
type ProcessorSpec struct {
	Inputs     int
	Outputs    int
	MaxFrames  int
	SampleRate float64
}

// Module is a loaded accelerator-side computation unit.
type Module interface {
	// NewProcessor instantiates and arms a processor on the graph,
	// sized to the spec.
	NewProcessor(g Graph, spec ProcessorSpec) (Processor, error)
}

// Processor is an armed processor instance.
type Processor interface {
	// NewExecutor constructs a synchronous executor bound to this
	// processor.
	NewExecutor(cfg ExecutorConfig) (Executor, error)

	Close() error
}

// ExecutorConfig configures a synchronous executor.
type ExecutorConfig struct {
	Inputs    int
	Outputs   int
	MaxFrames int
}

// Executor issues launches. It is not safe for concurrent use; the
// owning engine serializes access.
type Executor interface {
	// Execute runs one launch over frames samples. in and out hold one
	// slice per configured channel, each at least frames long. control
	// is an optional out-of-band payload routed to the processor; its
	// layout is a contract between caller and module. Implementations
	// must not retain the slices past the call.
	Execute(in, out [][]float64, frames int, control []byte) error

	Close() error
}
