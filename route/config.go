package route

// RoutingModule is the name of the accelerator-side delay/gain routing
// module the engine loads by default.
const RoutingModule = "route.delaymix"

// Config is the engine configuration established by Prepare. Every
// Prepare replaces the active configuration in full; there is no
// incremental diffing.
type Config struct {
	// Inputs and Outputs are the routed channel counts, clamped to at
	// least 1.
	Inputs  int
	Outputs int

	// SampleRate in Hz. Must be positive.
	SampleRate float64

	// MaxFrames bounds the largest single accelerator launch. Blocks
	// larger than this are split into consecutive launches.
	MaxFrames int

	// Enabled gates ProcessBlock. A prepared but disabled engine
	// outputs silence.
	Enabled bool
}

// clamped returns the configuration with channel counts raised to the
// minimum of 1.
func (c Config) clamped() Config {
	if c.Inputs < 1 {
		c.Inputs = 1
	}
	if c.Outputs < 1 {
		c.Outputs = 1
	}
	return c
}

// valid reports whether the non-clampable fields are usable.
func (c Config) valid() bool {
	return c.SampleRate > 0 && c.MaxFrames >= 1
}

// Block is the host-buffer view handed to ProcessBlock: one slice per
// host channel plus the region to process. Channels may carry fewer
// (or more) slices than the engine's configured channel counts;
// missing channels read as zero and excess output channels are zeroed.
type Block struct {
	Channels [][]float64

	// Offset is the first frame of the region within each channel.
	Offset int

	// Frames is the region length.
	Frames int
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithModule overrides the accelerator module the engine loads.
// The pass-through bring-up module ("route.unity") is the usual
// alternative to the default RoutingModule.
func WithModule(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.module = name
		}
	}
}
