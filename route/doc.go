// Package route implements a real-time audio routing engine that
// offloads a per-input delay/gain matrix to an external compute
// accelerator and streams audio through it block by block.
//
// The engine owns the full accelerator resource lifecycle (context,
// graph, module, processor, executor) behind an idempotent
// Prepare/ReleaseResources pair driven from a non-realtime control
// thread. The realtime path, ProcessBlock, never blocks: it is gated
// by an atomic readiness flag and a non-blocking lock attempt, and on
// contention or failure it degrades to silence instead of stalling or
// crashing the audio callback.
//
// Each processed block serializes the current delay/gain matrix into a
// wire.RoutingMessage and partitions the block into launches no larger
// than the configured granularity, binding fresh per-launch channel
// pointer tables. Launches run inside a fault barrier that converts
// panics from accelerator or driver code into an ordinary failure; a
// failed launch disables the engine until the next successful Prepare.
//
// Typical use:
//
//	eng := route.New(rt)
//	ok := eng.Prepare(route.Config{
//		Inputs:     2,
//		Outputs:    4,
//		SampleRate: 48000,
//		MaxFrames:  256,
//		Enabled:    true,
//	}, store.DelayRef(), store.GainRef())
//	// audio thread, per callback:
//	eng.ProcessBlock(route.Block{Channels: chans, Frames: n})
package route
