// Package accel defines the capability surface of a parallel-compute
// accelerator as a set of small interfaces: a Runtime enumerates
// devices and loads named processing modules, a Context owns execution
// state on one device, a Graph scopes processor instances, and an
// Executor issues synchronous launches over bounded sample counts.
//
// The package contains no vendor bindings. Engines written against it
// (see package route) are testable with an in-process implementation
// such as accel/sim, and a production binding only has to satisfy the
// same interfaces. Runtimes are injected explicitly; there is no
// package-level singleton.
//
// Resource teardown follows a strict reverse order: Executor first (it
// may hold back-references into the processor), then Processor, then
// Graph, then Context. Implementations may rely on callers honoring
// this ordering.
package accel
