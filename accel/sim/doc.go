// Package sim is an in-process implementation of the accel capability
// surface. It behaves like a tiny accelerator runtime: one virtual
// device, a registry of named modules, and synchronous executors that
// run the module computation on the calling goroutine.
//
// Two modules are registered by default:
//
//   - "route.delaymix": the delay/gain routing matrix. Each launch may
//     carry a wire.RoutingMessage control payload updating the matrix;
//     per-pair delay lines persist across launches, so chunked
//     execution is sample-accurate.
//   - "route.unity": a fixed 1x1 pass-through used as a transport
//     bring-up harness.
//
// The runtime also offers launch fault injection so engines can test
// their containment behavior without a real driver misbehaving.
//
// sim is not allocation-free and not realtime-safe; it exists for
// tests, the demo command, and as the executable definition of the
// wire contract.
package sim
