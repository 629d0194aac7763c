package route

import "github.com/cwbudde/algo-route/route/wire"

// buildRoutingMessageLocked serializes the current delay/gain matrix
// into the reused message buffer. Built once per block, not per
// launch.
//
// Delays arrive in milliseconds from the parameter store and leave in
// sample counts: converted at float64 precision with the active sample
// rate, then narrowed to the accelerator's float32. Gains are copied
// verbatim.
//
// Returns nil and false when either matrix reference is missing or
// mis-sized; the caller silences the block without clearing readiness,
// since the external store is expected to supply valid data again.
func (e *Engine) buildRoutingMessageLocked() ([]byte, bool) {
	n := e.cfg.Inputs * e.cfg.Outputs
	if e.delayMS == nil || e.gains == nil || len(e.delayMS) != n || len(e.gains) != n {
		return nil, false
	}

	samplesPerMS := e.cfg.SampleRate / 1000.0
	for i := 0; i < n; i++ {
		e.delaySamples[i] = float32(e.delayMS[i] * samplesPerMS)
		e.gainValues[i] = float32(e.gains[i])
	}

	msg, err := wire.AppendRouting(e.msgBuf[:0], e.cfg.Inputs, e.cfg.Outputs, e.delaySamples, e.gainValues)
	if err != nil {
		return nil, false
	}
	e.msgBuf = msg[:0]

	return msg, true
}
