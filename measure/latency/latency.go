// Package latency estimates the delay and gain a routing path applied
// to a known reference signal. It is the measurement-side check for
// accelerator-routed audio: feed a reference through one route, hand
// both signals to Estimate, and compare the result against the
// configured matrix entry.
package latency

import (
	"errors"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-route/buffer"
)

// Estimate runs in measurement loops, so the real-valued scratch is
// pooled rather than allocated per call.
var scratch = buffer.NewPool()

// Errors reported by Estimate.
var (
	ErrEmptyInput = errors.New("latency: empty input")
	ErrNoSignal   = errors.New("latency: reference signal has no energy")
)

// Result is one estimated route response.
type Result struct {
	// DelaySamples is the lag of the cross-correlation peak, i.e. the
	// delay the route applied. Only non-negative lags are searched.
	DelaySamples int

	// Gain is the linear gain at the peak, signed.
	Gain float64
}

// Estimate cross-correlates routed against reference via FFT and
// returns the dominant non-negative lag and its gain. For a routed
// signal of the form gain*delay(reference, d) the result is exact up
// to floating point rounding.
func Estimate(reference, routed []float64) (Result, error) {
	if len(reference) == 0 || len(routed) == 0 {
		return Result{}, ErrEmptyInput
	}

	buf := scratch.Get(len(reference))
	sq := buf.Samples()
	vecmath.MulBlock(sq, reference, reference)

	energy := 0.0
	for _, v := range sq {
		energy += v
	}
	scratch.Put(buf)
	if energy == 0 {
		return Result{}, ErrNoSignal
	}

	n := nextPowerOf2(len(reference) + len(routed) - 1)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Result{}, err
	}

	ref := make([]complex128, n)
	for i, v := range reference {
		ref[i] = complex(v, 0)
	}

	rt := make([]complex128, n)
	for i, v := range routed {
		rt[i] = complex(v, 0)
	}

	if err := plan.Forward(ref, ref); err != nil {
		return Result{}, err
	}
	if err := plan.Forward(rt, rt); err != nil {
		return Result{}, err
	}

	// Cross-correlation: IFFT(routed * conj(reference)); lag k lands
	// at bin k for k >= 0.
	for i := range ref {
		ref[i] = rt[i] * cmplx.Conj(ref[i])
	}

	if err := plan.Inverse(ref, ref); err != nil {
		return Result{}, err
	}

	peakLag := 0
	peakVal := 0.0
	for lag := 0; lag < len(routed); lag++ {
		v := real(ref[lag])
		if math.Abs(v) > math.Abs(peakVal) {
			peakVal = v
			peakLag = lag
		}
	}

	return Result{DelaySamples: peakLag, Gain: peakVal / energy}, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
