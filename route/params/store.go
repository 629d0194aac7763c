// Package params is a minimal host-side parameter store for routing
// matrices. It owns the delay and gain backing arrays and hands out
// the stable slice references a route.Engine holds between Prepares.
//
// The store is deliberately unsynchronized with respect to the audio
// thread: the engine tolerates momentarily inconsistent values and
// simply reflects them in the next block's routing message.
package params

import "fmt"

// Store holds one delay matrix (milliseconds) and one gain matrix
// (linear), both input-major with length Inputs*Outputs.
type Store struct {
	inputs  int
	outputs int
	delayMS []float64
	gains   []float64
}

// NewStore returns a Store for the given topology with all delays and
// gains at zero. Channel counts are clamped to at least 1.
func NewStore(inputs, outputs int) *Store {
	if inputs < 1 {
		inputs = 1
	}
	if outputs < 1 {
		outputs = 1
	}

	return &Store{
		inputs:  inputs,
		outputs: outputs,
		delayMS: make([]float64, inputs*outputs),
		gains:   make([]float64, inputs*outputs),
	}
}

// Inputs returns the input channel count.
func (s *Store) Inputs() int { return s.inputs }

// Outputs returns the output channel count.
func (s *Store) Outputs() int { return s.outputs }

// DelayRef returns the stable delay matrix slice. The reference stays
// valid until the next Resize.
func (s *Store) DelayRef() []float64 { return s.delayMS }

// GainRef returns the stable gain matrix slice. The reference stays
// valid until the next Resize.
func (s *Store) GainRef() []float64 { return s.gains }

// SetDelayMS sets the delay for one input/output pair in milliseconds.
func (s *Store) SetDelayMS(input, output int, ms float64) error {
	idx, err := s.index(input, output)
	if err != nil {
		return err
	}
	if ms < 0 {
		ms = 0
	}
	s.delayMS[idx] = ms
	return nil
}

// SetGain sets the linear gain for one input/output pair.
func (s *Store) SetGain(input, output int, gain float64) error {
	idx, err := s.index(input, output)
	if err != nil {
		return err
	}
	s.gains[idx] = gain
	return nil
}

// DelayMS returns the delay for one input/output pair.
func (s *Store) DelayMS(input, output int) (float64, error) {
	idx, err := s.index(input, output)
	if err != nil {
		return 0, err
	}
	return s.delayMS[idx], nil
}

// Gain returns the linear gain for one input/output pair.
func (s *Store) Gain(input, output int) (float64, error) {
	idx, err := s.index(input, output)
	if err != nil {
		return 0, err
	}
	return s.gains[idx], nil
}

// Resize replaces both matrices with fresh zero-filled arrays for the
// new topology. Previously handed-out references keep their old
// backing arrays; an engine still holding them sees a size mismatch
// and silences blocks until it is reprepared with the new refs.
func (s *Store) Resize(inputs, outputs int) {
	if inputs < 1 {
		inputs = 1
	}
	if outputs < 1 {
		outputs = 1
	}

	s.inputs = inputs
	s.outputs = outputs
	s.delayMS = make([]float64, inputs*outputs)
	s.gains = make([]float64, inputs*outputs)
}

func (s *Store) index(input, output int) (int, error) {
	if input < 0 || input >= s.inputs || output < 0 || output >= s.outputs {
		return 0, fmt.Errorf("params: route %d->%d out of range for %dx%d store",
			input, output, s.inputs, s.outputs)
	}
	return input*s.outputs + output, nil
}
