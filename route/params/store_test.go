package params

import "testing"

func TestNewStoreClampsTopology(t *testing.T) {
	t.Parallel()

	s := NewStore(0, -3)

	if s.Inputs() != 1 || s.Outputs() != 1 {
		t.Errorf("topology %dx%d, want 1x1", s.Inputs(), s.Outputs())
	}

	if len(s.DelayRef()) != 1 || len(s.GainRef()) != 1 {
		t.Errorf("matrix lengths %d/%d, want 1/1", len(s.DelayRef()), len(s.GainRef()))
	}
}

func TestSetAndGet(t *testing.T) {
	t.Parallel()

	s := NewStore(2, 3)

	if err := s.SetDelayMS(1, 2, 4.5); err != nil {
		t.Fatalf("SetDelayMS: %v", err)
	}

	if err := s.SetGain(1, 2, 0.7); err != nil {
		t.Fatalf("SetGain: %v", err)
	}

	if got, _ := s.DelayMS(1, 2); got != 4.5 {
		t.Errorf("DelayMS = %v, want 4.5", got)
	}

	if got, _ := s.Gain(1, 2); got != 0.7 {
		t.Errorf("Gain = %v, want 0.7", got)
	}

	// Input-major layout: route (1,2) in a 2x3 store is index 5.
	if s.DelayRef()[5] != 4.5 {
		t.Errorf("DelayRef[5] = %v, want 4.5", s.DelayRef()[5])
	}
}

func TestNegativeDelayClampsToZero(t *testing.T) {
	t.Parallel()

	s := NewStore(1, 1)

	if err := s.SetDelayMS(0, 0, -2); err != nil {
		t.Fatalf("SetDelayMS: %v", err)
	}

	if got, _ := s.DelayMS(0, 0); got != 0 {
		t.Errorf("DelayMS = %v, want 0", got)
	}
}

func TestOutOfRangeRoutes(t *testing.T) {
	t.Parallel()

	s := NewStore(2, 2)

	if err := s.SetDelayMS(2, 0, 1); err == nil {
		t.Error("expected error for input out of range")
	}

	if err := s.SetGain(0, -1, 1); err == nil {
		t.Error("expected error for negative output")
	}
}

func TestRefsAreStableAcrossSets(t *testing.T) {
	t.Parallel()

	s := NewStore(2, 2)
	delays := s.DelayRef()
	gains := s.GainRef()

	_ = s.SetDelayMS(0, 1, 3)
	_ = s.SetGain(1, 0, 0.5)

	if delays[1] != 3 {
		t.Error("delay write not visible through earlier ref")
	}

	if gains[2] != 0.5 {
		t.Error("gain write not visible through earlier ref")
	}
}

func TestResizeInvalidatesOldRefsBySize(t *testing.T) {
	t.Parallel()

	s := NewStore(2, 2)
	old := s.DelayRef()

	s.Resize(3, 3)

	if len(old) == len(s.DelayRef()) {
		t.Error("expected resize to change matrix length")
	}

	if len(s.DelayRef()) != 9 {
		t.Errorf("new length %d, want 9", len(s.DelayRef()))
	}
}
