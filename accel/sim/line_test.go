package sim

import "testing"

func TestDelayLineReadOffsets(t *testing.T) {
	t.Parallel()

	l := newDelayLine(4)
	for _, v := range []float64{1, 2, 3, 4} {
		l.write(v)
	}

	if got := l.read(0); got != 4 {
		t.Errorf("read(0) = %v, want 4", got)
	}

	if got := l.read(3); got != 1 {
		t.Errorf("read(3) = %v, want 1", got)
	}

	if got := l.read(4); got != 0 {
		t.Errorf("read past capacity = %v, want 0", got)
	}
}

func TestDelayLineEnsurePreservesHistory(t *testing.T) {
	t.Parallel()

	l := newDelayLine(2)
	l.write(1)
	l.write(2)
	l.write(3) // overwrites 1

	l.ensure(8)

	if got := l.read(0); got != 3 {
		t.Errorf("read(0) after grow = %v, want 3", got)
	}

	if got := l.read(1); got != 2 {
		t.Errorf("read(1) after grow = %v, want 2", got)
	}

	l.write(4)

	if got := l.read(0); got != 4 {
		t.Errorf("read(0) after grow+write = %v, want 4", got)
	}

	if got := l.read(2); got != 2 {
		t.Errorf("read(2) after grow+write = %v, want 2", got)
	}
}

func TestDelayLineReset(t *testing.T) {
	t.Parallel()

	l := newDelayLine(4)
	l.write(5)
	l.reset()

	if got := l.read(0); got != 0 {
		t.Errorf("read(0) after reset = %v, want 0", got)
	}
}
