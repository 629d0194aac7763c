package sim

// delayLine is a growable circular delay line. read(d) returns the
// sample written d writes ago, with d == 0 being the most recent
// write; capacity grows on demand to d+1.
type delayLine struct {
	buf []float64
	pos int // next write index
}

func newDelayLine(size int) *delayLine {
	if size < 1 {
		size = 1
	}
	return &delayLine{buf: make([]float64, size)}
}

func (l *delayLine) write(sample float64) {
	l.buf[l.pos] = sample
	l.pos++
	if l.pos >= len(l.buf) {
		l.pos = 0
	}
}

func (l *delayLine) read(delay int) float64 {
	size := len(l.buf)
	if delay < 0 || delay >= size {
		return 0
	}
	idx := l.pos - 1 - delay
	if idx < 0 {
		idx += size
	}
	return l.buf[idx]
}

// ensure grows the line to hold at least size samples of history,
// preserving existing contents and read offsets.
func (l *delayLine) ensure(size int) {
	old := len(l.buf)
	if size <= old {
		return
	}

	grown := old * 2
	for grown < size {
		grown *= 2
	}

	// Linearize oldest-to-newest into the new buffer so read offsets
	// stay valid.
	next := make([]float64, grown)
	for i := 0; i < old; i++ {
		next[i] = l.buf[(l.pos+i)%old]
	}

	l.buf = next
	l.pos = old % grown
}

func (l *delayLine) reset() {
	for i := range l.buf {
		l.buf[i] = 0
	}
	l.pos = 0
}
