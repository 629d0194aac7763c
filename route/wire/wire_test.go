package wire

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestSize(t *testing.T) {
	t.Parallel()

	if got := Size(1, 2); got != HeaderSize+16 {
		t.Errorf("Size(1,2) = %d, want %d", got, HeaderSize+16)
	}

	if got := Size(4, 4); got != HeaderSize+128 {
		t.Errorf("Size(4,4) = %d, want %d", got, HeaderSize+128)
	}
}

func TestAppendRoutingLayout(t *testing.T) {
	t.Parallel()

	delays := []float32{72, 144}
	gains := []float32{0.8, 0.5}

	data, err := AppendRouting(nil, 1, 2, delays, gains)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data) != Size(1, 2) {
		t.Fatalf("encoded length %d, want %d", len(data), Size(1, 2))
	}

	if tag := binary.LittleEndian.Uint32(data[0:4]); tag != TagRouting {
		t.Errorf("tag = 0x%08x, want 0x%08x", tag, TagRouting)
	}

	if in := binary.LittleEndian.Uint32(data[4:8]); in != 1 {
		t.Errorf("inputs = %d, want 1", in)
	}

	if out := binary.LittleEndian.Uint32(data[8:12]); out != 2 {
		t.Errorf("outputs = %d, want 2", out)
	}

	for i, want := range delays {
		off := HeaderSize + 4*i
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))

		if got != want {
			t.Errorf("delay[%d] = %v, want %v", i, got, want)
		}
	}

	for i, want := range gains {
		off := HeaderSize + 8 + 4*i
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))

		if got != want {
			t.Errorf("gain[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestAppendRoutingReusesDst(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 0, Size(2, 2))

	data, err := AppendRouting(buf, 2, 2, make([]float32, 4), make([]float32, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if &buf[:1][0] != &data[:1][0] {
		t.Error("expected encoder to reuse dst backing array")
	}
}

func TestAppendRoutingRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := AppendRouting(nil, 0, 2, nil, nil)
	if !errors.Is(err, ErrBadTopology) {
		t.Errorf("zero inputs: got %v, want ErrBadTopology", err)
	}

	_, err = AppendRouting(nil, 2, 2, make([]float32, 3), make([]float32, 4))
	if !errors.Is(err, ErrBadTopology) {
		t.Errorf("mis-sized delays: got %v, want ErrBadTopology", err)
	}
}

func TestDecodeRoutingRoundTrip(t *testing.T) {
	t.Parallel()

	delays := []float32{1, 2, 3, 4, 5, 6}
	gains := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}

	data, err := AppendRouting(nil, 2, 3, delays, gains)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	msg, err := DecodeRouting(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if msg.Inputs != 2 || msg.Outputs != 3 {
		t.Fatalf("topology %dx%d, want 2x3", msg.Inputs, msg.Outputs)
	}

	for i := range delays {
		if msg.DelaySamples[i] != delays[i] {
			t.Errorf("delay[%d] = %v, want %v", i, msg.DelaySamples[i], delays[i])
		}

		if msg.Gains[i] != gains[i] {
			t.Errorf("gain[%d] = %v, want %v", i, msg.Gains[i], gains[i])
		}
	}
}

func TestDecodeRoutingErrors(t *testing.T) {
	t.Parallel()

	t.Run("truncated header", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeRouting(make([]byte, HeaderSize-1))
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("got %v, want ErrTruncated", err)
		}
	})

	t.Run("bad tag", func(t *testing.T) {
		t.Parallel()

		data := make([]byte, HeaderSize)
		binary.LittleEndian.PutUint32(data, 0xdeadbeef)

		_, err := DecodeRouting(data)
		if !errors.Is(err, ErrBadTag) {
			t.Errorf("got %v, want ErrBadTag", err)
		}
	})

	t.Run("short payload", func(t *testing.T) {
		t.Parallel()

		data, err := AppendRouting(nil, 2, 2, make([]float32, 4), make([]float32, 4))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		_, err = DecodeRouting(data[:len(data)-4])
		if !errors.Is(err, ErrShortPayload) {
			t.Errorf("got %v, want ErrShortPayload", err)
		}
	})
}
