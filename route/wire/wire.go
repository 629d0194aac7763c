// Package wire implements the binary control payload shared between
// the routing engine and the accelerator-side delay/mix module.
//
// Layout (little-endian):
//
//	tag        uint32   message type, TagRouting
//	numInputs  uint32
//	numOutputs uint32
//	delay      float32 × numInputs×numOutputs   in samples, input-major
//	gain       float32 × numInputs×numOutputs   linear, input-major
//
// Delay values travel in sample counts, not milliseconds. The ordering
// is a wire contract: encoder and decoder must change together.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// TagRouting identifies a delay/gain routing message.
const TagRouting uint32 = 0x52544d31 // "RTM1"

// HeaderSize is the fixed header length in bytes: tag(4) + inputs(4) + outputs(4).
const HeaderSize = 12

// Errors reported by the codec.
var (
	ErrBadTag       = errors.New("wire: unknown message tag")
	ErrTruncated    = errors.New("wire: truncated message")
	ErrBadTopology  = errors.New("wire: invalid channel counts")
	ErrShortPayload = errors.New("wire: payload shorter than header declares")
)

// RoutingMessage is the decoded form of a routing control payload.
type RoutingMessage struct {
	Inputs  int
	Outputs int

	// DelaySamples and Gains are input-major flattened matrices of
	// length Inputs*Outputs.
	DelaySamples []float32
	Gains        []float32
}

// Size returns the encoded length in bytes of a routing message for
// the given topology.
func Size(inputs, outputs int) int {
	return HeaderSize + 8*inputs*outputs
}

// AppendRouting appends the encoded message to dst and returns the
// extended slice. delaySamples and gains must both have length
// inputs*outputs.
func AppendRouting(dst []byte, inputs, outputs int, delaySamples, gains []float32) ([]byte, error) {
	if inputs < 1 || outputs < 1 {
		return dst, fmt.Errorf("%w: %dx%d", ErrBadTopology, inputs, outputs)
	}

	n := inputs * outputs
	if len(delaySamples) != n || len(gains) != n {
		return dst, fmt.Errorf("%w: want %d entries, got %d delays and %d gains",
			ErrBadTopology, n, len(delaySamples), len(gains))
	}

	dst = binary.LittleEndian.AppendUint32(dst, TagRouting)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(inputs))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(outputs))

	for _, v := range delaySamples {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}

	for _, v := range gains {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}

	return dst, nil
}

// DecodeRouting parses an encoded routing message. The returned
// message aliases no part of data.
func DecodeRouting(data []byte) (RoutingMessage, error) {
	var msg RoutingMessage

	if len(data) < HeaderSize {
		return msg, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	tag := binary.LittleEndian.Uint32(data[0:4])
	if tag != TagRouting {
		return msg, fmt.Errorf("%w: 0x%08x", ErrBadTag, tag)
	}

	inputs := int(binary.LittleEndian.Uint32(data[4:8]))
	outputs := int(binary.LittleEndian.Uint32(data[8:12]))

	if inputs < 1 || outputs < 1 || inputs > math.MaxUint16 || outputs > math.MaxUint16 {
		return msg, fmt.Errorf("%w: %dx%d", ErrBadTopology, inputs, outputs)
	}

	n := inputs * outputs
	if len(data) < Size(inputs, outputs) {
		return msg, fmt.Errorf("%w: %d bytes for %dx%d", ErrShortPayload, len(data), inputs, outputs)
	}

	msg.Inputs = inputs
	msg.Outputs = outputs
	msg.DelaySamples = make([]float32, n)
	msg.Gains = make([]float32, n)

	off := HeaderSize
	for i := range msg.DelaySamples {
		msg.DelaySamples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4
	}

	for i := range msg.Gains {
		msg.Gains[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4
	}

	return msg, nil
}
