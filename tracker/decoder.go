// Package tracker receives and decodes motion-tracking updates that
// drive the routing matrix. Trackers broadcast small text datagrams,
// one sample per line:
//
//	<id>,<x>,<y>,<z>
//
// where id names the trackable and x, y, z are meters as decimal
// numbers. The receiver is an independent, self-contained path: it
// shares no state with the routing engine beyond whatever the handler
// callback chooses to update.
package tracker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors reported by the decoder.
var (
	ErrEmptyPacket = errors.New("tracker: empty packet")
	ErrBadSample   = errors.New("tracker: malformed sample")
	ErrNoIdentity  = errors.New("tracker: no trackable identity in id field")
)

// Sample is one decoded trackable position.
type Sample struct {
	// ID is the numeric trackable identity extracted from the id
	// field.
	ID int

	// Label is the raw id field as transmitted.
	Label string

	X, Y, Z float64
}

// ParseSample decodes a single "id,x,y,z" line.
func ParseSample(line string) (Sample, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Sample{}, ErrEmptyPacket
	}

	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return Sample{}, fmt.Errorf("%w: %d fields in %q", ErrBadSample, len(fields), line)
	}

	label := strings.TrimSpace(fields[0])

	id, err := trackableID(label)
	if err != nil {
		return Sample{}, err
	}

	s := Sample{ID: id, Label: label}

	coords := []*float64{&s.X, &s.Y, &s.Z}
	for i, dst := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return Sample{}, fmt.Errorf("%w: coordinate %d in %q", ErrBadSample, i, line)
		}
		*dst = v
	}

	return s, nil
}

// ParsePacket decodes a datagram holding one or more newline-separated
// samples. Blank lines are skipped; the first malformed line aborts
// with an error.
func ParsePacket(data []byte) ([]Sample, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPacket
	}

	var out []Sample
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		s, err := ParseSample(line)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	if len(out) == 0 {
		return nil, ErrEmptyPacket
	}
	return out, nil
}

// trackableID extracts the numeric identity from a free-form id field.
// The leading characters are parsed as an integer when possible;
// otherwise the first embedded digit run is used ("spk12-left" yields
// 12). The fallback is implementation-defined, not part of the
// protocol: ids with multiple disjoint digit runs resolve to the first
// run.
func trackableID(label string) (int, error) {
	if label == "" {
		return 0, ErrNoIdentity
	}

	end := 0
	for end < len(label) && label[end] >= '0' && label[end] <= '9' {
		end++
	}

	if end == 0 {
		start := -1
		for i := 0; i < len(label); i++ {
			if label[i] >= '0' && label[i] <= '9' {
				start = i
				break
			}
		}

		if start < 0 {
			return 0, fmt.Errorf("%w: %q", ErrNoIdentity, label)
		}

		end = start
		for end < len(label) && label[end] >= '0' && label[end] <= '9' {
			end++
		}

		return parseDigits(label[start:end], label)
	}

	return parseDigits(label[:end], label)
}

func parseDigits(digits, label string) (int, error) {
	id, err := strconv.Atoi(digits)
	if err != nil {
		// Digit runs long enough to overflow are out of protocol.
		return 0, fmt.Errorf("%w: %q", ErrNoIdentity, label)
	}
	return id, nil
}
