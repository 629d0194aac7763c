package tracker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

const readTimeout = 250 * time.Millisecond

// Handler consumes decoded samples. Called on the receiver goroutine;
// implementations that feed a realtime engine should only store values
// and let the audio path pick them up.
type Handler func(Sample)

// Receiver listens for tracking datagrams on a UDP socket.
type Receiver struct {
	conn net.PacketConn
}

// Listen binds a UDP socket on addr (e.g. ":7401").
func Listen(addr string) (*Receiver, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("tracker: listen %s: %w", addr, err)
	}
	return &Receiver{conn: conn}, nil
}

// Addr returns the bound local address.
func (r *Receiver) Addr() net.Addr {
	return r.conn.LocalAddr()
}

// Run reads datagrams until ctx is canceled, invoking handler for
// every decoded sample. Malformed packets are dropped; the motion
// stream is lossy by nature and a bad datagram must not stop the feed.
func (r *Receiver) Run(ctx context.Context, handler Handler) error {
	buf := make([]byte, 2048)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Short read deadline so cancellation is observed promptly.
		if err := r.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return fmt.Errorf("tracker: set deadline: %w", err)
		}

		n, _, err := r.conn.ReadFrom(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("tracker: read: %w", err)
		}

		samples, err := ParsePacket(buf[:n])
		if err != nil {
			continue
		}

		for _, s := range samples {
			handler(s)
		}
	}
}

// Close releases the socket. A blocked Run returns shortly after.
func (r *Receiver) Close() error {
	return r.conn.Close()
}
