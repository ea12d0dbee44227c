// Package socket adapts transport-layer datagram channels to the
// non-blocking Socket capability spec.md §4.4 requires: Connect, a Send
// that never blocks and reports WouldBlock instead, and a Poll that
// returns at most one already-arrived datagram per call. Grounded on
// socket/sockets.go's Socket interface, rebuilt around polling instead of
// a push channel so the runtime core can stay single-threaded.
package socket

import (
	"errors"
	"net"
)

// ErrWouldBlock is returned by Send when the underlying transport cannot
// accept more data right now, and is never returned by Poll - an empty
// Poll is signaled by a nil Datagram, not an error.
var ErrWouldBlock = errors.New("socket: would block")

// Datagram is one inbound packet, paired with the address it arrived
// from, grounded on socket/sockets.go's Datagram.
type Datagram struct {
	Addr net.Addr
	Data []byte
}

// Socket is the capability the runtime core depends on. Implementations
// must never block inside Send or Poll.
type Socket interface {
	// Connect prepares the socket to talk to addr (e.g. binding a local
	// UDP port, or waiting for one WebSocket client). It may block: it
	// runs once during setup, not on the event loop's hot path.
	Connect(addr string) error

	// Send writes data to dest. It returns ErrWouldBlock, wrapping or
	// equal to it, if the transport isn't ready to accept data right
	// now; callers retry later rather than blocking.
	Send(data []byte, dest net.Addr) (int, error)

	// Poll returns the next already-arrived datagram, or a nil Datagram
	// if none is available yet. It never blocks.
	Poll() (*Datagram, error)

	// LocalAddr reports the address this socket is bound to.
	LocalAddr() net.Addr

	Close() error
}
