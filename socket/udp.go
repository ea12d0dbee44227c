package socket

import (
	"net"
	"time"
)

// pollDeadline is how far ahead Poll sets the read deadline. A deadline
// already in the past would make ReadFromUDP fail before reading at all,
// so Poll uses a very short future one instead.
const pollDeadline = 100 * time.Microsecond

// UDPSocket is the default IPv4 transport: a plain net.UDPConn made
// effectively non-blocking by giving every read a deadline pollDeadline
// ahead, so an idle ReadFromUDP gives up almost at once instead of
// parking the goroutine.
// Grounded on GiterLab-go-coap/server.go's Receive, which sets
// l.SetReadDeadline(time.Now().Add(ResponseTimeout)) before reading.
type UDPSocket struct {
	conn *net.UDPConn
	buf  []byte
}

// NewUDPSocket allocates a socket with a 1500-byte read buffer (room for
// one unfragmented Ethernet-MTU datagram).
func NewUDPSocket() *UDPSocket {
	return &UDPSocket{buf: make([]byte, 1500)}
}

// Connect binds addr (e.g. "0.0.0.0:5683" or ":0" for an ephemeral client
// port).
func (s *UDPSocket) Connect(addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

func (s *UDPSocket) Send(data []byte, dest net.Addr) (int, error) {
	udpDest, ok := dest.(*net.UDPAddr)
	if !ok {
		resolved, err := net.ResolveUDPAddr("udp4", dest.String())
		if err != nil {
			return 0, err
		}
		udpDest = resolved
	}
	return s.conn.WriteToUDP(data, udpDest)
}

// Poll gives ReadFromUDP a deadline pollDeadline ahead: it returns a
// datagram that had already arrived at once, and otherwise waits at most
// pollDeadline for a timeout error that Poll turns into "nothing
// available" rather than a failure.
func (s *UDPSocket) Poll() (*Datagram, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(pollDeadline)); err != nil {
		return nil, err
	}
	n, addr, err := s.conn.ReadFromUDP(s.buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, nil
		}
		return nil, err
	}
	data := make([]byte, n)
	copy(data, s.buf[:n])
	return &Datagram{Addr: addr, Data: data}, nil
}

func (s *UDPSocket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *UDPSocket) Close() error {
	return s.conn.Close()
}
