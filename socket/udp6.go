package socket

import (
	"net"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/ipv6"
)

// multicastGroup is the link-local all-nodes multicast address the
// original socket/udp6socket.go joined.
const multicastGroup = "ff02::1"

// inbox capacity bounds how many unread datagrams MulticastUDP6Socket
// buffers before Poll has drained them; adapted from udp6socket.go's
// onRx channel, which had no bound at all.
const inbox = 64

// MulticastUDP6Socket joins an IPv6 multicast group on one interface and
// exposes arrivals through the poll-based Socket contract. It's adapted
// from socket/udp6socket.go's NewUdp6Socket/AsyncListenAndServe, which
// pushed datagrams onto a caller-supplied channel from a background
// goroutine; here that goroutine still does the blocking
// ipv6.PacketConn.ReadFrom, but feeds an internal buffered channel that
// Poll drains non-blockingly instead of handing the channel to the
// caller directly.
type MulticastUDP6Socket struct {
	ifaceIndex int
	pktConn    *ipv6.PacketConn
	localAddr  net.Addr
	recv       chan *Datagram
	errs       chan error
}

// NewMulticastUDP6Socket returns a socket bound to the given network
// interface index; call Connect to open it.
func NewMulticastUDP6Socket(ifaceIndex int) *MulticastUDP6Socket {
	return &MulticastUDP6Socket{ifaceIndex: ifaceIndex, recv: make(chan *Datagram, inbox), errs: make(chan error, 1)}
}

// Connect binds "[::]:<port>" (addr names just the port, as the original
// NewUdp6Socket did) and joins multicastGroup on the configured
// interface.
func (s *MulticastUDP6Socket) Connect(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		port = addr
	}
	iface, err := net.InterfaceByIndex(s.ifaceIndex)
	if err != nil {
		return err
	}
	conn, err := net.ListenPacket("udp6", "[::]:"+port)
	if err != nil {
		return err
	}
	s.localAddr = conn.LocalAddr()

	pc := ipv6.NewPacketConn(conn)
	if err := pc.JoinGroup(iface, &net.UDPAddr{IP: net.ParseIP(multicastGroup)}); err != nil {
		return err
	}
	s.pktConn = pc

	go s.pump()
	return nil
}

func (s *MulticastUDP6Socket) pump() {
	buf := make([]byte, 1500)
	for {
		n, _, addr, err := s.pktConn.ReadFrom(buf)
		if err != nil {
			select {
			case s.errs <- err:
			default:
				logrus.WithField("iface", s.ifaceIndex).Error("multicast udp6 read failed: " + err.Error())
			}
			return
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		s.recv <- &Datagram{Addr: addr, Data: data}
	}
}

func (s *MulticastUDP6Socket) Send(data []byte, dest net.Addr) (int, error) {
	return s.pktConn.WriteTo(data, nil, dest)
}

// Poll drains one buffered datagram if one has already arrived,
// returning (nil, nil) otherwise - never blocking, even though the
// background pump's read is itself blocking.
func (s *MulticastUDP6Socket) Poll() (*Datagram, error) {
	select {
	case d := <-s.recv:
		return d, nil
	case err := <-s.errs:
		return nil, err
	default:
		return nil, nil
	}
}

func (s *MulticastUDP6Socket) LocalAddr() net.Addr {
	return s.localAddr
}

func (s *MulticastUDP6Socket) Close() error {
	return s.pktConn.Close()
}
