package socket

import (
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
)

// WebSocketSocket mirrors a UDP socket's Send/Poll contract over a single
// gorilla/websocket connection, adapted from socket/wssocket.go's
// wsSocket. The original tracked a map of many concurrent connections
// and pushed onto a shared channel from inside the HTTP handler; this
// version keeps exactly one active connection (the "mirror" use case
// cmd/coap-server exercises it for only ever has one peer) and drains it
// through Poll instead of pushing.
type WebSocketSocket struct {
	uri       string
	upgrader  websocket.Upgrader
	localAddr net.Addr

	conn *websocket.Conn
	recv chan *Datagram
	errs chan error
}

// NewWebSocketSocket returns a socket that will upgrade each request to
// uri into a WebSocket connection.
func NewWebSocketSocket(uri string) *WebSocketSocket {
	return &WebSocketSocket{
		uri: uri,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		recv: make(chan *Datagram, inbox),
		errs: make(chan error, 1),
	}
}

// Connect starts an HTTP server on addr (e.g. ":8081") and registers the
// upgrade handler at s.uri. It returns once the listener is up. Each
// client to hit s.uri becomes the active connection Send writes to,
// replacing any earlier one; an earlier connection's messages still reach
// Poll until it closes.
func (s *WebSocketSocket) Connect(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.uri, s.handleUpgrade)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.localAddr = ln.Addr()
	go func() {
		if err := http.Serve(ln, mux); err != nil {
			select {
			case s.errs <- err:
			default:
			}
		}
	}()
	return nil
}

func (s *WebSocketSocket) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.conn = conn

	go func() {
		defer conn.Close()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				select {
				case s.errs <- err:
				default:
				}
				return
			}
			if msgType != websocket.BinaryMessage {
				continue
			}
			cp := make([]byte, len(data))
			copy(cp, data)
			s.recv <- &Datagram{Addr: conn.RemoteAddr(), Data: cp}
		}
	}()
}

func (s *WebSocketSocket) Send(data []byte, dest net.Addr) (int, error) {
	if s.conn == nil {
		return 0, errors.New("socket: no active WebSocket connection")
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (s *WebSocketSocket) Poll() (*Datagram, error) {
	select {
	case d := <-s.recv:
		return d, nil
	case err := <-s.errs:
		return nil, err
	default:
		return nil, nil
	}
}

func (s *WebSocketSocket) LocalAddr() net.Addr {
	return s.localAddr
}

func (s *WebSocketSocket) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
