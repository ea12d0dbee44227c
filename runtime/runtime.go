// Package runtime wires the message codec, event bus and socket
// capability into the cooperative, single-threaded core spec.md §4.6
// describes, grounded on the original source's Core<Sock, Cfg> in
// kwap/src/core/mod.rs.
package runtime

import (
	"net"

	"github.com/lobaro/coap-core/coap"
	"github.com/lobaro/coap-core/event"
	"github.com/lobaro/coap-core/message"
	"github.com/lobaro/coap-core/socket"
	"github.com/lobaro/coap-core/wire"
)

// defaultStorageCap is the bounded configuration's capacity for both the
// response and empty-message buffers, matching the original source's
// ArrayVec<_, 64> fields.
const defaultStorageCap = 64

// Runtime is the event-driven core: one Socket, one handler Bus, and the
// bounded response/empty-message storage the default handler chain feeds.
// It is not safe for concurrent use - spec.md §5 describes a
// single-threaded, cooperative caller that drives Poll itself.
type Runtime struct {
	sock         socket.Socket
	bus          *event.Bus
	resps        *storage[message.Message]
	pings        *storage[message.Message]
	pendingPings map[wire.Id]struct{}
}

// New returns a heap-backed Runtime: resps/pings storage grows without
// bound, matching the original source's Alloc configuration.
func New(sock socket.Socket) *Runtime {
	return newRuntime(sock, 0)
}

// NewBounded returns a Runtime whose resps/pings storage is capacity-
// limited to defaultStorageCap slots each, with the scan/take/compact/
// panic policy storage.go implements - the original source's
// array-backed configuration.
func NewBounded(sock socket.Socket) *Runtime {
	return newRuntime(sock, defaultStorageCap)
}

func newRuntime(sock socket.Socket, cap int) *Runtime {
	r := &Runtime{
		sock:         sock,
		bus:          event.NewBus(),
		resps:        newStorage[message.Message](cap),
		pings:        newStorage[message.Message](cap),
		pendingPings: make(map[wire.Id]struct{}),
	}
	r.bootstrap()
	return r
}

// bootstrap registers the default handler chain (spec.md §4.5): parse,
// log parse failures, classify responses, then file responses and empty
// messages into their respective bounded buffers. Additional handlers
// (e.g. a server's request dispatcher) are added afterward via Listen,
// so they see already-classified events.
//
// The empty-message branch only takes the event for ids this Runtime is
// itself awaiting a ping reply for (tracked by Ping, below). An inbound
// ping from a peer - one this Runtime never sent - is still filed into
// pings for PollPing, but is left untaken so a handler registered later
// via Listen (e.g. a server's own ping-reply dispatcher) still gets to
// see and answer it; spec.md §4.5 stops dispatch at the first Take, so
// swallowing every empty message here regardless of origin would make
// that later handler unreachable.
func (r *Runtime) bootstrap() {
	r.bus.Listen(event.ParseHandler())
	r.bus.Listen(event.LogHandler(nil))
	r.bus.Listen(event.ClassifyResponseHandler())
	r.bus.Listen(func(e *event.Event) {
		switch {
		case e.Kind == event.RecvResp:
			r.resps.Store(e.Msg)
			e.Take()
		case e.Kind == event.RecvMsg && e.Msg.Code == wire.Empty:
			r.pings.Store(e.Msg)
			if _, pending := r.pendingPings[e.Msg.Id]; pending {
				delete(r.pendingPings, e.Msg.Id)
				e.Take()
			}
		}
	})
}

// Listen registers an additional handler after the default chain, e.g. a
// server's request dispatcher.
func (r *Runtime) Listen(h event.Handler) {
	r.bus.Listen(h)
}

// Fire classifies and dispatches one already-received datagram through
// the handler chain, without touching the socket. Exposed so tests and
// alternate transports can feed the Runtime bypassing Poll/the Socket.
func (r *Runtime) Fire(addr net.Addr, dgram []byte) {
	r.bus.Fire(&event.Event{Kind: event.RecvDgram, Addr: addr, Dgram: dgram})
}

// Poll drains at most one datagram from the socket and, if one arrived,
// dispatches it through the handler chain. Callers drive the runtime by
// calling Poll repeatedly (spec.md §5's cooperative event loop).
func (r *Runtime) Poll() error {
	d, err := r.sock.Poll()
	if err != nil {
		return err
	}
	if d == nil {
		return nil
	}
	r.Fire(d.Addr, d.Data)
	return nil
}

// PollResp takes the first not-yet-taken response whose message id
// matches id, or ok=false if none has arrived yet (spec.md §4.6: "scan
// ... whose message id == id"; §8.6: "poll_resp(r.id) returns r").
func (r *Runtime) PollResp(id wire.Id) (message.Message, bool) {
	return r.resps.Take(func(m message.Message) bool {
		return m.Id == id
	})
}

// PollPing takes the first not-yet-taken empty message whose id matches
// id (the reply to a Ping, or an inbound ping from a peer), or ok=false
// if none has arrived yet.
func (r *Runtime) PollPing(id wire.Id) (message.Message, bool) {
	return r.pings.Take(func(m message.Message) bool {
		return m.Id == id
	})
}

// SendRequest renders req and writes it to dest.
func (r *Runtime) SendRequest(req *coap.Request, dest net.Addr) error {
	m, err := req.ToMessage()
	if err != nil {
		return coap.WrapSendError("render request", err)
	}
	return r.Send(m, dest)
}

// Ping sends an empty Confirmable message (RFC 7252 §4.3) to dest and
// returns its id, so the caller can later PollPing for the RST reply.
// The id is tracked as a pending local ping so bootstrap's default
// handler knows to take the reply itself once it arrives.
func (r *Runtime) Ping(dest net.Addr) (wire.Id, error) {
	m := message.NewEmpty(wire.NextID(), wire.Confirmable)
	r.pendingPings[m.Id] = struct{}{}
	if err := r.Send(m, dest); err != nil {
		delete(r.pendingPings, m.Id)
		return 0, err
	}
	return m.Id, nil
}

// Send serializes m and writes it to dest through the Socket.
func (r *Runtime) Send(m message.Message, dest net.Addr) error {
	b, err := m.Serialize()
	if err != nil {
		return coap.WrapSendError("serialize message", err)
	}
	if _, err := r.sock.Send(b, dest); err != nil {
		return coap.WrapSendError("send datagram", err)
	}
	return nil
}
