package event

import (
	"net"

	"github.com/lobaro/coap-core/message"
)

// Kind distinguishes the stages a datagram passes through as it is
// classified into a parsed Message, mirroring the event variants the
// original source's Core.poll/fire loop matches on.
type Kind int

const (
	// RecvDgram carries a raw datagram straight off a socket.Socket,
	// not yet parsed.
	RecvDgram Kind = iota
	// RecvMsg carries a datagram that parsed successfully.
	RecvMsg
	// MsgParseError carries a datagram that failed to parse, plus the
	// error describing why.
	MsgParseError
	// RecvResp carries a successfully parsed Message already
	// classified as a response (spec.md §4.6's "store_resp" path).
	RecvResp
)

func (k Kind) String() string {
	switch k {
	case RecvDgram:
		return "RecvDgram"
	case RecvMsg:
		return "RecvMsg"
	case MsgParseError:
		return "MsgParseError"
	case RecvResp:
		return "RecvResp"
	default:
		return "Kind(?)"
	}
}

// Event is a single occurrence flowing through the Bus. Handlers run in
// registration order and may mutate or take ownership of an Event's
// payload in place - setting Taken stops later handlers from seeing a
// payload that's already been consumed (spec.md §4.5 "events can be
// mutated or taken by handlers").
type Event struct {
	Kind  Kind
	Addr  net.Addr
	Dgram []byte
	Msg   message.Message
	Err   error
	Taken bool
}

// Take marks the Event as consumed: Fire stops dispatching it to any
// handler registered after the one that called Take.
func (e *Event) Take() {
	e.Taken = true
}
