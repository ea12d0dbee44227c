package coap

import (
	"github.com/lobaro/coap-core/message"
	"github.com/lobaro/coap-core/wire"
)

// Response wraps the Message a server sends back for a Request, or that
// a client receives after sending one. Grounded on coap/response.go's
// minimal http.Response-flavored Response, replacing its io.ReadCloser
// Body with the Payload bytes a Message already carries.
type Response struct {
	Message message.Message
	Request *Request
}

// StatusCode exposes the response code (e.g. 2.05) for callers that don't
// want to reach into Message directly.
func (r *Response) StatusCode() wire.Code { return r.Message.Code }

// Payload exposes the response body.
func (r *Response) Payload() []byte { return r.Message.Payload }

// ForRequest starts building the reply Message to req: type and id are
// derived per RFC 7252 §4.2/§4.3, the token is copied verbatim, and Code
// defaults to 2.05 Content (spec.md §3/§4.3; the original source's
// RespCore::for_request sets code: code::CONTENT). The caller is still
// free to override Code/Options/Payload before sending.
func ForRequest(req message.Message) message.Message {
	typ := req.Type
	id := wire.NextID()
	if req.Type == wire.Confirmable {
		typ = wire.Acknowledgement
		id = req.Id
	}

	return message.Message{
		Version: wire.Version1,
		Type:    typ,
		Code:    wire.Content,
		Id:      id,
		Token:   req.Token,
	}
}

// NewEmptyAck builds the piggybacked-ack-less empty ACK a server sends to
// accept a CON it will answer later, and NewReset builds the RST a server
// sends for a CON it cannot or will not process (spec.md §3 "Empty
// message" / the ping-reply scenario).
func NewEmptyAck(req message.Message) message.Message {
	return message.NewEmpty(req.Id, wire.Acknowledgement)
}

func NewReset(req message.Message) message.Message {
	return message.NewEmpty(req.Id, wire.Reset)
}
