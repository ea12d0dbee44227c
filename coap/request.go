package coap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lobaro/coap-core/message"
	"github.com/lobaro/coap-core/wire"
)

// Request is the authoring-side counterpart to message.Message: it holds
// a method, destination, and option set in the shape callers want to
// build, and renders to the wire form with ToMessage. Modeled on
// coap/request.go's http.Request-flavored Request, stripped of the
// Body/Cancel/context machinery a non-blocking, single-threaded core has
// no use for.
type Request struct {
	Method      Method
	Confirmable bool
	Host        string
	Port        uint16
	Path        string
	Id          wire.Id
	Token       wire.Token
	Options     message.OptionSet
	Payload     []byte
}

// NewRequest builds a Request for method against host:port/path. A fresh
// id and token are drawn so the eventual Response can be correlated back
// to this Request by message id (spec.md §4.6/§8.6, "poll_resp(r.id)
// returns r") and the token is still copied into the reply verbatim
// (spec.md §3).
func NewRequest(method Method, host string, port uint16, path string, tg TokenGenerator) (*Request, error) {
	if !method.valid() {
		return nil, fmt.Errorf("coap: invalid method %q", method)
	}
	if host == "" {
		return nil, fmt.Errorf("coap: empty host")
	}
	host = removeEmptyPort(host)
	if port == 0 {
		port = DefaultPort
	}

	req := &Request{
		Method:      method,
		Confirmable: true,
		Host:        host,
		Port:        port,
		Path:        strings.TrimPrefix(path, "/"),
		Id:          wire.NextID(),
		Token:       tg.NextToken(),
	}
	return req, nil
}

// SetContentFormat adds a Content-Format option, mirroring
// coap/client.go's Post setting coapmsg.ContentFormat.
func (r *Request) SetContentFormat(format uint16) {
	r.Options.Insert(message.OptContentFormat, []byte{byte(format >> 8), byte(format)})
}

// AddQuery appends a Uri-Query option (RFC 7252 §5.10.1).
func (r *Request) AddQuery(q string) {
	r.Options.Insert(message.OptUriQuery, []byte(q))
}

// ToMessage renders the Request to its wire form: this Request's id (so
// repeated calls stay correlatable to the same PollResp poll) and token,
// the method's code, and Uri-Host/Uri-Port/Uri-Path options ahead of
// anything the caller inserted directly, all delta-normalized together.
func (r *Request) ToMessage() (message.Message, error) {
	opts := message.OptionSet{}
	opts.Insert(message.OptUriHost, []byte(r.Host))
	if r.Port != DefaultPort {
		opts.Insert(message.OptUriPort, []byte{byte(r.Port >> 8), byte(r.Port)})
	}
	for _, seg := range strings.Split(r.Path, "/") {
		if seg == "" {
			continue
		}
		opts.Insert(message.OptUriPath, []byte(seg))
	}
	opts.InsertAll(r.Options)

	normalized, err := opts.Normalize()
	if err != nil {
		return message.Message{}, err
	}

	typ := wire.NonConfirmable
	if r.Confirmable {
		typ = wire.Confirmable
	}

	return message.Message{
		Version: wire.Version1,
		Type:    typ,
		Code:    r.Method.code(),
		Id:      r.Id,
		Token:   r.Token,
		Options: normalized,
		Payload: r.Payload,
	}, nil
}

// URIString renders the Request's destination as a coap:// URI, for
// logging.
func (r *Request) URIString() string {
	return "coap://" + r.Host + ":" + strconv.Itoa(int(r.Port)) + "/" + r.Path
}
