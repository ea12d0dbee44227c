package coap

import "github.com/lobaro/coap-core/wire"

// Method identifies a CoAP request method (spec.md §3 "Request"). The
// distilled spec only requires GET, but the original source's Req::Method
// and the example server's method dispatch assume all four RFC 7252
// methods exist, so Request supports them uniformly.
type Method string

const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	DELETE Method = "DELETE"
)

var methodCodes = map[Method]wire.Code{
	GET:    wire.GET,
	POST:   wire.POST,
	PUT:    wire.PUT,
	DELETE: wire.DELETE,
}

func (m Method) valid() bool {
	_, ok := methodCodes[m]
	return ok
}

func (m Method) code() wire.Code {
	return methodCodes[m]
}
