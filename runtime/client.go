package runtime

import (
	"context"
	"net"
	"time"

	"github.com/lobaro/coap-core/coap"
)

// defaultClientTimeout mirrors coap/client.go's DefaultClient.Timeout
// intent: a request that never gets a response shouldn't busy-poll
// forever.
const defaultClientTimeout = 5 * time.Second

// pollInterval is how often Client busy-polls the Runtime while waiting
// for a response.
const pollInterval = 2 * time.Millisecond

// Client is a small blocking convenience wrapper around a Runtime,
// adapted from coap/client.go's Client/Do/Get/Post. It lives outside the
// single-threaded core: Do busy-polls Runtime.Poll/PollResp up to a
// deadline instead of relying on the caller's own event loop. The
// goroutine-based cancellation timer and MaxParallelRequests atomic
// limiter from the original are dropped - they protected a pooled
// RoundTripper's connections, and this Client talks to one Runtime over
// one Socket with no pool to protect.
type Client struct {
	Runtime *Runtime
	Dest    net.Addr
	Tokens  coap.TokenGenerator
	Timeout time.Duration
}

// NewClient returns a Client sending to dest through rt, with a random
// token generator and the default timeout.
func NewClient(rt *Runtime, dest net.Addr) *Client {
	return &Client{
		Runtime: rt,
		Dest:    dest,
		Tokens:  coap.NewRandomTokenGenerator(),
		Timeout: defaultClientTimeout,
	}
}

// Get issues a GET for path.
func (c *Client) Get(host string, port uint16, path string) (*coap.Response, error) {
	req, err := coap.NewRequest(coap.GET, host, port, path, c.Tokens)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Post issues a POST with body and contentFormat, mirroring
// coap/client.go's Post setting the Content-Format option.
func (c *Client) Post(host string, port uint16, path string, contentFormat uint16, body []byte) (*coap.Response, error) {
	req, err := coap.NewRequest(coap.POST, host, port, path, c.Tokens)
	if err != nil {
		return nil, err
	}
	req.SetContentFormat(contentFormat)
	req.Payload = body
	return c.Do(req)
}

// Do sends req and blocks, busy-polling the Runtime, until a matching
// response arrives or ctx/Timeout expires.
func (c *Client) Do(req *coap.Request) (*coap.Response, error) {
	return c.DoContext(context.Background(), req)
}

// DoContext is Do with an explicit context for cancellation.
func (c *Client) DoContext(ctx context.Context, req *coap.Request) (*coap.Response, error) {
	if err := c.Runtime.SendRequest(req, c.Dest); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.Timeout)
	for {
		if err := c.Runtime.Poll(); err != nil {
			return nil, err
		}
		if m, ok := c.Runtime.PollResp(req.Id); ok {
			return &coap.Response{Message: m, Request: req}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if c.Timeout > 0 && time.Now().After(deadline) {
			return nil, coap.WrapSendError("await response", context.DeadlineExceeded)
		}
		time.Sleep(pollInterval)
	}
}
