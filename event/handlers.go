package event

import (
	"github.com/lobaro/coap-core/message"
	"github.com/sirupsen/logrus"
)

// ParseHandler turns a RecvDgram event into a RecvMsg or MsgParseError
// event in place, by parsing its Dgram field. It is the first handler
// bootstrap registers (spec.md §4.5 default chain, step 1).
func ParseHandler() Handler {
	return func(e *Event) {
		if e.Kind != RecvDgram {
			return
		}
		m, err := message.Parse(e.Dgram)
		if err != nil {
			e.Kind = MsgParseError
			e.Err = err
			return
		}
		e.Kind = RecvMsg
		e.Msg = m
	}
}

// LogHandler logs MsgParseError events via logrus, grounded on
// coap/transport_uart.go's logrus.WithField(...).Error("Failed to parse
// CoAP message") call. It never takes the event, so later handlers still
// see it.
func LogHandler(log *logrus.Logger) Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return func(e *Event) {
		if e.Kind != MsgParseError {
			return
		}
		log.WithField("addr", e.Addr).Error("Failed to parse CoAP message: " + e.Err.Error())
	}
}

// ClassifyResponseHandler promotes a RecvMsg event carrying a response
// code to RecvResp, so a later storage handler can file it separately
// from requests and empty messages (spec.md §4.6).
func ClassifyResponseHandler() Handler {
	return func(e *Event) {
		if e.Kind != RecvMsg {
			return
		}
		if e.Msg.Code.IsResponse() {
			e.Kind = RecvResp
		}
	}
}
