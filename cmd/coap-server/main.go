// Command coap-server is the example collaborator spec.md §6 describes:
// a UDP CoAP server answering GET /hello and CoAP pings, mirrored onto a
// WebSocket listener so a browser can exercise the same core. Grounded on
// the original source's kwap/examples/server.rs and the teacher's
// socket/example intent of running a UDP and a WS socket side by side.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/lobaro/coap-core/coap"
	"github.com/lobaro/coap-core/event"
	"github.com/lobaro/coap-core/message"
	"github.com/lobaro/coap-core/runtime"
	"github.com/lobaro/coap-core/socket"
	"github.com/lobaro/coap-core/wire"
	"github.com/sirupsen/logrus"
)

const (
	udpAddr = "0.0.0.0:5683"
	wsAddr  = ":8081"
	wsURI   = "/coap"
)

func main() {
	log := logrus.StandardLogger()

	udpSock := socket.NewUDPSocket()
	if err := udpSock.Connect(udpAddr); err != nil {
		log.WithError(err).Fatal("failed to bind UDP socket")
	}
	udpRuntime := runtime.NewBounded(udpSock)
	udpRuntime.Listen(helloHandler(udpRuntime))
	log.WithField("addr", udpAddr).Info("coap-server: listening for CoAP/UDP")

	wsSock := socket.NewWebSocketSocket(wsURI)
	if err := wsSock.Connect(wsAddr); err != nil {
		log.WithError(err).Fatal("failed to start WebSocket mirror")
	}
	wsRuntime := runtime.NewBounded(wsSock)
	wsRuntime.Listen(helloHandler(wsRuntime))
	log.WithFields(logrus.Fields{"addr": wsAddr, "uri": wsURI}).Info("coap-server: mirroring on WebSocket")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go runLoop(done, stop, udpRuntime, wsRuntime)
	<-done

	var result *multierror.Error
	if err := udpSock.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := wsSock.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		log.WithError(err).Error("coap-server: error(s) while shutting down")
		os.Exit(1)
	}
}

func runLoop(done chan<- struct{}, stop <-chan os.Signal, runtimes ...*runtime.Runtime) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		for _, rt := range runtimes {
			if err := rt.Poll(); err != nil {
				logrus.WithError(err).Warn("coap-server: poll failed")
			}
		}
		time.Sleep(time.Millisecond)
	}
}

// helloHandler implements the example server's exact dispatch (spec.md
// §6): GET /hello -> 2.05 Content "hello, world!"; a valid Empty CON
// (no options, no payload) -> RST sharing the id; anything else -> 4.04
// NotFound. Unparseable datagrams get no reply at all - the default
// handler chain turns them into MsgParseError events and logs them, and
// this handler ignores every event that is not a RecvMsg.
func helloHandler(rt *runtime.Runtime) event.Handler {
	return func(e *event.Event) {
		if e.Kind != event.RecvMsg {
			return
		}
		m := e.Msg

		if m.Code == wire.Empty && m.Type == wire.Confirmable && len(m.Options) == 0 && len(m.Payload) == 0 {
			rst := coap.NewReset(m)
			if err := rt.Send(rst, e.Addr); err != nil {
				logrus.WithError(err).Error("coap-server: failed to send reset")
			}
			e.Take()
			return
		}

		if !m.Code.IsRequest() {
			return
		}

		resp := coap.ForRequest(m)
		if m.Code == wire.GET && isHelloPath(m) {
			resp.Code = wire.Content
			resp.Payload = []byte("hello, world!")
		} else {
			resp.Code = wire.NotFound
		}
		if err := rt.Send(resp, e.Addr); err != nil {
			logrus.WithError(err).Error("coap-server: failed to send response")
		}
		e.Take()
	}
}

func isHelloPath(m message.Message) bool {
	paths := m.GetOptions(message.OptUriPath)
	return len(paths) == 1 && string(paths[0]) == "hello"
}
