package main

import (
	"testing"
	"time"

	"github.com/lobaro/coap-core/runtime"
	"github.com/lobaro/coap-core/socket"
	"github.com/lobaro/coap-core/wire"
)

func newUDPPair(t *testing.T) (clientRt, serverRt *runtime.Runtime, clientSock, serverSock *socket.UDPSocket) {
	t.Helper()
	clientSock = socket.NewUDPSocket()
	if err := clientSock.Connect("127.0.0.1:0"); err != nil {
		t.Fatalf("client Connect: %v", err)
	}
	serverSock = socket.NewUDPSocket()
	if err := serverSock.Connect("127.0.0.1:0"); err != nil {
		t.Fatalf("server Connect: %v", err)
	}
	t.Cleanup(func() { clientSock.Close(); serverSock.Close() })
	return runtime.NewBounded(clientSock), runtime.NewBounded(serverSock), clientSock, serverSock
}

// A ping this server's Runtime never sent must still reach helloHandler
// and get an RST reply, not be swallowed by the default empty-message
// handler (spec.md §6, scenario A/F). Unlike runtime_test.go's
// TestPingRoundTrip, which hand-sends the RST itself, this drives the
// reply through the same handler chain main() wires up.
func TestHelloHandlerRepliesRSTToInboundPing(t *testing.T) {
	client, server, _, serverSock := newUDPPair(t)
	server.Listen(helloHandler(server))

	id, err := client.Ping(serverSock.LocalAddr())
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}

	// Drive both runtimes: the server must observe and answer the ping,
	// the client must observe the RST it triggers.
	deadline := time.Now().Add(2 * time.Second)
	var gotRST bool
	for time.Now().Before(deadline) && !gotRST {
		if err := server.Poll(); err != nil {
			t.Fatalf("server.Poll: %v", err)
		}
		if err := client.Poll(); err != nil {
			t.Fatalf("client.Poll: %v", err)
		}
		if m, ok := client.PollPing(id); ok {
			if m.Type != wire.Reset {
				t.Fatalf("client observed %+v, want a Reset", m)
			}
			gotRST = true
		}
		time.Sleep(time.Millisecond)
	}
	if !gotRST {
		t.Fatal("client never observed an RST reply to its ping")
	}
}
