package socket

import (
	"testing"
	"time"
)

func TestUDPSocketPollReturnsNilWhenIdle(t *testing.T) {
	s := NewUDPSocket()
	if err := s.Connect("127.0.0.1:0"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Close()

	d, err := s.Poll()
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if d != nil {
		t.Fatalf("Poll on an idle socket = %+v, want nil", d)
	}
}

func TestUDPSocketSendAndPollRoundTrip(t *testing.T) {
	a := NewUDPSocket()
	if err := a.Connect("127.0.0.1:0"); err != nil {
		t.Fatalf("a.Connect: %v", err)
	}
	defer a.Close()

	b := NewUDPSocket()
	if err := b.Connect("127.0.0.1:0"); err != nil {
		t.Fatalf("b.Connect: %v", err)
	}
	defer b.Close()

	payload := []byte("hello, world!")
	if _, err := a.Send(payload, b.LocalAddr()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	var got *Datagram
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		d, err := b.Poll()
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if d != nil {
			got = d
			break
		}
		time.Sleep(time.Millisecond)
	}
	if got == nil {
		t.Fatal("Poll never observed the datagram sent via Send")
	}
	if string(got.Data) != string(payload) {
		t.Fatalf("Data = %q, want %q", got.Data, payload)
	}
}
