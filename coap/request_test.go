package coap

import (
	"testing"

	"github.com/lobaro/coap-core/message"
	"github.com/lobaro/coap-core/wire"
)

func TestNewRequestRejectsUnknownMethod(t *testing.T) {
	_, err := NewRequest(Method("PATCH"), "example.com", 0, "hello", NewCountingTokenGenerator())
	if err == nil {
		t.Fatal("expected an error for an unsupported method")
	}
}

func TestNewRequestRejectsEmptyHost(t *testing.T) {
	_, err := NewRequest(GET, "", 0, "hello", NewCountingTokenGenerator())
	if err == nil {
		t.Fatal("expected an error for an empty host")
	}
}

func TestRequestToMessageSetsUriOptions(t *testing.T) {
	req, err := NewRequest(GET, "127.0.0.1", 0, "hello", NewCountingTokenGenerator())
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	m, err := req.ToMessage()
	if err != nil {
		t.Fatalf("ToMessage: %v", err)
	}
	if m.Code != wire.GET {
		t.Fatalf("Code = %v, want GET", m.Code)
	}
	if m.Type != wire.Confirmable {
		t.Fatalf("Type = %v, want Confirmable (default)", m.Type)
	}
	paths := m.GetOptions(message.OptUriPath)
	if len(paths) != 1 || string(paths[0]) != "hello" {
		t.Fatalf("Uri-Path options = %q, want [\"hello\"]", paths)
	}
	hosts := m.GetOptions(message.OptUriHost)
	if len(hosts) != 1 || string(hosts[0]) != "127.0.0.1" {
		t.Fatalf("Uri-Host options = %q, want [\"127.0.0.1\"]", hosts)
	}
	// Default port (5683) is omitted, per RFC 7252 §5.10.1.
	if ports := m.GetOptions(message.OptUriPort); len(ports) != 0 {
		t.Fatalf("Uri-Port options = %v, want none for the default port", ports)
	}
}

func TestRequestToMessageIncludesCustomOptions(t *testing.T) {
	req, err := NewRequest(GET, "127.0.0.1", 0, "a/b", NewCountingTokenGenerator())
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.AddQuery("k=v")
	m, err := req.ToMessage()
	if err != nil {
		t.Fatalf("ToMessage: %v", err)
	}
	queries := m.GetOptions(message.OptUriQuery)
	if len(queries) != 1 || string(queries[0]) != "k=v" {
		t.Fatalf("Uri-Query options = %q, want [\"k=v\"]", queries)
	}
	paths := m.GetOptions(message.OptUriPath)
	if len(paths) != 2 || string(paths[0]) != "a" || string(paths[1]) != "b" {
		t.Fatalf("Uri-Path options = %q, want [\"a\" \"b\"]", paths)
	}
}

func TestRequestTokensAreDistinctPerCall(t *testing.T) {
	tg := NewCountingTokenGenerator()
	r1, _ := NewRequest(GET, "h", 0, "p", tg)
	r2, _ := NewRequest(GET, "h", 0, "p", tg)
	if r1.Token.Equal(r2.Token) {
		t.Fatalf("expected distinct tokens, got %x and %x", []byte(r1.Token), []byte(r2.Token))
	}
}
