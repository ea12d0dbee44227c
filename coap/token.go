package coap

import (
	"math/rand"
	"sync"
	"time"

	"github.com/lobaro/coap-core/wire"
)

// TokenGenerator produces the client-chosen tokens spec.md §3 lets a
// Request carry to correlate its eventual Response. It is independent of
// wire.NextID, which picks fresh message ids (spec.md §9).
type TokenGenerator interface {
	NextToken() wire.Token
}

// RandomTokenGenerator hands out 4-byte tokens: a per-instance sequence
// byte followed by 3 random bytes, grounded on coap/token.go's
// RandomTokenGenerator. The sequence byte guards against two tokens
// colliding inside the same process even if the random source repeats.
type RandomTokenGenerator struct {
	mu   sync.Mutex
	rand *rand.Rand
	seq  uint8
}

func NewRandomTokenGenerator() *RandomTokenGenerator {
	return &RandomTokenGenerator{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (t *RandomTokenGenerator) NextToken() wire.Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	tok := make(wire.Token, 4)
	t.rand.Read(tok)
	t.seq++
	tok[0] = t.seq
	return tok
}

// CountingTokenGenerator hands out 1-byte tokens that count up from 1.
// Meant for tests that need deterministic token/response correlation.
type CountingTokenGenerator struct {
	mu  sync.Mutex
	seq uint8
}

func NewCountingTokenGenerator() *CountingTokenGenerator {
	return &CountingTokenGenerator{}
}

func (t *CountingTokenGenerator) NextToken() wire.Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	return wire.Token{t.seq}
}
