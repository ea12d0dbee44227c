package wire

import "sync/atomic"

// Id is the 16-bit big-endian CoAP message identifier.
type Id uint16

var idCounter uint32

// NextID returns a fresh 16-bit message id. The generator is a monotonic
// counter wrapping modulo 2^16; spec.md §4.3 only requires distinctness
// across back-to-back calls, not cryptographic unpredictability, grounded
// on GiterLab-go-secoap/secoapcore/msg_id.go's GetMID atomic counter.
func NextID() Id {
	return Id(uint16(atomic.AddUint32(&idCounter, 1)))
}
