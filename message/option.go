package message

// Well-known CoAP option numbers this core's Request/Response helpers
// operate on directly, grounded on coap/options.go.
const (
	OptIfMatch       uint32 = 1
	OptUriHost       uint32 = 3
	OptETag          uint32 = 4
	OptIfNoneMatch   uint32 = 5
	OptObserve       uint32 = 6
	OptUriPort       uint32 = 7
	OptLocationPath  uint32 = 8
	OptUriPath       uint32 = 11
	OptContentFormat uint32 = 12
	OptMaxAge        uint32 = 14
	OptUriQuery      uint32 = 15
	OptAccept        uint32 = 17
	OptLocationQuery uint32 = 20
	OptProxyUri      uint32 = 35
	OptProxyScheme   uint32 = 39
	OptSize1         uint32 = 60
)

// maxOptionValue is the largest absolute option number or value length
// this codec can encode: the 14-nibble extension base (269) plus the
// largest 16-bit extension (65535), per spec.md §4.2.
const maxOptionValue = 65804

// Option is a single wire-form option: a delta from the previous option's
// absolute number, and its raw value bytes.
type Option struct {
	Delta uint32
	Value []byte
}

// Len returns the option value's length in bytes.
func (o Option) Len() int {
	return len(o.Value)
}

// Options is the wire-form, delta-encoded, non-decreasing sequence of
// options carried by a Message.
type Options []Option

// AbsOption is a single option resolved to its absolute number, for
// read-side convenience accessors that don't want to track running deltas
// themselves.
type AbsOption struct {
	Number uint32
	Value  []byte
}
