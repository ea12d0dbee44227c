package message

import (
	"bytes"
	"fmt"

	"github.com/lobaro/coap-core/wire"
)

// Message is the wire entity: a parsed or about-to-be-serialized CoAP
// frame (spec.md §3). Options are stored in wire (delta-encoded) form;
// authoring code builds an OptionSet and calls Normalize to produce them.
type Message struct {
	Version wire.Version
	Type    wire.Type
	Code    wire.Code
	Id      wire.Id
	Token   wire.Token
	Options Options
	Payload []byte
}

// NewEmpty returns a Message with code 0.00, no token, no options and no
// payload - the wire form spec.md §3 requires for pings and resets.
func NewEmpty(id wire.Id, typ wire.Type) Message {
	return Message{Version: wire.Version1, Type: typ, Code: wire.Empty, Id: id}
}

// Parse decodes src into a Message, or returns a *ParseError.
//
// The header layout (spec.md §4.1): byte 1 is ver[2]|type[2]|tkl[4], byte
// 2 is the code, bytes 3-4 are the big-endian id, followed by tkl token
// bytes, then options, then (if a 0xFF marker is present) the payload.
func Parse(src []byte) (Message, error) {
	var m Message

	if len(src) < 4 {
		return m, newParseError(UnexpectedEndOfStream)
	}

	m.Version = wire.Version(src[0] >> 6)
	if !m.Version.Valid() {
		return m, newParseError(UnknownVersion)
	}
	m.Type = wire.Type((src[0] >> 4) & 0x3)
	tkl := int(src[0] & 0x0f)
	if tkl > wire.MaxTokenLength {
		return m, &ParseError{Kind: InvalidTokenLength, N: tkl}
	}
	m.Code = wire.Code(src[1])
	m.Id = wire.Id(uint16(src[2])<<8 | uint16(src[3]))

	rest := src[4:]
	if len(rest) < tkl {
		return m, newParseError(UnexpectedEndOfStream)
	}
	if tkl > 0 {
		m.Token = wire.Token(append([]byte(nil), rest[:tkl]...))
	}
	rest = rest[tkl:]

	opts, payload, err := parseOptions(rest)
	if err != nil {
		return m, err
	}
	m.Options = opts
	m.Payload = payload

	return m, nil
}

// parseOptions walks the options section of a frame, stopping at either
// exhaustion or a 0xFF payload marker, per spec.md §4.1.
func parseOptions(src []byte) (Options, []byte, error) {
	var opts Options
	var currentNumber uint32

	for len(src) > 0 {
		if src[0] == 0xff {
			if len(src) < 2 {
				// RFC 7252 §3: a payload marker MUST be followed by at
				// least one byte of payload.
				return nil, nil, newParseError(UnexpectedEndOfStream)
			}
			return opts, append([]byte(nil), src[1:]...), nil
		}

		deltaNibble := uint32(src[0] >> 4)
		lengthNibble := uint32(src[0] & 0x0f)
		src = src[1:]

		delta, src2, err := extendNibble(deltaNibble, src, OptionDeltaReserved)
		if err != nil {
			return nil, nil, err
		}
		src = src2

		length, src3, err := extendNibble(lengthNibble, src, OptionLengthReserved)
		if err != nil {
			return nil, nil, err
		}
		src = src3

		if uint32(len(src)) < length {
			return nil, nil, newParseError(UnexpectedEndOfStream)
		}

		currentNumber += delta
		value := append([]byte(nil), src[:length]...)
		opts = append(opts, Option{Delta: delta, Value: value})
		src = src[length:]
	}

	return opts, nil, nil
}

// extendNibble interprets one delta/length nibble: 0-12 is literal, 13
// reads one extension byte (+13), 14 reads two big-endian extension bytes
// (+269), 15 is reserved and yields reservedKind.
func extendNibble(nibble uint32, src []byte, reservedKind ParseErrorKind) (uint32, []byte, error) {
	switch nibble {
	case 13:
		if len(src) < 1 {
			return 0, nil, newParseError(UnexpectedEndOfStream)
		}
		return uint32(src[0]) + 13, src[1:], nil
	case 14:
		if len(src) < 2 {
			return 0, nil, newParseError(UnexpectedEndOfStream)
		}
		return (uint32(src[0])<<8 | uint32(src[1])) + 269, src[2:], nil
	case 15:
		return 0, nil, newParseError(reservedKind)
	default:
		return nibble, src, nil
	}
}

// Serialize encodes m into its wire form (spec.md §4.1 "Serialize").
// Options must already be in delta-normalized wire form (see
// OptionSet.Normalize); Serialize does not re-sort them.
func (m Message) Serialize() ([]byte, error) {
	buf := bytes.Buffer{}

	var head byte
	head |= (1 << 6)
	head |= byte(m.Type&0x3) << 4
	head |= byte(len(m.Token) & 0x0f)
	buf.WriteByte(head)
	buf.WriteByte(byte(m.Code))
	buf.WriteByte(byte(m.Id >> 8))
	buf.WriteByte(byte(m.Id & 0xff))
	buf.Write(m.Token)

	for _, opt := range m.Options {
		if err := writeOption(&buf, opt); err != nil {
			return nil, err
		}
	}

	if len(m.Payload) > 0 {
		buf.WriteByte(0xff)
		buf.Write(m.Payload)
	}

	return buf.Bytes(), nil
}

func writeOption(buf *bytes.Buffer, opt Option) error {
	if opt.Delta > maxOptionValue || uint32(len(opt.Value)) > maxOptionValue {
		return newSerializeError(ValueTooLong)
	}

	header := make([]byte, 1, 5)
	deltaNib, deltaExt, err := extendValue(opt.Delta)
	if err != nil {
		return err
	}
	lengthNib, lengthExt, err := extendValue(uint32(len(opt.Value)))
	if err != nil {
		return err
	}

	header[0] = byte(deltaNib<<4) | byte(lengthNib)
	header = append(header, deltaExt...)
	header = append(header, lengthExt...)

	buf.Write(header)
	buf.Write(opt.Value)
	return nil
}

// extendValue picks the smallest legal nibble + extension-byte encoding
// for a delta or length value (spec.md §4.2).
func extendValue(v uint32) (nibble uint32, ext []byte, err error) {
	switch {
	case v < 13:
		return v, nil, nil
	case v < 269:
		return 13, []byte{byte(v - 13)}, nil
	case v <= maxOptionValue:
		v -= 269
		return 14, []byte{byte(v >> 8), byte(v & 0xff)}, nil
	default:
		return 0, nil, newSerializeError(ValueTooLong)
	}
}

// AbsoluteOptions walks the delta-encoded wire options and returns each
// with its absolute number, for read-side convenience accessors.
func (m Message) AbsoluteOptions() []AbsOption {
	out := make([]AbsOption, 0, len(m.Options))

	var number uint32
	for _, o := range m.Options {
		number += o.Delta
		out = append(out, AbsOption{Number: number, Value: o.Value})
	}
	return out
}

// GetOptions returns the values of every option carried under the given
// absolute number, in wire order.
func (m Message) GetOptions(number uint32) [][]byte {
	var out [][]byte
	for _, o := range m.AbsoluteOptions() {
		if o.Number == number {
			out = append(out, o.Value)
		}
	}
	return out
}

func (m Message) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Message{Type:%s Code:%s Id:%d Token:%x Options:%d Payload:%dB}",
		m.Type, m.Code, m.Id, []byte(m.Token), len(m.Options), len(m.Payload))
	return buf.String()
}
