package wire

import "fmt"

// Type is the CoAP message type: Confirmable, Non-confirmable,
// Acknowledgement or Reset.
type Type uint8

const (
	// Confirmable messages are retransmitted by the sender until
	// acknowledged (retransmission itself is outside this core, see
	// spec.md §1 Non-goals).
	Confirmable Type = 0
	// NonConfirmable messages are not acknowledged.
	NonConfirmable Type = 1
	// Acknowledgement confirms receipt of a Confirmable message, and may
	// piggyback a response.
	Acknowledgement Type = 2
	// Reset indicates a Confirmable or Non-confirmable message was
	// received but could not be processed.
	Reset Type = 3
)

var typeNames = [4]string{
	Confirmable:     "CON",
	NonConfirmable:  "NON",
	Acknowledgement: "ACK",
	Reset:           "RST",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}
