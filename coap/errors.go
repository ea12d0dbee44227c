package coap

import "github.com/pkg/errors"

// SendError wraps a failure to deliver a Request through a socket.Socket,
// grounded on coap/errors.go's coapError/wrapError but built on
// github.com/pkg/errors so callers can unwrap the underlying cause with
// errors.Cause.
type SendError struct {
	Op  string
	err error
}

func (e *SendError) Error() string {
	return "coap: " + e.Op + ": " + e.err.Error()
}

func (e *SendError) Unwrap() error {
	return e.err
}

// Cause lets errors.Cause walk past the SendError to the wrapped error.
func (e *SendError) Cause() error {
	return e.err
}

// WrapSendError wraps err, describing the failed operation op, as a
// *SendError - used by runtime.Runtime.Send and its callers so every
// delivery failure in the core carries a consistent shape.
func WrapSendError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SendError{Op: op, err: errors.Wrap(err, op)}
}
