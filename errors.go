package relay

import "fmt"

// PanicError is returned in place of a callback panic when panics are
// recovered. Asynchronous notifications always recover.
type PanicError struct {
	// ID identifies the subscriber whose callback panicked.
	ID ID

	// Value is the recovered panic value.
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("relay: subscriber %d panicked: %v", e.ID, e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
