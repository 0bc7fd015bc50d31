package engine

import (
	"errors"
	"fmt"
)

// ErrStoreClosed is reported when an action is sent to a closed Store.
var ErrStoreClosed = errors.New("store closed")

// PanicError wraps a panic recovered from an effect. It is passed to the
// effect's Catch handler like any other failure.
type PanicError struct {
	// Effect is the effect's Name.
	Effect string

	// ID is the effect's identity, if it had one.
	ID EffectID

	// Value is the recovered panic value.
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("effect %q (%s) panicked: %v", e.Effect, e.ID, e.Value)
	}
	return fmt.Sprintf("effect %q panicked: %v", e.Effect, e.Value)
}

// IsPanicError reports whether err is or wraps a PanicError.
func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
