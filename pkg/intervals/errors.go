package intervals

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every internal consistency failure. It is never
// returned for bad input: seeing it means the store is corrupted.
var ErrInvariant = errors.New("interval store invariant violated")

type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvariant.Error(), e.Msg)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

func invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
