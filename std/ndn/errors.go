package ndn

import (
	"errors"
	"fmt"
)

type ErrInvalidValue struct {
	Item  string
	Value any
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Item, e.Value)
}

// ErrInvalidArgument is returned when a nil or empty name or Interest is
// passed where one is required.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrMultipleHandlers is returned when multiple handlers are attached to the same prefix.
var ErrMultipleHandlers = errors.New("multiple handlers attached to the same prefix")

// ErrNotRunning is returned when replying through an engine that has been stopped.
var ErrNotRunning = errors.New("engine is not running")
