package normalize

import (
	"errors"
	"fmt"
)

var (
	// ErrUnparseable is returned when a body does not have the expected shape
	ErrUnparseable = errors.New("unparseable body")

	// ErrEmpty is returned when a body is well-formed but holds no usable result
	ErrEmpty = errors.New("empty result")
)

func unparseable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnparseable, fmt.Sprintf(format, args...))
}

func empty(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrEmpty, fmt.Sprintf(format, args...))
}
