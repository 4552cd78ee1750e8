package history

import (
	"errors"

	"mad-life/pkg/bitplane"
)

var (
	// ErrInvalidDimension is returned by Create for a non-positive width or height.
	ErrInvalidDimension = bitplane.ErrInvalidDimension
	// ErrInvalidArgument is returned by Get for a negative serial.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotInitialized is returned by Get before any life was created.
	ErrNotInitialized = errors.New("no life created yet")
)
