package board

import "errors"

var (
	// ErrPinNotFound is returned when a configured pin name is unknown to the host.
	ErrPinNotFound = errors.New("board: gpio pin not found")

	// ErrPinCount is returned when the matrix is given the wrong number of lines.
	ErrPinCount = errors.New("board: wrong number of matrix pins")

	// ErrMissingOutput is returned when an output pin has no line assigned.
	ErrMissingOutput = errors.New("board: output pin not assigned")
)
