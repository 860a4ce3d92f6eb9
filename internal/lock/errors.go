package lock

import "errors"

var (
	// ErrInvalidInterval is returned when task periods are missing or out
	// of order.
	ErrInvalidInterval = errors.New("lock: invalid task interval")

	// ErrInvalidDeadline is returned when a stage deadline is not positive.
	ErrInvalidDeadline = errors.New("lock: invalid stage deadline")

	// ErrMissingDependency is returned when a required collaborator is nil.
	ErrMissingDependency = errors.New("lock: missing dependency")
)
