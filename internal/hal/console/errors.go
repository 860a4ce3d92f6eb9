package console

import "errors"

var (
	// ErrUnknownKey is returned for characters not printed on the keypad.
	ErrUnknownKey = errors.New("console: not a keypad key")

	// ErrQuit is returned by Input.Run when the operator leaves the prompt.
	ErrQuit = errors.New("console: closed by operator")
)
