// Package console is the bench backend for the keypad lock: a virtual key
// matrix fed from a readline prompt, a character display drawn to the
// terminal and an actuator that logs pin changes.
//
// Keys typed at the prompt are "held" on the virtual matrix long enough
// for the scan task to debounce them, so the lock sees exactly what it
// would see from a real keypad.
package console
