// Package keypad reads a 4x3 key matrix one debounced key at a time.
//
// The matrix is scanned row-major: each row is driven active in turn and
// every column is sensed while it is held. The first closed switch found
// wins, so when several keys are down at once the one nearest the top
// left is reported.
//
// Reader.Scan is edge-triggered. A key is returned once when it becomes
// the stable pressed key and KeyNone is returned for as long as it stays
// held. Contact chatter is filtered by requiring the same raw sample on a
// configurable number of consecutive scans before it counts as stable.
//
// Electrical access is behind the Lines interface so the same reader runs
// over GPIO pins or a virtual matrix fed from a terminal.
package keypad
