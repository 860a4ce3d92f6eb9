// Package access holds the compiled-in credential registry and the PIN
// comparison.
//
// Codes are fixed arrays of four Slots. A slot that was never typed holds
// EmptySlot, so a short entry can be compared like any other and simply
// fails to match.
//
// Compare is pure. It walks the registry in registration order, rejects a
// candidate at its first mismatching position, and returns the index of
// the first candidate whose four positions all match.
package access
