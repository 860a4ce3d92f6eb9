package access

import "fmt"

// CodeLength is the number of digits in a PIN.
const CodeLength = 4

// Slot is one position of a code: a digit character or EmptySlot.
type Slot byte

// EmptySlot marks a position that was never typed.
const EmptySlot Slot = 0

// DigitSlot returns the slot for digit character c.
func DigitSlot(c byte) (Slot, bool) {
	if c < '0' || c > '9' {
		return EmptySlot, false
	}
	return Slot(c), true
}

// IsEmpty reports whether s was never typed.
func (s Slot) IsEmpty() bool {
	return s == EmptySlot
}

// Code is a fixed four-slot PIN buffer.
type Code [CodeLength]Slot

// ParseCode converts a four-digit string.
func ParseCode(s string) (Code, error) {
	var c Code
	if len(s) != CodeLength {
		return c, fmt.Errorf("%w: got %d characters", ErrInvalidCode, len(s))
	}
	for i := 0; i < CodeLength; i++ {
		slot, ok := DigitSlot(s[i])
		if !ok {
			return Code{}, fmt.Errorf("%w: position %d is not a digit", ErrInvalidCode, i)
		}
		c[i] = slot
	}
	return c, nil
}

// MustParseCode is ParseCode for compiled-in literals. It panics on error.
func MustParseCode(s string) Code {
	c, err := ParseCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Filled returns how many leading slots hold a digit.
func (c Code) Filled() int {
	n := 0
	for _, s := range c {
		if s.IsEmpty() {
			break
		}
		n++
	}
	return n
}

// Masked renders typed slots as '*' and empty ones as '_'. Codes are never
// printed in the clear.
func (c Code) Masked() string {
	var b [CodeLength]byte
	for i, s := range c {
		if s.IsEmpty() {
			b[i] = '_'
		} else {
			b[i] = '*'
		}
	}
	return string(b[:])
}

// String implements fmt.Stringer with the masked form.
func (c Code) String() string {
	return c.Masked()
}
