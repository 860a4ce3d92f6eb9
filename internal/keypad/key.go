package keypad

// Key is one keypad symbol. The zero value is KeyNone.
type Key byte

// KeyNone means no key is pressed.
const KeyNone Key = 0

// Special keys.
const (
	KeyStar Key = '*'
	KeyHash Key = '#'
)

// Matrix dimensions.
const (
	Rows    = 4
	Columns = 3
)

// Layout maps (row, column) to the printed key.
var Layout = [Rows][Columns]Key{
	{'1', '2', '3'},
	{'4', '5', '6'},
	{'7', '8', '9'},
	{KeyStar, '0', KeyHash},
}

// IsDigit reports whether k is 0-9.
func (k Key) IsDigit() bool {
	return k >= '0' && k <= '9'
}

// Valid reports whether k appears on the keypad.
func (k Key) Valid() bool {
	return k.IsDigit() || k == KeyStar || k == KeyHash
}

// String returns the printed symbol, or "none".
func (k Key) String() string {
	if k == KeyNone {
		return "none"
	}
	return string(rune(k))
}

// Position returns the matrix coordinates of k.
func Position(k Key) (row, col int, ok bool) {
	for r := range Layout {
		for c := range Layout[r] {
			if Layout[r][c] == k {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}
