package keypad

import "fmt"

// Lines is the electrical side of the matrix.
//
// DriveRow activates or releases one row line. SenseColumn reports whether
// the switch joining the active row to col is closed.
type Lines interface {
	DriveRow(row int, active bool) error
	SenseColumn(col int) (bool, error)
}

// Logger is the subset of logging.Logger the reader uses.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Reader turns raw matrix samples into single key events. It is owned by
// one goroutine (the scan task) and is not safe for concurrent use.
type Reader struct {
	lines    Lines
	debounce int
	logger   Logger

	candidate Key // last raw sample
	streak    int // consecutive scans candidate has been seen
	latched   Key // last stable key; KeyNone once released

	failing bool
}

// NewReader returns a reader over lines.
//
// Parameters:
//   - lines: Row drive and column sense access to the matrix
//   - debounceScans: Identical consecutive samples needed before a change counts (values below 1 mean 1)
//   - logger: Receives scan failures; may be nil
//
// Returns:
//   - *Reader: Reader with no key latched
func NewReader(lines Lines, debounceScans int, logger Logger) *Reader {
	if debounceScans < 1 {
		debounceScans = 1
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Reader{
		lines:    lines,
		debounce: debounceScans,
		logger:   logger,
	}
}

// Scan samples the matrix once. It returns a key only on the scan where
// that key becomes the stable pressed key; otherwise KeyNone.
//
// Line errors are logged once per failure run and read as "no change".
func (r *Reader) Scan() Key {
	raw, err := r.sample()
	if err != nil {
		if !r.failing {
			r.failing = true
			r.logger.Warn("keypad scan failed", "error", err)
		}
		return KeyNone
	}
	if r.failing {
		r.failing = false
		r.logger.Info("keypad scan recovered")
	}

	if raw == r.candidate {
		if r.streak < r.debounce {
			r.streak++
		}
	} else {
		r.candidate = raw
		r.streak = 1
	}

	if r.streak < r.debounce || r.candidate == r.latched {
		return KeyNone
	}

	r.latched = r.candidate
	return r.latched
}

// sample walks the matrix row-major and returns the first closed switch.
func (r *Reader) sample() (Key, error) {
	for row := 0; row < Rows; row++ {
		if err := r.lines.DriveRow(row, true); err != nil {
			return KeyNone, fmt.Errorf("driving row %d: %w", row, err)
		}

		key, err := r.senseRow(row)

		if relErr := r.lines.DriveRow(row, false); relErr != nil && err == nil {
			err = fmt.Errorf("releasing row %d: %w", row, relErr)
		}
		if err != nil {
			return KeyNone, err
		}
		if key != KeyNone {
			return key, nil
		}
	}
	return KeyNone, nil
}

func (r *Reader) senseRow(row int) (Key, error) {
	for col := 0; col < Columns; col++ {
		closed, err := r.lines.SenseColumn(col)
		if err != nil {
			return KeyNone, fmt.Errorf("sensing row %d column %d: %w", row, col, err)
		}
		if closed {
			return Layout[row][col], nil
		}
	}
	return KeyNone, nil
}
