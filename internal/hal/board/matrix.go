package board

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"

	"github.com/nerrad567/gray-logic-keypad/internal/keypad"
)

// Matrix drives the keypad rows and senses its columns. It implements
// keypad.Lines.
type Matrix struct {
	rows []gpio.PinOut
	cols []gpio.PinIn
}

// NewMatrix configures rows as idle-high outputs and columns as pulled-up
// inputs.
func NewMatrix(rows []gpio.PinOut, cols []gpio.PinIn) (*Matrix, error) {
	if len(rows) != keypad.Rows || len(cols) != keypad.Columns {
		return nil, fmt.Errorf("%w: got %d rows and %d columns, want %d and %d",
			ErrPinCount, len(rows), len(cols), keypad.Rows, keypad.Columns)
	}

	for i, p := range rows {
		if err := p.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("configuring row %d (%s): %w", i, p, err)
		}
	}
	for i, p := range cols {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("configuring column %d (%s): %w", i, p, err)
		}
	}

	return &Matrix{rows: rows, cols: cols}, nil
}

// DriveRow pulls row low while active and lets it idle high otherwise.
func (m *Matrix) DriveRow(row int, active bool) error {
	if row < 0 || row >= len(m.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	level := gpio.High
	if active {
		level = gpio.Low
	}
	return m.rows[row].Out(level)
}

// SenseColumn reports a closed switch when col reads low.
func (m *Matrix) SenseColumn(col int) (bool, error) {
	if col < 0 || col >= len(m.cols) {
		return false, fmt.Errorf("column %d out of range", col)
	}
	return m.cols[col].Read() == gpio.Low, nil
}
