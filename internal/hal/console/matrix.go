package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-keypad/internal/keypad"
)

// Matrix is an in-memory key matrix. At most one key is closed at a time.
// It implements keypad.Lines and is safe for concurrent use.
type Matrix struct {
	mu        sync.Mutex
	pressed   keypad.Key
	activeRow int
}

// NewMatrix returns a matrix with every switch open.
func NewMatrix() *Matrix {
	return &Matrix{activeRow: -1}
}

// DriveRow records which row the scanner is currently driving.
func (m *Matrix) DriveRow(row int, active bool) error {
	if row < 0 || row >= keypad.Rows {
		return fmt.Errorf("row %d out of range", row)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case active:
		m.activeRow = row
	case m.activeRow == row:
		m.activeRow = -1
	}
	return nil
}

// SenseColumn reports whether the pressed key sits at the driven row and col.
func (m *Matrix) SenseColumn(col int) (bool, error) {
	if col < 0 || col >= keypad.Columns {
		return false, fmt.Errorf("column %d out of range", col)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pressed == keypad.KeyNone || m.activeRow < 0 {
		return false, nil
	}
	row, c, _ := keypad.Position(m.pressed)
	return row == m.activeRow && c == col, nil
}

// Press closes the switch for k, releasing any other key.
func (m *Matrix) Press(k keypad.Key) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, rune(k))
	}
	m.mu.Lock()
	m.pressed = k
	m.mu.Unlock()
	return nil
}

// Release opens every switch.
func (m *Matrix) Release() {
	m.mu.Lock()
	m.pressed = keypad.KeyNone
	m.mu.Unlock()
}

// Tap presses k for hold, then releases it and waits gap so the next tap
// is seen as a separate press. It returns early if ctx is cancelled.
func (m *Matrix) Tap(ctx context.Context, k keypad.Key, hold, gap time.Duration) error {
	if err := m.Press(k); err != nil {
		return err
	}
	err := sleep(ctx, hold)
	m.Release()
	if err != nil {
		return err
	}
	return sleep(ctx, gap)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
