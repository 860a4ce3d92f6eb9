package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Display geometry of the character LCD being emulated.
const (
	Columns = 20
	Rows    = 4
)

// Display is a Columns x Rows character grid with a cursor. Writes past
// the end of a row are dropped. It implements lock.Display and is safe for
// concurrent use; Run repaints it onto a terminal when it changes.
type Display struct {
	mu    sync.Mutex
	cells [Rows][Columns]byte
	col   int
	row   int
	dirty bool
}

// NewDisplay returns a blank display.
func NewDisplay() *Display {
	d := &Display{}
	d.Clear()
	return d
}

// Clear blanks the grid and homes the cursor.
func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for r := range d.cells {
		for c := range d.cells[r] {
			d.cells[r][c] = ' '
		}
	}
	d.col, d.row = 0, 0
	d.dirty = true
}

// GotoXY moves the cursor, clamping to the grid.
func (d *Display) GotoXY(col, row int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.col = clamp(col, 0, Columns)
	d.row = clamp(row, 0, Rows-1)
}

// PutString writes s at the cursor.
func (d *Display) PutString(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := 0; i < len(s); i++ {
		d.put(s[i])
	}
}

// PutChar writes c at the cursor.
func (d *Display) PutChar(c byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.put(c)
}

func (d *Display) put(c byte) {
	if d.col >= Columns {
		return
	}
	if c < ' ' || c > '~' {
		c = '?'
	}
	d.cells[d.row][d.col] = c
	d.col++
	d.dirty = true
}

// Lines returns the grid as strings, one per row.
func (d *Display) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.linesLocked()
}

func (d *Display) linesLocked() []string {
	lines := make([]string, Rows)
	for r := range d.cells {
		lines[r] = string(d.cells[r][:])
	}
	return lines
}

// Render writes a framed picture of the grid to w.
func (d *Display) Render(w io.Writer) error {
	d.mu.Lock()
	lines := d.linesLocked()
	d.dirty = false
	d.mu.Unlock()

	return render(w, lines)
}

func render(w io.Writer, lines []string) error {
	border := "+" + strings.Repeat("-", Columns) + "+"
	var b strings.Builder
	b.WriteString(border + "\n")
	for _, l := range lines {
		b.WriteString("|" + l + "|\n")
	}
	b.WriteString(border + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("rendering display: %w", err)
	}
	return nil
}

// Run repaints the display onto w every interval while it has changed,
// until ctx is cancelled.
func (d *Display) Run(ctx context.Context, w io.Writer, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.mu.Lock()
			changed := d.dirty
			d.mu.Unlock()
			if !changed {
				continue
			}
			if err := d.Render(w); err != nil {
				return err
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
