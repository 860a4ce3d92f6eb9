package lock

import (
	"strconv"
	"sync"
)

// Display geometry.
const (
	DisplayColumns = 20
	DisplayRows    = 4
)

// Row 0 belongs to the remaining-time readout; banners use rows 1-3.
const (
	rowStatus = 0
	rowTitle  = 1
	rowBody   = 2
	rowFooter = 3

	// echoColumn is where the first masked digit is drawn on rowBody.
	echoColumn = 8
)

type line struct {
	col, row int
	text     string
}

// screen serialises display access between the session and countdown
// tasks. Every method is one uninterrupted sequence of display calls.
type screen struct {
	mu sync.Mutex
	d  Display
}

func newScreen(d Display) *screen {
	return &screen{d: d}
}

func (s *screen) show(lines ...line) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.d.Clear()
	for _, l := range lines {
		s.d.GotoXY(l.col, l.row)
		s.d.PutString(l.text)
	}
}

func (s *screen) writeAt(col, row int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.d.GotoXY(col, row)
	s.d.PutString(text)
}

func (s *screen) putCharAt(col, row int, c byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.d.GotoXY(col, row)
	s.d.PutChar(c)
}

func standbyLines(siteName string) []line {
	return []line{
		{2, rowStatus, siteName},
		{4, rowTitle, "Welcome"},
		{1, rowBody, "* -> Enter PIN"},
		{1, rowFooter, "# -> Doorbell"},
	}
}

func entryPromptLines() []line {
	return []line{
		{2, rowTitle, "--Enter PIN--"},
	}
}

func acceptLines(owner string) []line {
	return []line{
		{2, rowTitle, "Access granted"},
		{2, rowBody, "Hello"},
		{2, rowFooter, owner},
	}
}

func rejectLines() []line {
	return []line{
		{2, rowBody, "Access denied"},
	}
}

func doorbellLines() []line {
	return []line{
		{2, rowBody, "Doorbell rang"},
	}
}

// remainingText is padded so a shorter number overwrites a longer one.
func remainingText(n int) string {
	return "Remaining: " + strconv.Itoa(n) + " "
}
