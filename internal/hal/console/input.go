package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/nerrad567/gray-logic-keypad/internal/keypad"
)

// minHold keeps taps visible to a slow debounce even with a fast scan.
const minHold = 40 * time.Millisecond

// LineReader is the part of *readline.Instance the input loop needs.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Tapper presses and releases a single key. *Matrix implements it.
type Tapper interface {
	Tap(ctx context.Context, k keypad.Key, hold, gap time.Duration) error
}

// Input types operator lines onto a key matrix, one key at a time.
type Input struct {
	lines  LineReader
	matrix Tapper
	out    io.Writer
	hold   time.Duration
	gap    time.Duration
}

// KeyTiming returns a hold and gap long enough for a reader scanning every
// scan with the given debounce to register each tap exactly once.
func KeyTiming(scan time.Duration, debounceScans int) (hold, gap time.Duration) {
	if debounceScans < 1 {
		debounceScans = 1
	}
	hold = scan * time.Duration(2*(debounceScans+1))
	if hold < minHold {
		hold = minHold
	}
	return hold, hold
}

// NewInput returns an input loop reading from lines and pressing keys on
// matrix. Help text goes to out.
func NewInput(lines LineReader, matrix Tapper, out io.Writer, hold, gap time.Duration) *Input {
	if out == nil {
		out = io.Discard
	}
	return &Input{lines: lines, matrix: matrix, out: out, hold: hold, gap: gap}
}

// NewPrompt opens a readline prompt on the terminal.
func NewPrompt() (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "keypad> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("creating readline: %w", err)
	}
	return rl, nil
}

// Run reads lines until ctx is cancelled or the operator quits, in which
// case it returns ErrQuit. Every keypad character on a line is tapped in
// order; other characters are reported and skipped.
func (in *Input) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			in.lines.Close() //nolint:errcheck // Unblocks Readline
		case <-done:
		}
	}()

	in.printHelp()

	for {
		line, err := in.lines.Readline()
		if ctx.Err() != nil {
			return nil //nolint:nilerr // Shutdown closed the prompt
		}
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return ErrQuit
		}

		input := strings.TrimSpace(line)
		switch strings.ToLower(input) {
		case "":
			continue
		case "help", "?":
			in.printHelp()
			continue
		case "quit", "exit":
			return ErrQuit
		}

		if err := in.typeLine(ctx, input); err != nil {
			if ctx.Err() != nil {
				return nil //nolint:nilerr // Shutdown mid-line
			}
			return err
		}
	}
}

func (in *Input) typeLine(ctx context.Context, line string) error {
	for _, r := range line {
		if r == ' ' {
			continue
		}
		k := keypad.Key(r)
		if r > 0x7f || !k.Valid() {
			fmt.Fprintf(in.out, "ignoring %q: not on the keypad\n", r)
			continue
		}
		if err := in.matrix.Tap(ctx, k, in.hold, in.gap); err != nil {
			return err
		}
	}
	return nil
}

func (in *Input) printHelp() {
	fmt.Fprintln(in.out, "Type keypad keys and press Enter:")
	fmt.Fprintln(in.out, "  *1234   start entry and type a code")
	fmt.Fprintln(in.out, "  #       ring the doorbell")
	fmt.Fprintln(in.out, "  help    show this text")
	fmt.Fprintln(in.out, "  quit    stop the appliance")
}
