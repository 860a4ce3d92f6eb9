package board

import (
	"errors"
	"fmt"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/nerrad567/gray-logic-keypad/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-keypad/internal/keypad"
	"github.com/nerrad567/gray-logic-keypad/internal/lock"
)

// switchColumn is a pulled-up column that reads low when a held switch
// joins it to a row currently driven low.
type switchColumn struct {
	*gpiotest.Pin
	col  int
	rows []*gpiotest.Pin
	held *keypad.Key
}

func (c *switchColumn) Read() gpio.Level {
	if *c.held == keypad.KeyNone {
		return gpio.High
	}
	row, col, _ := keypad.Position(*c.held)
	if col == c.col && c.rows[row].Read() == gpio.Low {
		return gpio.Low
	}
	return gpio.High
}

type bench struct {
	rows   []*gpiotest.Pin
	matrix *Matrix
	held   keypad.Key
}

func newBench(t *testing.T) *bench {
	t.Helper()
	b := &bench{}

	outs := make([]gpio.PinOut, keypad.Rows)
	for i := range outs {
		p := &gpiotest.Pin{N: fmt.Sprintf("ROW%d", i), Num: i}
		b.rows = append(b.rows, p)
		outs[i] = p
	}
	ins := make([]gpio.PinIn, keypad.Columns)
	for i := range ins {
		ins[i] = &switchColumn{
			Pin:  &gpiotest.Pin{N: fmt.Sprintf("COL%d", i), Num: 10 + i},
			col:  i,
			rows: b.rows,
			held: &b.held,
		}
	}

	m, err := NewMatrix(outs, ins)
	if err != nil {
		t.Fatalf("NewMatrix() error = %v", err)
	}
	b.matrix = m
	return b
}

func TestNewMatrix_RowsIdleHigh(t *testing.T) {
	b := newBench(t)
	for i, p := range b.rows {
		if p.Read() != gpio.High {
			t.Errorf("row %d idles %v, want high", i, p.Read())
		}
	}
}

func TestNewMatrix_PinCount(t *testing.T) {
	_, err := NewMatrix([]gpio.PinOut{&gpiotest.Pin{N: "R0"}}, nil)
	if !errors.Is(err, ErrPinCount) {
		t.Errorf("NewMatrix(short) error = %v, want ErrPinCount", err)
	}
}

func TestMatrix_ReaderDecodesEveryKey(t *testing.T) {
	b := newBench(t)
	r := keypad.NewReader(b.matrix, 1, nil)

	for _, row := range keypad.Layout {
		for _, k := range row {
			b.held = k
			if got := r.Scan(); got != k {
				t.Errorf("Scan() with %v held = %v", k, got)
			}
			b.held = keypad.KeyNone
			if got := r.Scan(); got != keypad.KeyNone {
				t.Errorf("Scan() after releasing %v = %v", k, got)
			}
		}
	}

	for i, p := range b.rows {
		if p.Read() != gpio.High {
			t.Errorf("row %d left low after scanning", i)
		}
	}
}

func TestMatrix_Bounds(t *testing.T) {
	b := newBench(t)
	if err := b.matrix.DriveRow(keypad.Rows, true); err == nil {
		t.Error("DriveRow(out of range) error = nil")
	}
	if _, err := b.matrix.SenseColumn(keypad.Columns); err == nil {
		t.Error("SenseColumn(out of range) error = nil")
	}
}

func testOutputs() map[lock.Pin]*gpiotest.Pin {
	outs := make(map[lock.Pin]*gpiotest.Pin, len(lock.Pins))
	for _, pin := range lock.Pins {
		outs[pin] = &gpiotest.Pin{N: pin.String(), L: gpio.High}
	}
	return outs
}

func TestNewActuator_DrivesLow(t *testing.T) {
	pins := testOutputs()
	in := make(map[lock.Pin]gpio.PinOut, len(pins))
	for k, v := range pins {
		in[k] = v
	}

	a, err := NewActuator(in)
	if err != nil {
		t.Fatalf("NewActuator() error = %v", err)
	}
	for pin, p := range pins {
		if p.Read() != gpio.Low {
			t.Errorf("%v not driven low at start", pin)
		}
	}

	if err := a.Set(lock.PinRelay, lock.High); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if pins[lock.PinRelay].Read() != gpio.High {
		t.Error("relay not high after Set(high)")
	}
	if pins[lock.PinBuzzer].Read() != gpio.Low {
		t.Error("buzzer changed by relay write")
	}
}

func TestNewActuator_MissingPin(t *testing.T) {
	_, err := NewActuator(map[lock.Pin]gpio.PinOut{lock.PinRelay: &gpiotest.Pin{N: "relay"}})
	if !errors.Is(err, ErrMissingOutput) {
		t.Errorf("NewActuator(partial) error = %v, want ErrMissingOutput", err)
	}
}

func testHardware() config.HardwareConfig {
	return config.HardwareConfig{
		Backend: config.BackendGPIO,
		Keypad: config.KeypadPinsConfig{
			Rows:    []string{"GPIO5", "GPIO6", "GPIO13", "GPIO19"},
			Columns: []string{"GPIO12", "GPIO16", "GPIO20"},
		},
		Pins: config.OutputPinsConfig{
			Relay:           "GPIO17",
			AcceptIndicator: "GPIO27",
			RejectIndicator: "GPIO22",
			Buzzer:          "GPIO18",
			Doorbell:        "GPIO23",
		},
	}
}

func TestOpen_ResolvesNames(t *testing.T) {
	registry := map[string]*gpiotest.Pin{}
	lookup := func(name string) gpio.PinIO {
		p, ok := registry[name]
		if !ok {
			p = &gpiotest.Pin{N: name}
			registry[name] = p
		}
		return p
	}

	m, a, err := open(testHardware(), lookup)
	if err != nil {
		t.Fatalf("open() error = %v", err)
	}
	if m == nil || a == nil {
		t.Fatal("open() returned nil backend")
	}
	if len(registry) != keypad.Rows+keypad.Columns+len(lock.Pins) {
		t.Errorf("resolved %d pins, want %d", len(registry), keypad.Rows+keypad.Columns+len(lock.Pins))
	}

	if err := a.Set(lock.PinDoorbell, lock.High); err != nil {
		t.Fatal(err)
	}
	if registry["GPIO23"].Read() != gpio.High {
		t.Error("doorbell output not mapped to GPIO23")
	}
}

func TestOpen_UnknownPin(t *testing.T) {
	lookup := func(name string) gpio.PinIO {
		if name == "GPIO18" {
			return nil
		}
		return &gpiotest.Pin{N: name}
	}

	_, _, err := open(testHardware(), lookup)
	if !errors.Is(err, ErrPinNotFound) {
		t.Errorf("open() error = %v, want ErrPinNotFound", err)
	}
}
