package lock

import (
	"errors"
	"strings"
	"sync"

	"github.com/nerrad567/gray-logic-keypad/internal/access"
	"github.com/nerrad567/gray-logic-keypad/internal/events"
	"github.com/nerrad567/gray-logic-keypad/internal/keypad"
)

var errFakeBus = errors.New("bus fault")

// scriptedKeys returns queued keys one per Scan, then KeyNone.
type scriptedKeys struct {
	mu    sync.Mutex
	queue []keypad.Key
}

func (k *scriptedKeys) push(keys ...keypad.Key) {
	k.mu.Lock()
	k.queue = append(k.queue, keys...)
	k.mu.Unlock()
}

func (k *scriptedKeys) Scan() keypad.Key {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.queue) == 0 {
		return keypad.KeyNone
	}
	key := k.queue[0]
	k.queue = k.queue[1:]
	return key
}

// gridDisplay renders into a DisplayColumns x DisplayRows character grid.
type gridDisplay struct {
	mu       sync.Mutex
	grid     [DisplayRows][DisplayColumns]byte
	col, row int
	clears   int
}

func newGridDisplay() *gridDisplay {
	d := &gridDisplay{}
	d.Clear()
	d.clears = 0
	return d
}

func (d *gridDisplay) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for r := range d.grid {
		for c := range d.grid[r] {
			d.grid[r][c] = ' '
		}
	}
	d.col, d.row = 0, 0
	d.clears++
}

func (d *gridDisplay) GotoXY(col, row int) {
	d.mu.Lock()
	d.col, d.row = col, row
	d.mu.Unlock()
}

func (d *gridDisplay) PutString(s string) {
	for i := 0; i < len(s); i++ {
		d.PutChar(s[i])
	}
}

func (d *gridDisplay) PutChar(c byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.row >= 0 && d.row < DisplayRows && d.col >= 0 && d.col < DisplayColumns {
		d.grid[d.row][d.col] = c
	}
	d.col++
}

func (d *gridDisplay) line(row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.TrimSpace(string(d.grid[row][:]))
}

func (d *gridDisplay) contains(text string) bool {
	for r := 0; r < DisplayRows; r++ {
		if strings.Contains(d.line(r), text) {
			return true
		}
	}
	return false
}

// pinBoard records pin levels and every write.
type pinBoard struct {
	mu     sync.Mutex
	levels map[Pin]Level
	writes map[Pin]int
	highs  map[Pin]int
	err    error
}

func newPinBoard() *pinBoard {
	return &pinBoard{
		levels: make(map[Pin]Level),
		writes: make(map[Pin]int),
		highs:  make(map[Pin]int),
	}
}

func (p *pinBoard) Set(pin Pin, level Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.levels[pin] = level
	p.writes[pin]++
	if level == High {
		p.highs[pin]++
	}
	return nil
}

func (p *pinBoard) level(pin Pin) Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.levels[pin]
}

func (p *pinBoard) timesHigh(pin Pin) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.highs[pin]
}

func (p *pinBoard) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

type memJournal struct {
	mu     sync.Mutex
	events []events.Event
}

func (j *memJournal) Record(e events.Event) {
	j.mu.Lock()
	j.events = append(j.events, e)
	j.mu.Unlock()
}

func (j *memJournal) all() []events.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]events.Event(nil), j.events...)
}

type countingLogger struct {
	mu    sync.Mutex
	warns int
	infos int
	errs  int
}

func (l *countingLogger) Debug(string, ...any) {}

func (l *countingLogger) Info(string, ...any) {
	l.mu.Lock()
	l.infos++
	l.mu.Unlock()
}

func (l *countingLogger) Warn(string, ...any) {
	l.mu.Lock()
	l.warns++
	l.mu.Unlock()
}

func (l *countingLogger) Error(string, ...any) {
	l.mu.Lock()
	l.errs++
	l.mu.Unlock()
}

// rig is a hand-cranked appliance: tests call the three Tick methods
// directly instead of running tickers.
type rig struct {
	keys     *scriptedKeys
	display  *gridDisplay
	pins     *pinBoard
	journal  *memJournal
	logger   *countingLogger
	timer    *TimerState
	buzzer   *BuzzerState
	counters *Counters

	session   *SessionController
	countdown *CountdownTimer
	sequencer *BuzzerSequencer
}

func newRig() *rig {
	r := &rig{
		keys:     &scriptedKeys{},
		display:  newGridDisplay(),
		pins:     newPinBoard(),
		journal:  &memJournal{},
		logger:   &countingLogger{},
		timer:    &TimerState{},
		buzzer:   &BuzzerState{},
		counters: &Counters{},
	}
	r.session = NewSessionController(SessionDeps{
		Keys:     r.keys,
		Registry: access.Builtin(),
		Timer:    r.timer,
		Buzzer:   r.buzzer,
		Counters: r.counters,
		Display:  r.display,
		Actuator: r.pins,
		Journal:  r.journal,
		Logger:   r.logger,
		SiteName: "Front Door",
	})
	r.countdown = NewCountdownTimer(r.timer, DefaultTiming, func(remaining int) {
		r.session.screen.writeAt(2, rowStatus, remainingText(remaining))
	})
	r.sequencer = NewBuzzerSequencer(r.buzzer, r.pins, r.logger)
	r.session.Reset()
	return r
}

// press feeds keys one session tick each.
func (r *rig) press(keys string) {
	for i := 0; i < len(keys); i++ {
		r.keys.push(keypad.Key(keys[i]))
		r.session.Tick()
	}
}

// seconds runs n countdown ticks, each followed by a session tick.
func (r *rig) seconds(n int) {
	for i := 0; i < n; i++ {
		r.countdown.Tick()
		r.session.Tick()
	}
}

func (r *rig) stage() Stage {
	return r.session.Snapshot().Stage
}

func (r *rig) pattern() Pattern {
	return r.buzzer.Snapshot().Pattern
}
