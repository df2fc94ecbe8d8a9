// Package gesture recognizes the long-press drag used to move a card to
// another category.
//
// The machine is driven by four abstract events (press, move, release and the
// arm timeout) and talks to the screen only through a Surface. It never
// touches the card store: a completed drop is reported as a Result and the
// caller commits it.
package gesture

import (
	"time"

	"github.com/pasjesplank/plank/internal/model"
)

// State is the machine's phase.
type State int

const (
	Idle State = iota
	Pressed
	Dragging
)

func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// EventKind identifies an input event.
type EventKind int

const (
	Press EventKind = iota
	Move
	Release
	Timeout
)

// Event is one input to the machine.
type Event struct {
	Kind   EventKind
	CardID string // Press only
	Origin Rect   // Press only: the pressed card's box
	At     Point  // Press, Move, Release

	// Gesture identifies which press a Timeout belongs to. Set by the machine.
	Gesture uint64
}

// ResultKind says what a handled event amounted to.
type ResultKind int

const (
	None ResultKind = iota
	// Tap is a press released before the arm delay; the card should open.
	Tap
	// Drop is a drag released over a category target.
	Drop
	// Miss is a drag released over nothing droppable.
	Miss
	// Cancel is a press abandoned by moving before the arm delay.
	Cancel
)

func (k ResultKind) String() string {
	switch k {
	case Tap:
		return "tap"
	case Drop:
		return "drop"
	case Miss:
		return "miss"
	case Cancel:
		return "cancel"
	default:
		return "none"
	}
}

// Result is returned from Handle.
type Result struct {
	Kind     ResultKind
	CardID   string
	Category model.Category // Drop only
}

// Surface is the screen the gesture plays out on.
type Surface interface {
	// Listen attaches the global move and release listeners; Unlisten detaches them.
	Listen()
	Unlisten()

	// Vibrate gives haptic feedback. Failures are ignored.
	Vibrate(d time.Duration) error

	SetDragging(cardID string, on bool)
	ShowClone(cardID string, at Rect)
	MoveClone(dx, dy, scale float64)
	RemoveClone()

	// Targets returns the drop affordances, including the "all" chip.
	Targets() []Target
	SetHighlight(filter string, on bool)
}

// Timer schedules fire after d. The returned func cancels it. fire must run on
// the same goroutine that calls Handle.
type Timer interface {
	Start(d time.Duration, fire func()) (stop func())
}

// Config tunes the gesture.
type Config struct {
	ArmDelay   time.Duration
	Tolerance  float64
	CloneScale float64
	Haptic     time.Duration
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		ArmDelay:   500 * time.Millisecond,
		Tolerance:  10,
		CloneScale: 1.05,
		Haptic:     50 * time.Millisecond,
	}
}

// ConfigFrom converts the persisted gesture settings.
func ConfigFrom(c model.GestureConfig) Config {
	cfg := DefaultConfig()
	if c.ArmDelayMillis > 0 {
		cfg.ArmDelay = time.Duration(c.ArmDelayMillis) * time.Millisecond
	}
	if c.Tolerance > 0 {
		cfg.Tolerance = c.Tolerance
	}
	if c.CloneScale > 0 {
		cfg.CloneScale = c.CloneScale
	}
	return cfg
}

// Machine is the drag state machine. It is not safe for concurrent use; all
// events, timer callbacks included, must arrive on one goroutine.
type Machine struct {
	cfg     Config
	surface Surface
	timer   Timer

	state     State
	gesture   uint64
	cardID    string
	origin    Rect
	start     Point
	stopTimer func()
	listening bool
	lit       map[string]bool
}

// NewMachine creates an idle machine.
func NewMachine(cfg Config, surface Surface, timer Timer) *Machine {
	return &Machine{
		cfg:     cfg,
		surface: surface,
		timer:   timer,
		lit:     make(map[string]bool),
	}
}

// State returns the current phase.
func (m *Machine) State() State {
	return m.state
}

// CardID returns the card of the gesture in progress, if any.
func (m *Machine) CardID() string {
	return m.cardID
}

// Handle feeds one event to the machine.
func (m *Machine) Handle(ev Event) Result {
	switch ev.Kind {
	case Press:
		return m.press(ev)
	case Move:
		return m.move(ev.At)
	case Release:
		return m.release(ev.At)
	case Timeout:
		m.timeout(ev.Gesture)
	}
	return Result{}
}

// Reset abandons any gesture in progress and cleans up the surface.
func (m *Machine) Reset() {
	m.cleanup()
}

func (m *Machine) press(ev Event) Result {
	var res Result
	if m.state != Idle {
		// A second press ends the gesture in progress before starting anew.
		res = Result{Kind: Cancel, CardID: m.cardID}
		m.cleanup()
	}

	m.gesture++
	gesture := m.gesture
	m.state = Pressed
	m.cardID = ev.CardID
	m.origin = ev.Origin
	m.start = ev.At

	m.surface.Listen()
	m.listening = true
	m.stopTimer = m.timer.Start(m.cfg.ArmDelay, func() {
		m.Handle(Event{Kind: Timeout, Gesture: gesture})
	})
	return res
}

func (m *Machine) move(at Point) Result {
	switch m.state {
	case Pressed:
		d := at.Sub(m.start)
		if abs(d.X) > m.cfg.Tolerance || abs(d.Y) > m.cfg.Tolerance {
			cardID := m.cardID
			m.cleanup()
			return Result{Kind: Cancel, CardID: cardID}
		}
	case Dragging:
		d := at.Sub(m.start)
		m.surface.MoveClone(d.X, d.Y, m.cfg.CloneScale)
		for _, t := range m.surface.Targets() {
			m.highlight(t.Filter, t.Filter != model.FilterAll && t.Bounds.Contains(at))
		}
	}
	return Result{}
}

func (m *Machine) timeout(gesture uint64) {
	if m.state != Pressed || gesture != m.gesture {
		return // stale timer from an earlier press
	}
	m.stopTimer = nil
	m.state = Dragging

	_ = m.surface.Vibrate(m.cfg.Haptic)
	m.surface.SetDragging(m.cardID, true)
	m.surface.ShowClone(m.cardID, m.origin)
}

func (m *Machine) release(at Point) Result {
	switch m.state {
	case Pressed:
		cardID := m.cardID
		m.cleanup()
		return Result{Kind: Tap, CardID: cardID}

	case Dragging:
		res := Result{Kind: Miss, CardID: m.cardID}
		for _, t := range m.surface.Targets() {
			if t.Filter == model.FilterAll || !t.Bounds.Contains(at) {
				continue
			}
			if cat := model.Category(t.Filter); cat.IsValid() {
				res.Kind = Drop
				res.Category = cat
				break
			}
		}
		m.cleanup()
		return res
	}
	return Result{}
}

func (m *Machine) highlight(filter string, on bool) {
	if m.lit[filter] == on {
		return
	}
	m.surface.SetHighlight(filter, on)
	if on {
		m.lit[filter] = true
	} else {
		delete(m.lit, filter)
	}
}

// cleanup returns to Idle, undoing every surface effect of the gesture.
func (m *Machine) cleanup() {
	if m.stopTimer != nil {
		m.stopTimer()
		m.stopTimer = nil
	}
	if m.state == Dragging {
		m.surface.RemoveClone()
		m.surface.SetDragging(m.cardID, false)
	}
	for filter := range m.lit {
		m.surface.SetHighlight(filter, false)
	}
	clear(m.lit)
	if m.listening {
		m.surface.Unlisten()
		m.listening = false
	}

	m.state = Idle
	m.cardID = ""
	m.origin = Rect{}
	m.start = Point{}
}
