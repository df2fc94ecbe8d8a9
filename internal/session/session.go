// Package session holds the controllers behind one open app: the filter, the
// add form, the detail view, the scanner, confirmation messages and the drag
// gesture. A Session is not safe for concurrent use; run it on a Loop.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/pasjesplank/plank/internal/barcode"
	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/gesture"
	"github.com/pasjesplank/plank/internal/metrics"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/render"
	"github.com/pasjesplank/plank/internal/scan"
	"github.com/pasjesplank/plank/internal/store"
)

// Confirmation messages.
const (
	ToastAdded          = "Kaart toegevoegd!"
	ToastColorChanged   = "Kleur aangepast"
	ToastDeleted        = "Kaart verwijderd"
	ToastCameraMissing  = "Camera niet beschikbaar"
	ToastScannedPrefix  = "Barcode gescand: "
	ToastMovedPrefix    = "Verplaatst naar "
	DefaultToastTimeout = 2500 * time.Millisecond
)

// Deps are the collaborators a session works with.
type Deps struct {
	Store     store.CardStore
	View      View
	Surface   gesture.Surface
	Scanner   scan.Scanner
	Barcodes  *barcode.Renderer
	Scheduler Scheduler

	// Post runs fn on the session goroutine. Collaborator callbacks that
	// arrive on other goroutines go through it. Nil runs fn inline.
	Post func(fn func())

	Metrics *metrics.Registry
}

// Options tune a session.
type Options struct {
	Gesture      gesture.Config
	ToastTimeout time.Duration
	Scan         scan.Config
}

// DefaultOptions returns the standard timings.
func DefaultOptions() Options {
	return Options{
		Gesture:      gesture.DefaultConfig(),
		ToastTimeout: DefaultToastTimeout,
		Scan:         scan.DefaultConfig(),
	}
}

// OptionsFrom builds options from the user's config.
func OptionsFrom(cfg *model.Config) Options {
	opts := DefaultOptions()
	opts.Gesture = gesture.ConfigFrom(cfg.Gesture)
	if cfg.Toast.DurationMillis > 0 {
		opts.ToastTimeout = time.Duration(cfg.Toast.DurationMillis) * time.Millisecond
	}
	return opts
}

// Session is one user's open app.
type Session struct {
	ctx   context.Context
	deps  Deps
	opts  Options
	state State
	drag  *gesture.Machine
}

// New creates a session. ctx bounds store calls and the scanner.
func New(ctx context.Context, deps Deps, opts Options) *Session {
	if deps.Post == nil {
		deps.Post = func(fn func()) { fn() }
	}
	if deps.Barcodes == nil {
		deps.Barcodes = barcode.NewRenderer(barcode.DefaultOptions())
	}
	if opts.ToastTimeout <= 0 {
		opts.ToastTimeout = DefaultToastTimeout
	}
	s := &Session{
		ctx:   ctx,
		deps:  deps,
		opts:  opts,
		state: newState(),
	}
	s.drag = gesture.NewMachine(opts.Gesture, deps.Surface, gestureTimer{sched: deps.Scheduler})
	return s
}

// State returns a copy of the session state.
func (s *Session) State() State {
	return s.state
}

// Start draws the initial screen.
func (s *Session) Start() error {
	return s.Render()
}

// Render re-reads the collection and redraws the grid.
func (s *Session) Render() error {
	cards, err := s.deps.Store.List(s.ctx)
	if err != nil {
		return fmt.Errorf("failed to list cards: %w", err)
	}
	s.deps.View.Grid(render.Build(cards, s.state.Filter))
	return nil
}

// Refresh redraws after an outside change, keeping an open detail view current.
func (s *Session) Refresh() error {
	if err := s.Render(); err != nil {
		return err
	}
	if s.state.DetailID != "" {
		if err := s.showDetail(s.state.DetailID); err != nil && !kanerr.IsNotFound(err) {
			return err
		}
	}
	return nil
}

// SelectFilter sets the active filter.
func (s *Session) SelectFilter(filter string) error {
	if filter == "" {
		filter = model.FilterAll
	}
	if !model.IsValidFilter(filter) {
		return kanerr.CategoryNotFound(filter)
	}
	s.state.Filter = filter
	return s.Render()
}

// Close ends the session, releasing the scanner and any pending timers.
func (s *Session) Close() {
	if s.state.ScannerOpen {
		s.CloseScanner()
	}
	s.drag.Reset()
	if s.state.toastStop != nil {
		s.state.toastStop()
		s.state.toastStop = nil
	}
}

func (s *Session) toast(message string) {
	if s.state.toastStop != nil {
		s.state.toastStop()
	}
	s.state.toastGen++
	gen := s.state.toastGen
	s.state.Toast = message
	s.deps.View.Toast(message)

	s.state.toastStop = s.deps.Scheduler.AfterFunc(s.opts.ToastTimeout, func() {
		if gen != s.state.toastGen {
			return // replaced by a newer message
		}
		s.state.Toast = ""
		s.state.toastStop = nil
		s.deps.View.Toast("")
	})
}
