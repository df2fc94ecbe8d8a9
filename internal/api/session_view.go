package api

import (
	"context"
	"errors"
	"sync"
	"time"

	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/gesture"
	"github.com/pasjesplank/plank/internal/logger"
	"github.com/pasjesplank/plank/internal/render"
	"github.com/pasjesplank/plank/internal/scan"
	"github.com/pasjesplank/plank/internal/session"
)

// GridMessage carries a redrawn grid.
type GridMessage struct {
	State   string `json:"state"`
	Filter  string `json:"filter"`
	Count   int    `json:"count"`
	HTML    string `json:"html"`
	Filters string `json:"filters"`
}

// ScannerMessage opens or closes the camera overlay.
type ScannerMessage struct {
	Open   bool        `json:"open"`
	Config scan.Config `json:"config"`
}

// CloneMessage drives the floating copy of a dragged card.
type CloneMessage struct {
	Action string        `json:"action"` // "show", "move" or "remove"
	CardID string        `json:"cardId,omitempty"`
	Rect   *gesture.Rect `json:"rect,omitempty"`
	DX     float64       `json:"dx,omitempty"`
	DY     float64       `json:"dy,omitempty"`
	Scale  float64       `json:"scale,omitempty"`
}

// sessionView draws a session into the client's browser. It implements both
// session.View and gesture.Surface. All methods run on the session loop.
type sessionView struct {
	client  *WebSocketClient
	targets []gesture.Target
}

var (
	_ session.View    = (*sessionView)(nil)
	_ gesture.Surface = (*sessionView)(nil)
)

func (v *sessionView) Grid(plan render.Plan) {
	grid, err := render.HTML(plan)
	if err != nil {
		logger.Get().Errorw("failed to render grid", "error", err)
		return
	}
	filters, err := render.FilterBar(plan.Filter)
	if err != nil {
		logger.Get().Errorw("failed to render filter bar", "error", err)
		return
	}
	v.client.sendJSON("grid", GridMessage{
		State:   plan.State.String(),
		Filter:  plan.Filter,
		Count:   plan.Visible(),
		HTML:    string(grid),
		Filters: string(filters),
	})
}

func (v *sessionView) AddForm(form session.AddForm) {
	v.client.sendJSON("add_form", form)
}

func (v *sessionView) Detail(detail *session.Detail) {
	v.client.sendJSON("detail", detail)
}

func (v *sessionView) Scanner(open bool, cfg scan.Config) {
	v.client.sendJSON("scanner", ScannerMessage{Open: open, Config: cfg})
}

func (v *sessionView) Toast(message string) {
	v.client.sendJSON("toast", map[string]string{"message": message})
}

func (v *sessionView) Listen()   { v.client.sendJSON("listen", map[string]bool{"on": true}) }
func (v *sessionView) Unlisten() { v.client.sendJSON("listen", map[string]bool{"on": false}) }

func (v *sessionView) Vibrate(d time.Duration) error {
	if !v.client.sendJSON("vibrate", map[string]int64{"ms": d.Milliseconds()}) {
		return errors.New("client gone")
	}
	return nil
}

func (v *sessionView) SetDragging(cardID string, on bool) {
	v.client.sendJSON("dragging", map[string]any{"cardId": cardID, "on": on})
}

func (v *sessionView) ShowClone(cardID string, at gesture.Rect) {
	v.client.sendJSON("clone", CloneMessage{Action: "show", CardID: cardID, Rect: &at})
}

func (v *sessionView) MoveClone(dx, dy, scale float64) {
	v.client.sendJSON("clone", CloneMessage{Action: "move", DX: dx, DY: dy, Scale: scale})
}

func (v *sessionView) RemoveClone() {
	v.client.sendJSON("clone", CloneMessage{Action: "remove"})
}

// Targets returns the chip positions the browser last reported.
func (v *sessionView) Targets() []gesture.Target {
	return v.targets
}

func (v *sessionView) SetHighlight(filter string, on bool) {
	v.client.sendJSON("highlight", map[string]any{"filter": filter, "on": on})
}

// remoteScanner is the browser's camera decoder. The "scanner" view message
// starts it; detections and failures come back as client messages on the
// read goroutine.
type remoteScanner struct {
	mu       sync.Mutex
	handlers *scan.Handlers
}

var _ scan.Scanner = (*remoteScanner)(nil)

// ErrScannerBusy is returned when the scanner is started twice.
var ErrScannerBusy = errors.New("scanner already running")

func (s *remoteScanner) Start(ctx context.Context, h scan.Handlers) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handlers != nil {
		return kanerr.Unavailable("camera", ErrScannerBusy)
	}
	if err := ctx.Err(); err != nil {
		return kanerr.Unavailable("camera", err)
	}
	s.handlers = &h
	return nil
}

func (s *remoteScanner) Stop() error {
	s.mu.Lock()
	s.handlers = nil
	s.mu.Unlock()
	return nil
}

// detected reports a decoded code. Codes that fail the check digit are
// dropped; the browser keeps scanning.
func (s *remoteScanner) detected(raw string) {
	code := scan.Normalize(raw)
	if !scan.ValidEAN(code) {
		return
	}
	if h := s.take(); h != nil && h.Detected != nil {
		h.Detected(code)
	}
}

func (s *remoteScanner) failed(err error) {
	if h := s.take(); h != nil && h.Failed != nil {
		h.Failed(kanerr.Unavailable("camera", err))
	}
}

// take returns the handlers and clears them, so each scan reports once.
func (s *remoteScanner) take() *scan.Handlers {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handlers
	s.handlers = nil
	return h
}
