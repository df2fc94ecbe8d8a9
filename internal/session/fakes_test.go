package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pasjesplank/plank/internal/gesture"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/render"
	"github.com/pasjesplank/plank/internal/scan"
	"github.com/pasjesplank/plank/internal/store"
)

// countingStore records every mutation call.
type countingStore struct {
	store.CardStore
	calls []string
}

func (c *countingStore) Add(ctx context.Context, d model.Draft) (model.Card, error) {
	c.calls = append(c.calls, "add")
	return c.CardStore.Add(ctx, d)
}

func (c *countingStore) Remove(ctx context.Context, id string) error {
	c.calls = append(c.calls, "remove:"+id)
	return c.CardStore.Remove(ctx, id)
}

func (c *countingStore) UpdateCategory(ctx context.Context, id string, cat model.Category) error {
	c.calls = append(c.calls, "category:"+id+":"+string(cat))
	return c.CardStore.UpdateCategory(ctx, id, cat)
}

func (c *countingStore) UpdateColor(ctx context.Context, id string, color string) error {
	c.calls = append(c.calls, "color:"+id+":"+color)
	return c.CardStore.UpdateColor(ctx, id, color)
}

type fakeView struct {
	grids   []render.Plan
	forms   []AddForm
	details []*Detail
	scanner []bool
	toasts  []string
	order   []string
}

func (v *fakeView) Grid(p render.Plan) {
	v.grids = append(v.grids, p)
	v.order = append(v.order, "grid")
}

func (v *fakeView) AddForm(f AddForm) {
	v.forms = append(v.forms, f)
	v.order = append(v.order, "form")
}

func (v *fakeView) Detail(d *Detail) {
	v.details = append(v.details, d)
	v.order = append(v.order, "detail")
}

func (v *fakeView) Scanner(open bool, _ scan.Config) {
	v.scanner = append(v.scanner, open)
	v.order = append(v.order, "scanner")
}

func (v *fakeView) Toast(m string) {
	v.toasts = append(v.toasts, m)
	v.order = append(v.order, "toast")
}

func (v *fakeView) lastGrid() render.Plan { return v.grids[len(v.grids)-1] }
func (v *fakeView) lastForm() AddForm     { return v.forms[len(v.forms)-1] }
func (v *fakeView) lastDetail() *Detail   { return v.details[len(v.details)-1] }
func (v *fakeView) lastToast() string     { return v.toasts[len(v.toasts)-1] }
func (v *fakeView) lastScannerOpen() bool { return v.scanner[len(v.scanner)-1] }
func (v *fakeView) reset()                { *v = fakeView{} }

// fakeScheduler records callbacks; tests advance time by hand.
type fakeScheduler struct {
	now   time.Duration
	tasks []*task
}

type task struct {
	at      time.Duration
	fn      func()
	stopped bool
	ran     bool
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := &task{at: f.now + d, fn: fn}
	f.tasks = append(f.tasks, t)
	return func() { t.stopped = true }
}

// Advance moves time forward, running due tasks in order.
func (f *fakeScheduler) Advance(d time.Duration) {
	f.now += d
	for _, t := range f.tasks {
		if !t.stopped && !t.ran && t.at <= f.now {
			t.ran = true
			t.fn()
		}
	}
}

type fakeSurface struct {
	listeners   int
	clone       string
	dragging    map[string]bool
	highlighted map[string]bool
	targets     []gesture.Target
}

func newFakeSurface() *fakeSurface {
	targets := []gesture.Target{{Filter: model.FilterAll, Bounds: gesture.Rect{X: 0, Y: 0, Width: 40, Height: 30}}}
	for i, c := range model.Categories {
		targets = append(targets, gesture.Target{
			Filter: string(c.Key),
			Bounds: gesture.Rect{X: float64(50 + 50*i), Y: 0, Width: 40, Height: 30},
		})
	}
	return &fakeSurface{dragging: map[string]bool{}, highlighted: map[string]bool{}, targets: targets}
}

// center returns a point inside the chip for filter.
func (f *fakeSurface) center(filter string) gesture.Point {
	for _, t := range f.targets {
		if t.Filter == filter {
			return gesture.Point{X: t.Bounds.X + t.Bounds.Width/2, Y: t.Bounds.Y + t.Bounds.Height/2}
		}
	}
	panic("no target " + filter)
}

func (f *fakeSurface) Listen()                             { f.listeners++ }
func (f *fakeSurface) Unlisten()                           { f.listeners-- }
func (f *fakeSurface) Vibrate(time.Duration) error         { return errors.New("no haptics") }
func (f *fakeSurface) ShowClone(id string, _ gesture.Rect) { f.clone = id }
func (f *fakeSurface) RemoveClone()                        { f.clone = "" }
func (f *fakeSurface) Targets() []gesture.Target           { return f.targets }

func (f *fakeSurface) MoveClone(_, _, _ float64) {}

func (f *fakeSurface) SetDragging(id string, on bool) {
	if on {
		f.dragging[id] = true
	} else {
		delete(f.dragging, id)
	}
}

func (f *fakeSurface) SetHighlight(filter string, on bool) {
	if on {
		f.highlighted[filter] = true
	} else {
		delete(f.highlighted, filter)
	}
}

type fakeScanner struct {
	mu       sync.Mutex
	startErr error
	started  int
	stopped  int
	stopErr  error
	handlers scan.Handlers
}

func (f *fakeScanner) Start(_ context.Context, h scan.Handlers) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started++
	f.handlers = h
	return nil
}

func (f *fakeScanner) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
	return f.stopErr
}

type harness struct {
	session *Session
	store   *countingStore
	view    *fakeView
	sched   *fakeScheduler
	surface *fakeSurface
	scanner *fakeScanner
}

func newHarness() *harness {
	h := &harness{
		store:   &countingStore{CardStore: store.NewCardStore(medium.NewMemory())},
		view:    &fakeView{},
		sched:   &fakeScheduler{},
		surface: newFakeSurface(),
		scanner: &fakeScanner{},
	}
	h.session = New(context.Background(), Deps{
		Store:     h.store,
		View:      h.view,
		Surface:   h.surface,
		Scanner:   h.scanner,
		Scheduler: h.sched,
	}, DefaultOptions())
	return h
}

// seed adds cards directly through the store and forgets the calls.
func (h *harness) seed(names ...string) []model.Card {
	var cards []model.Card
	for _, n := range names {
		c, err := h.store.CardStore.Add(context.Background(), model.Draft{StoreName: n, BarcodeNumber: "4006381333931"})
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}
