package store

import (
	"context"
	"fmt"
	"sync"

	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/id"
	"github.com/pasjesplank/plank/internal/logger"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/metrics"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/validator"
)

// MediumCardStore implements CardStore on top of a medium.Medium.
type MediumCardStore struct {
	medium  medium.Medium
	slot    string
	ids     id.Source
	metrics *metrics.Registry

	mu sync.Mutex // serializes read-modify-write of the collection

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func()
}

// Option configures a MediumCardStore.
type Option func(*MediumCardStore)

// WithSlot overrides the storage key. Defaults to model.DefaultSlot.
func WithSlot(slot string) Option {
	return func(s *MediumCardStore) {
		if slot != "" {
			s.slot = slot
		}
	}
}

// WithIDSource overrides id generation.
func WithIDSource(src id.Source) Option {
	return func(s *MediumCardStore) { s.ids = src }
}

// WithMetrics records mutations and collection size.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *MediumCardStore) { s.metrics = r }
}

// NewCardStore creates a card store backed by m.
func NewCardStore(m medium.Medium, opts ...Option) *MediumCardStore {
	s := &MediumCardStore{
		medium: m,
		slot:   model.DefaultSlot,
		ids:    id.Flex{},
		subs:   make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every card in insertion order.
// An absent or malformed collection reads as empty.
func (s *MediumCardStore) List(ctx context.Context) ([]model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns the card with the given id.
func (s *MediumCardStore) Get(ctx context.Context, cardID string) (model.Card, error) {
	cards, err := s.List(ctx)
	if err != nil {
		return model.Card{}, err
	}
	for _, c := range cards {
		if c.ID == cardID {
			return c, nil
		}
	}
	return model.Card{}, kanerr.CardNotFound(cardID)
}

// Add validates the draft, assigns a fresh id and appends the card.
func (s *MediumCardStore) Add(ctx context.Context, draft model.Draft) (model.Card, error) {
	d, err := validator.Draft(draft)
	if err != nil {
		return model.Card{}, err
	}

	s.mu.Lock()
	cards, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return model.Card{}, err
	}

	cardID := s.freshID(cards)
	card := model.NewCard(cardID, d)
	cards = append(cards, card)

	err = s.save(ctx, cards)
	s.mu.Unlock()
	if err != nil {
		return model.Card{}, err
	}

	s.metrics.Mutation("add")
	s.notify()
	return card, nil
}

// Remove deletes the card if present. Removing an unknown id is a no-op.
func (s *MediumCardStore) Remove(ctx context.Context, cardID string) error {
	return s.mutate(ctx, "remove", func(cards []model.Card) ([]model.Card, bool) {
		for i, c := range cards {
			if c.ID == cardID {
				return append(cards[:i:i], cards[i+1:]...), true
			}
		}
		return cards, false
	})
}

// UpdateCategory moves a card to another category. Unknown ids are a no-op.
func (s *MediumCardStore) UpdateCategory(ctx context.Context, cardID string, category model.Category) error {
	if !category.IsValid() {
		return kanerr.CategoryNotFound(string(category))
	}
	return s.mutate(ctx, "update_category", func(cards []model.Card) ([]model.Card, bool) {
		for i := range cards {
			if cards[i].ID == cardID {
				cards[i].Category = category
				return cards, true
			}
		}
		return cards, false
	})
}

// UpdateColor recolors a card. Unknown ids are a no-op.
func (s *MediumCardStore) UpdateColor(ctx context.Context, cardID string, color string) error {
	hex, ok := model.LookupColor(color)
	if !ok {
		return kanerr.ColorNotFound(color)
	}
	return s.mutate(ctx, "update_color", func(cards []model.Card) ([]model.Card, bool) {
		for i := range cards {
			if cards[i].ID == cardID {
				cards[i].Color = hex
				return cards, true
			}
		}
		return cards, false
	})
}

// Subscribe registers fn to run after each successful persist.
func (s *MediumCardStore) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	key := s.nextSub
	s.nextSub++
	s.subs[key] = fn

	return func() {
		s.subMu.Lock()
		delete(s.subs, key)
		s.subMu.Unlock()
	}
}

// mutate applies change under the lock and persists only if it reports a change.
func (s *MediumCardStore) mutate(ctx context.Context, op string, change func([]model.Card) ([]model.Card, bool)) error {
	s.mu.Lock()
	cards, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	cards, changed := change(cards)
	if !changed {
		s.mu.Unlock()
		return nil
	}

	err = s.save(ctx, cards)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.metrics.Mutation(op)
	s.notify()
	return nil
}

func (s *MediumCardStore) load(ctx context.Context) ([]model.Card, error) {
	data, err := s.medium.Get(ctx, s.slot)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}
	if data == nil {
		return []model.Card{}, nil
	}

	cards, err := model.DecodeCollection(data)
	if err != nil {
		logger.Get().Warnw("Ignoring malformed card collection", "slot", s.slot, "error", err)
		s.metrics.MalformedStorage()
		return []model.Card{}, nil
	}
	return cards, nil
}

func (s *MediumCardStore) save(ctx context.Context, cards []model.Card) error {
	data, err := model.EncodeCollection(cards)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := s.medium.Put(ctx, s.slot, data); err != nil {
		return fmt.Errorf("failed to write collection: %w", err)
	}
	s.metrics.CardCount(len(cards))
	return nil
}

// freshID returns an id not present in cards. Generated ids are unique in
// practice; the loop only guards against injected sources that repeat.
func (s *MediumCardStore) freshID(cards []model.Card) string {
	taken := make(map[string]bool, len(cards))
	for _, c := range cards {
		taken[c.ID] = true
	}
	for {
		candidate := s.ids.NewID()
		if !taken[candidate] {
			return candidate
		}
	}
}

func (s *MediumCardStore) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
