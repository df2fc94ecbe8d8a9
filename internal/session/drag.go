package session

import (
	"github.com/pasjesplank/plank/internal/gesture"
)

// Press starts a possible drag on a card.
func (s *Session) Press(cardID string, origin gesture.Rect, at gesture.Point) error {
	if cardID == "" {
		return nil
	}
	return s.handleDrag(gesture.Event{Kind: gesture.Press, CardID: cardID, Origin: origin, At: at})
}

// Move reports pointer motion.
func (s *Session) Move(at gesture.Point) error {
	return s.handleDrag(gesture.Event{Kind: gesture.Move, At: at})
}

// Release reports the pointer going up.
func (s *Session) Release(at gesture.Point) error {
	return s.handleDrag(gesture.Event{Kind: gesture.Release, At: at})
}

// Dragging reports whether a gesture is in progress.
func (s *Session) Dragging() bool {
	return s.drag.State() != gesture.Idle
}

func (s *Session) handleDrag(ev gesture.Event) error {
	res := s.drag.Handle(ev)
	if res.Kind != gesture.None {
		s.deps.Metrics.Drag(res.Kind.String())
	}

	switch res.Kind {
	case gesture.Tap:
		return s.OpenDetail(res.CardID)
	case gesture.Drop:
		if err := s.deps.Store.UpdateCategory(s.ctx, res.CardID, res.Category); err != nil {
			return err
		}
		if err := s.Render(); err != nil {
			return err
		}
		s.toast(ToastMovedPrefix + res.Category.Label())
	}
	return nil
}
