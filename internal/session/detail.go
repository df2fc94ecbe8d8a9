package session

import (
	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/model"
)

// OpenDetail shows one card. An id that no longer exists is ignored.
func (s *Session) OpenDetail(cardID string) error {
	err := s.showDetail(cardID)
	if kanerr.IsNotFound(err) {
		return nil
	}
	return err
}

// CloseDetail hides the detail view.
func (s *Session) CloseDetail() {
	s.state.DetailID = ""
	s.deps.View.Detail(nil)
}

// ChangeColor recolors the card in the detail view.
func (s *Session) ChangeColor(color string) error {
	cardID := s.state.DetailID
	if cardID == "" {
		return nil
	}
	if err := s.deps.Store.UpdateColor(s.ctx, cardID, color); err != nil {
		return err
	}
	if err := s.Render(); err != nil {
		return err
	}
	if err := s.showDetail(cardID); err != nil && !kanerr.IsNotFound(err) {
		return err
	}
	s.toast(ToastColorChanged)
	return nil
}

// Delete removes the card in the detail view, but only once the user confirmed.
func (s *Session) Delete(confirmed bool) error {
	cardID := s.state.DetailID
	if !confirmed || cardID == "" {
		return nil
	}
	if err := s.deps.Store.Remove(s.ctx, cardID); err != nil {
		return err
	}
	s.CloseDetail()
	if err := s.Render(); err != nil {
		return err
	}
	s.toast(ToastDeleted)
	return nil
}

func (s *Session) showDetail(cardID string) error {
	cards, err := s.deps.Store.List(s.ctx)
	if err != nil {
		return err
	}
	for _, c := range cards {
		if c.ID != cardID {
			continue
		}
		category := model.ResolveCategory(string(c.Category))
		s.state.DetailID = cardID
		s.deps.View.Detail(&Detail{
			Card:    c,
			Label:   category.Label(),
			Glyph:   category.Glyph(),
			Barcode: s.deps.Barcodes.Render(c.BarcodeNumber),
			Palette: model.Palette,
		})
		return nil
	}
	if s.state.DetailID == cardID {
		s.CloseDetail()
	}
	return kanerr.CardNotFound(cardID)
}
