package session

import (
	"strings"

	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/model"
)

// OpenAdd opens the add form with fresh selections.
func (s *Session) OpenAdd() {
	s.state.Add = newAddForm()
	s.state.Add.Open = true
	s.deps.View.AddForm(s.state.Add)
}

// CloseAdd closes the add form.
func (s *Session) CloseAdd() {
	s.state.Add.Open = false
	s.deps.View.AddForm(s.state.Add)
}

// SelectColor picks the color for the new card.
func (s *Session) SelectColor(color string) error {
	hex, ok := model.LookupColor(color)
	if !ok {
		return kanerr.ColorNotFound(color)
	}
	s.state.Add.Color = hex
	s.deps.View.AddForm(s.state.Add)
	return nil
}

// SelectCategory picks the category for the new card.
func (s *Session) SelectCategory(category model.Category) error {
	if !category.IsValid() {
		return kanerr.CategoryNotFound(string(category))
	}
	s.state.Add.Category = category
	s.deps.View.AddForm(s.state.Add)
	return nil
}

// SubmitAdd stores a new card from the form. Blank input is ignored.
func (s *Session) SubmitAdd(storeName, barcodeNumber string) error {
	storeName = strings.TrimSpace(storeName)
	barcodeNumber = strings.TrimSpace(barcodeNumber)
	if storeName == "" || barcodeNumber == "" {
		return nil
	}

	_, err := s.deps.Store.Add(s.ctx, model.Draft{
		StoreName:     storeName,
		BarcodeNumber: barcodeNumber,
		Color:         s.state.Add.Color,
		Category:      s.state.Add.Category,
	})
	if err != nil {
		return err
	}

	s.state.Add = newAddForm()
	s.deps.View.AddForm(s.state.Add)
	if err := s.Render(); err != nil {
		return err
	}
	s.toast(ToastAdded)
	return nil
}
