package session

import (
	"github.com/pasjesplank/plank/internal/barcode"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/render"
	"github.com/pasjesplank/plank/internal/scan"
)

// View is where a session draws. Each call replaces what the view showed for
// that part of the screen.
type View interface {
	Grid(plan render.Plan)
	AddForm(form AddForm)
	Detail(detail *Detail) // nil closes the detail view
	Scanner(open bool, cfg scan.Config)
	Toast(message string) // "" hides the toast
}

// AddForm is the add-card form's state.
type AddForm struct {
	Open     bool           `json:"open"`
	Color    string         `json:"color"`
	Category model.Category `json:"category"`
	Barcode  string         `json:"barcode"` // prefilled by the scanner
}

func newAddForm() AddForm {
	return AddForm{Color: model.DefaultColor, Category: model.FallbackCategory}
}

// Detail is what the detail view shows for one card.
type Detail struct {
	Card    model.Card           `json:"card"`
	Label   string               `json:"label"`
	Glyph   string               `json:"glyph"`
	Barcode barcode.Result       `json:"barcode"`
	Palette []model.PaletteColor `json:"palette"`
}
