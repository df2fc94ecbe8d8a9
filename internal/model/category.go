package model

// Category is the key of one of the fixed card groupings.
type Category string

const (
	CategorySupermarket Category = "supermarkt"
	CategoryClothing    Category = "kleding"
	CategoryDrugstore   Category = "drogisterij"
	CategoryHome        Category = "wonen"
	CategoryOther       Category = "overig"
)

// FallbackCategory is used for records that predate categories.
const FallbackCategory = CategoryOther

// FilterAll is the filter value that shows every category.
const FilterAll = "all"

// CategoryInfo holds the display data for a category.
type CategoryInfo struct {
	Key   Category `json:"key"`
	Label string   `json:"label"`
	Glyph string   `json:"glyph"`
}

// Categories lists every category in canonical display order.
var Categories = []CategoryInfo{
	{Key: CategorySupermarket, Label: "Supermarkt", Glyph: "\U0001F6D2"},
	{Key: CategoryClothing, Label: "Kleding", Glyph: "\U0001F455"},
	{Key: CategoryDrugstore, Label: "Drogisterij", Glyph: "\U0001F9F4"},
	{Key: CategoryHome, Label: "Wonen", Glyph: "\U0001F3E0"},
	{Key: CategoryOther, Label: "Overig", Glyph: "\U0001F3F7\uFE0F"},
}

// IsValid reports whether c is one of the known category keys.
func (c Category) IsValid() bool {
	return c.Index() >= 0
}

// Index returns the position of c in the canonical order, or -1.
func (c Category) Index() int {
	for i, info := range Categories {
		if info.Key == c {
			return i
		}
	}
	return -1
}

// Info returns the display data for c. Unknown keys get the fallback's data.
func (c Category) Info() CategoryInfo {
	if i := c.Index(); i >= 0 {
		return Categories[i]
	}
	return Categories[FallbackCategory.Index()]
}

// Label returns the display label.
func (c Category) Label() string {
	return c.Info().Label
}

// Glyph returns the display glyph.
func (c Category) Glyph() string {
	return c.Info().Glyph
}

// ResolveCategory maps a raw stored value to a category, falling back for
// missing or unknown keys.
func ResolveCategory(raw string) Category {
	c := Category(raw)
	if c.IsValid() {
		return c
	}
	return FallbackCategory
}

// IsValidFilter reports whether f is "all" or a category key.
func IsValidFilter(f string) bool {
	return f == FilterAll || Category(f).IsValid()
}
