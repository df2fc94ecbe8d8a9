package model

import "strings"

// DefaultColor is preselected in the add form.
const DefaultColor = "#6C63FF"

// PaletteColor is one entry of the fixed card color palette.
type PaletteColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Palette is the fixed set of card colors, in picker order.
var Palette = []PaletteColor{
	{Name: "paars", Hex: "#6C63FF"},
	{Name: "roze", Hex: "#FF6584"},
	{Name: "groen", Hex: "#43B97F"},
	{Name: "geel", Hex: "#F9A826"},
	{Name: "blauw", Hex: "#3EC1D3"},
	{Name: "oranje", Hex: "#FF7B54"},
	{Name: "lila", Hex: "#A66CFF"},
	{Name: "donker", Hex: "#2D3142"},
}

// IsPaletteColor reports whether hex is one of the palette colors.
// Comparison is case-insensitive.
func IsPaletteColor(hex string) bool {
	_, ok := LookupColor(hex)
	return ok
}

// LookupColor resolves a palette name or hex value to its canonical hex form.
func LookupColor(nameOrHex string) (string, bool) {
	for _, c := range Palette {
		if strings.EqualFold(c.Hex, nameOrHex) || strings.EqualFold(c.Name, nameOrHex) {
			return c.Hex, true
		}
	}
	return "", false
}

// ColorName returns the palette name for a hex value, or the value itself.
func ColorName(hex string) string {
	for _, c := range Palette {
		if strings.EqualFold(c.Hex, hex) {
			return c.Name
		}
	}
	return hex
}
