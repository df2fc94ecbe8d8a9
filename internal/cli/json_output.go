package cli

import (
	"encoding/json"
	"fmt"

	"github.com/pasjesplank/plank/internal/barcode"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/render"
)

// cardJson is the JSON representation of a card for CLI output.
// Separate from model.Card so labels can be added without touching storage.
type cardJson struct {
	ID            string         `json:"id"`
	StoreName     string         `json:"store_name"`
	BarcodeNumber string         `json:"barcode_number"`
	Color         string         `json:"color"`
	ColorName     string         `json:"color_name"`
	Category      model.Category `json:"category"`
	CategoryLabel string         `json:"category_label"`
}

func cardToJson(card model.Card) cardJson {
	return cardJson{
		ID:            card.ID,
		StoreName:     card.StoreName,
		BarcodeNumber: card.BarcodeNumber,
		Color:         card.Color,
		ColorName:     model.ColorName(card.Color),
		Category:      card.Category,
		CategoryLabel: card.Category.Label(),
	}
}

// CardOutput wraps a single card for JSON output.
type CardOutput struct {
	Card    cardJson        `json:"card"`
	Barcode *barcode.Result `json:"barcode,omitempty"`
}

// NewCardOutput creates a CardOutput from a model.Card.
func NewCardOutput(card model.Card) CardOutput {
	return CardOutput{Card: cardToJson(card)}
}

// groupJson is one category section of a list.
type groupJson struct {
	Category model.Category `json:"category"`
	Label    string         `json:"label"`
	Cards    []cardJson     `json:"cards"`
}

// ListOutput wraps a filtered, grouped collection for JSON output.
type ListOutput struct {
	State  string      `json:"state"`
	Filter string      `json:"filter"`
	Count  int         `json:"count"`
	Groups []groupJson `json:"groups"`
}

// NewListOutput creates a ListOutput from a render plan.
// Always returns an empty array (not null) when there are no groups.
func NewListOutput(plan render.Plan) ListOutput {
	output := ListOutput{
		State:  plan.State.String(),
		Filter: plan.Filter,
		Count:  plan.Visible(),
		Groups: make([]groupJson, 0, len(plan.Groups)),
	}
	for _, g := range plan.Groups {
		group := groupJson{
			Category: g.Category,
			Label:    g.Category.Label(),
			Cards:    make([]cardJson, 0, len(g.Cards)),
		}
		for _, c := range g.Cards {
			group.Cards = append(group.Cards, cardToJson(c))
		}
		output.Groups = append(output.Groups, group)
	}
	return output
}

// CategoryInfo represents category data for JSON output.
type CategoryInfo struct {
	Key       model.Category `json:"key"`
	Label     string         `json:"label"`
	Glyph     string         `json:"glyph"`
	CardCount int            `json:"card_count"`
}

// CategoriesOutput wraps the category list for JSON output.
type CategoriesOutput struct {
	Categories []CategoryInfo `json:"categories"`
}

// NewCategoriesOutput counts cards per category, in canonical order.
func NewCategoriesOutput(cards []model.Card) CategoriesOutput {
	counts := make(map[model.Category]int)
	for _, c := range cards {
		counts[c.Category]++
	}

	result := make([]CategoryInfo, 0, len(model.Categories))
	for _, c := range model.Categories {
		result = append(result, CategoryInfo{
			Key:       c.Key,
			Label:     c.Label,
			Glyph:     c.Glyph,
			CardCount: counts[c.Key],
		})
	}
	return CategoriesOutput{Categories: result}
}

// DeleteOutput reports a removed card.
type DeleteOutput struct {
	Deleted string `json:"deleted"`
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// warnJsonNotSupported prints a warning to stderr when --json is used on an unsupported command.
func warnJsonNotSupported(command string) {
	PrintWarning("--json is not supported for '%s' (flag ignored)", command)
}
