package cli

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/render"
)

// TestCardJsonFieldSync ensures cardJson stays in sync with model.Card.
// If this test fails, you probably added a field to model.Card but forgot
// to add it to cardJson in json_output.go.
func TestCardJsonFieldSync(t *testing.T) {
	cardType := reflect.TypeOf(model.Card{})
	cardJsonType := reflect.TypeOf(cardJson{})

	// Fields that exist in cardJson but not in model.Card
	cardJsonOnly := map[string]bool{
		"ColorName":     true,
		"CategoryLabel": true,
	}

	for i := 0; i < cardType.NumField(); i++ {
		field := cardType.Field(i)
		jsonField, found := cardJsonType.FieldByName(field.Name)
		if !found {
			t.Errorf("model.Card has field %q but cardJson does not. "+
				"Add it to cardJson and cardToJson().", field.Name)
			continue
		}
		if field.Type != jsonField.Type {
			t.Errorf("Field %q has type %v in model.Card but %v in cardJson",
				field.Name, field.Type, jsonField.Type)
		}
	}

	for i := 0; i < cardJsonType.NumField(); i++ {
		name := cardJsonType.Field(i).Name
		if cardJsonOnly[name] {
			continue
		}
		if _, found := cardType.FieldByName(name); !found {
			t.Errorf("cardJson has field %q that doesn't exist in model.Card. "+
				"If this is intentional, add it to cardJsonOnly map.", name)
		}
	}
}

func TestCardToJsonCopiesAllFields(t *testing.T) {
	card := model.Card{
		ID:            "abc",
		StoreName:     "Etos",
		BarcodeNumber: "8710398503961",
		Color:         "#43B97F",
		Category:      model.CategoryDrugstore,
	}

	got := cardToJson(card)

	if got.ID != card.ID || got.StoreName != card.StoreName || got.BarcodeNumber != card.BarcodeNumber {
		t.Errorf("identity fields not copied: %+v", got)
	}
	if got.Color != card.Color || got.ColorName != "groen" {
		t.Errorf("Expected color #43B97F (groen), got %s (%s)", got.Color, got.ColorName)
	}
	if got.Category != model.CategoryDrugstore || got.CategoryLabel != "Drogisterij" {
		t.Errorf("Expected drogisterij (Drogisterij), got %s (%s)", got.Category, got.CategoryLabel)
	}
}

func TestNewListOutput(t *testing.T) {
	cards := []model.Card{
		{ID: "1", StoreName: "Zara", Category: model.CategoryClothing, Color: model.DefaultColor},
		{ID: "2", StoreName: "AH", Category: model.CategorySupermarket, Color: model.DefaultColor},
		{ID: "3", StoreName: "Jumbo", Category: model.CategorySupermarket, Color: model.DefaultColor},
	}

	output := NewListOutput(render.Build(cards, model.FilterAll))

	if output.State != "grid" || output.Count != 3 {
		t.Errorf("Expected grid with 3 cards, got %s with %d", output.State, output.Count)
	}
	if len(output.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(output.Groups))
	}
	if output.Groups[0].Category != model.CategorySupermarket || len(output.Groups[0].Cards) != 2 {
		t.Errorf("Expected supermarkt first with 2 cards, got %+v", output.Groups[0])
	}
	if output.Groups[0].Cards[0].ID != "2" || output.Groups[0].Cards[1].ID != "3" {
		t.Error("Expected insertion order within a group")
	}
}

func TestNewCategoriesOutput(t *testing.T) {
	cards := []model.Card{
		{ID: "1", Category: model.CategoryHome},
		{ID: "2", Category: model.CategoryHome},
		{ID: "3", Category: model.CategoryOther},
	}

	output := NewCategoriesOutput(cards)

	if len(output.Categories) != len(model.Categories) {
		t.Fatalf("Expected every category, got %d", len(output.Categories))
	}
	counts := make(map[model.Category]int)
	for _, c := range output.Categories {
		counts[c.Key] = c.CardCount
	}
	if counts[model.CategoryHome] != 2 || counts[model.CategoryOther] != 1 || counts[model.CategorySupermarket] != 0 {
		t.Errorf("Unexpected counts: %v", counts)
	}
}

// TestEmptySlicesNotNull ensures outputs encode empty lists as [] not null.
func TestEmptySlicesNotNull(t *testing.T) {
	tests := []struct {
		name   string
		output any
		key    string
	}{
		{"list", NewListOutput(render.Build(nil, model.FilterAll)), `"groups": []`},
		{"no matches", NewListOutput(render.Build([]model.Card{{ID: "1", Category: model.CategoryHome}}, "kleding")), `"groups": []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.MarshalIndent(tt.output, "", "  ")
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if !strings.Contains(string(data), tt.key) {
				t.Errorf("Expected %s in output, got %s", tt.key, data)
			}
		})
	}
}
