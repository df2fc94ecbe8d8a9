package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pasjesplank/plank/internal/config"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/model"
)

// ValidEAN13 is a card number with a correct EAN-13 check digit.
const ValidEAN13 = "8710398503961"

// TestCard returns a card with sensible test defaults.
func TestCard(id, storeName string) model.Card {
	return model.Card{
		ID:            id,
		StoreName:     storeName,
		BarcodeNumber: ValidEAN13,
		Color:         model.DefaultColor,
		Category:      model.FallbackCategory,
	}
}

// TestDraft returns a valid draft in the given category.
func TestDraft(storeName string, category model.Category) model.Draft {
	return model.Draft{
		StoreName:     storeName,
		BarcodeNumber: ValidEAN13,
		Color:         model.DefaultColor,
		Category:      category,
	}
}

// NewTestPaths creates a Paths for testing with the given temp directory.
func NewTestPaths(baseDir string) *config.Paths {
	return config.NewPaths(baseDir, "")
}

// SeedCollection stores cards under the default slot of m.
func SeedCollection(t *testing.T, m medium.Medium, cards ...model.Card) {
	t.Helper()

	data, err := model.EncodeCollection(cards)
	if err != nil {
		t.Fatalf("failed to encode collection: %v", err)
	}
	SeedRaw(t, m, string(data))
}

// SeedRaw stores raw bytes under the default slot of m, for records the
// model would refuse to write (missing categories, broken JSON).
func SeedRaw(t *testing.T, m medium.Medium, raw string) {
	t.Helper()

	if err := m.Put(context.Background(), model.DefaultSlot, []byte(raw)); err != nil {
		t.Fatalf("failed to seed collection: %v", err)
	}
}

// ReadCollection decodes the collection stored under the default slot of m.
func ReadCollection(t *testing.T, m medium.Medium) []model.Card {
	t.Helper()

	data, err := m.Get(context.Background(), model.DefaultSlot)
	if err != nil {
		t.Fatalf("failed to read collection: %v", err)
	}
	if data == nil {
		return nil
	}
	var cards []model.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		t.Fatalf("failed to decode collection: %v", err)
	}
	return cards
}
