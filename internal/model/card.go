package model

import (
	"encoding/json"
	"strings"
)

// Card represents a stored loyalty card.
// Field names match the persisted collection format; do not rename them.
type Card struct {
	ID            string   `json:"id"`
	StoreName     string   `json:"storeName"`
	BarcodeNumber string   `json:"barcodeNumber"`
	Color         string   `json:"color"`
	Category      Category `json:"category"`
}

// Draft is the user-supplied part of a card, before an ID is assigned.
type Draft struct {
	StoreName     string   `json:"storeName" validate:"required"`
	BarcodeNumber string   `json:"barcodeNumber" validate:"required"`
	Color         string   `json:"color" validate:"required,palette_color"`
	Category      Category `json:"category" validate:"required,category"`
}

// Trimmed returns a copy of the draft with surrounding whitespace removed from
// the text fields. An empty color or category is replaced by its default.
func (d Draft) Trimmed() Draft {
	d.StoreName = strings.TrimSpace(d.StoreName)
	d.BarcodeNumber = strings.TrimSpace(d.BarcodeNumber)
	d.Color = strings.TrimSpace(d.Color)
	if d.Color == "" {
		d.Color = DefaultColor
	}
	if d.Category == "" {
		d.Category = FallbackCategory
	}
	return d
}

// NewCard builds a card from a draft and an assigned ID.
func NewCard(id string, d Draft) Card {
	return Card{
		ID:            id,
		StoreName:     d.StoreName,
		BarcodeNumber: d.BarcodeNumber,
		Color:         d.Color,
		Category:      d.Category,
	}
}

// Initial returns the first character of the store name, used for the identity badge.
func (c Card) Initial() string {
	for _, r := range c.StoreName {
		return string(r)
	}
	return ""
}

// storedCard mirrors Card but keeps category optional, since records written
// before categories existed have no category field at all.
type storedCard struct {
	ID            string `json:"id"`
	StoreName     string `json:"storeName"`
	BarcodeNumber string `json:"barcodeNumber"`
	Color         string `json:"color"`
	Category      string `json:"category,omitempty"`
}

// UnmarshalJSON normalizes the category at the storage boundary so that
// downstream code never sees a missing or unknown category.
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw storedCard
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Card{
		ID:            raw.ID,
		StoreName:     raw.StoreName,
		BarcodeNumber: raw.BarcodeNumber,
		Color:         raw.Color,
		Category:      ResolveCategory(raw.Category),
	}
	return nil
}

// DecodeCollection parses a persisted collection.
// Records without an ID are dropped since nothing could reference them.
func DecodeCollection(data []byte) ([]Card, error) {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, err
	}

	result := make([]Card, 0, len(cards))
	for _, card := range cards {
		if card.ID == "" {
			continue
		}
		result = append(result, card)
	}
	return result, nil
}

// EncodeCollection serializes a collection in insertion order.
func EncodeCollection(cards []Card) ([]byte, error) {
	if cards == nil {
		cards = []Card{}
	}
	return json.Marshal(cards)
}
