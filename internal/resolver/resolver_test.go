package resolver

import (
	"context"
	"testing"

	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/prompt"
	"github.com/pasjesplank/plank/internal/store"
)

func setupResolver(t *testing.T, names ...string) (*CardResolver, []model.Card) {
	t.Helper()
	s := store.NewCardStore(medium.NewMemory())
	var cards []model.Card
	for _, n := range names {
		c, err := s.Add(context.Background(), model.Draft{StoreName: n, BarcodeNumber: "123"})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		cards = append(cards, c)
	}
	return NewCardResolver(s), cards
}

func TestCardResolver_Resolve(t *testing.T) {
	r, cards := setupResolver(t, "Albert Heijn", "Étos", "Hema", "Hema Outlet")
	ctx := context.Background()

	tests := []struct {
		input string
		want  string
	}{
		{cards[0].ID, cards[0].ID},
		{"albert-heijn", cards[0].ID},
		{"Albert Heijn", cards[0].ID},
		{"albert", cards[0].ID},
		{"etos", cards[1].ID},
		{"hema", cards[2].ID}, // exact slug wins over prefix
		{"hema-out", cards[3].ID},
	}
	for _, tt := range tests {
		got, err := r.Resolve(ctx, tt.input)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", tt.input, err)
			continue
		}
		if got.ID != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.input, got.ID, tt.want)
		}
	}
}

func TestCardResolver_NotFound(t *testing.T) {
	r, _ := setupResolver(t, "Jumbo")

	for _, input := range []string{"lidl", "", "!!!"} {
		_, err := r.Resolve(context.Background(), input)
		if !kanerr.IsNotFound(err) {
			t.Errorf("Resolve(%q) error = %v, want not found", input, err)
		}
	}
}

func TestCardResolver_Ambiguous(t *testing.T) {
	r, _ := setupResolver(t, "Hema Utrecht", "Hema Amsterdam")

	_, err := r.Resolve(context.Background(), "hema")
	if !kanerr.IsValidationError(err) {
		t.Errorf("Expected ambiguity error, got %v", err)
	}
}

type scriptedPrompter struct {
	prompt.NoopPrompter
	choice string
	titles []string
}

func (p *scriptedPrompter) Select(title string, options []prompt.Option) (string, error) {
	p.titles = append(p.titles, title)
	return p.choice, nil
}

func TestLookupCategory(t *testing.T) {
	tests := []struct {
		input string
		want  model.Category
	}{
		{"kleding", model.CategoryClothing},
		{"Kleding", model.CategoryClothing},
		{"SUPERMARKT", model.CategorySupermarket},
		{" wonen ", model.CategoryHome},
	}
	for _, tt := range tests {
		got, err := LookupCategory(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("LookupCategory(%q) = %q, %v", tt.input, got, err)
		}
	}
	if _, err := LookupCategory("tuin"); !kanerr.IsNotFound(err) {
		t.Errorf("Expected not found for tuin, got %v", err)
	}
}

func TestCategoryResolver(t *testing.T) {
	p := &scriptedPrompter{choice: "drogisterij"}
	r := NewCategoryResolver(p)

	got, err := r.Resolve("", true)
	if err != nil || got != model.CategoryDrugstore {
		t.Errorf("Prompted resolve = %q, %v", got, err)
	}
	if len(p.titles) != 1 {
		t.Errorf("Expected one prompt, got %d", len(p.titles))
	}

	if _, err := r.Resolve("", false); !kanerr.IsValidationError(err) {
		t.Errorf("Non-interactive without input should fail, got %v", err)
	}

	got, _ = r.Resolve("wonen", false)
	if got != model.CategoryHome {
		t.Errorf("Explicit resolve = %q", got)
	}
}

func TestColorResolver(t *testing.T) {
	p := &scriptedPrompter{choice: "#3EC1D3"}
	r := NewColorResolver(p)

	tests := []struct {
		input       string
		interactive bool
		want        string
		wantErr     bool
	}{
		{"blauw", false, "#3EC1D3", false},
		{"#ff6584", false, "#FF6584", false},
		{"#000000", false, "", true},
		{"", false, "", true},
		{"", true, "#3EC1D3", false},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.input, tt.interactive)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Resolve(%q, %v) = %q, %v", tt.input, tt.interactive, got, err)
		}
	}
}
