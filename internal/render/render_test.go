package render

import (
	"strings"
	"testing"

	"github.com/pasjesplank/plank/internal/model"
)

func card(id string, cat model.Category) model.Card {
	return model.Card{ID: id, StoreName: "Store " + id, BarcodeNumber: "123", Color: model.DefaultColor, Category: cat}
}

func groupKeys(p Plan) []model.Category {
	var out []model.Category
	for _, g := range p.Groups {
		out = append(out, g.Category)
	}
	return out
}

func TestBuild_GroupsInCanonicalOrder(t *testing.T) {
	// Two cards in A (supermarkt), none in B (kleding), one in C (drogisterij),
	// stored out of canonical order.
	cards := []model.Card{
		card("c1", model.CategoryDrugstore),
		card("a1", model.CategorySupermarket),
		card("a2", model.CategorySupermarket),
	}

	plan := Build(cards, model.FilterAll)
	if plan.State != StateGrid {
		t.Fatalf("State = %v, want grid", plan.State)
	}

	got := groupKeys(plan)
	if len(got) != 2 || got[0] != model.CategorySupermarket || got[1] != model.CategoryDrugstore {
		t.Fatalf("Groups = %v, want [supermarkt drogisterij]", got)
	}
	for _, g := range plan.Groups {
		if !g.ShowHeader {
			t.Errorf("Group %q should show a header", g.Category)
		}
	}
	if plan.Groups[0].Cards[0].ID != "a1" || plan.Groups[0].Cards[1].ID != "a2" {
		t.Error("Insertion order not preserved inside group")
	}
}

func TestBuild_SingleGroupHasNoHeader(t *testing.T) {
	cards := []model.Card{card("1", model.CategoryHome), card("2", model.CategoryHome)}

	plan := Build(cards, model.FilterAll)
	if len(plan.Groups) != 1 || plan.Groups[0].ShowHeader {
		t.Errorf("Expected one headerless group, got %+v", plan.Groups)
	}
}

func TestBuild_SpecificFilter(t *testing.T) {
	cards := []model.Card{
		card("a1", model.CategorySupermarket),
		card("c1", model.CategoryDrugstore),
		card("a2", model.CategorySupermarket),
	}

	plan := Build(cards, string(model.CategorySupermarket))
	if plan.State != StateGrid || len(plan.Groups) != 1 {
		t.Fatalf("Unexpected plan: %+v", plan)
	}
	if plan.Groups[0].ShowHeader {
		t.Error("Specific filter should never show headers")
	}
	if plan.Visible() != 2 {
		t.Errorf("Visible = %d, want 2", plan.Visible())
	}
}

func TestBuild_States(t *testing.T) {
	cards := []model.Card{card("a1", model.CategorySupermarket), card("c1", model.CategoryDrugstore)}

	tests := []struct {
		name   string
		cards  []model.Card
		filter string
		want   State
	}{
		{"empty collection", nil, model.FilterAll, StateEmpty},
		{"empty collection with filter", nil, "kleding", StateEmpty},
		{"filter excludes all", cards, "kleding", StateNoMatches},
		{"unknown filter", cards, "tuin", StateNoMatches},
		{"blank filter means all", cards, "", StateGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Build(tt.cards, tt.filter).State; got != tt.want {
				t.Errorf("State = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuild_UnnormalizedCategoryUsesFallback(t *testing.T) {
	cards := []model.Card{{ID: "1", StoreName: "X", BarcodeNumber: "1", Category: ""}}

	plan := Build(cards, string(model.CategoryOther))
	if plan.State != StateGrid {
		t.Errorf("Card without category should show under overig, got %v", plan.State)
	}
}

func TestHTML_EscapesUserText(t *testing.T) {
	c := card("1", model.CategorySupermarket)
	c.StoreName = "<script>alert(1)</script>"
	c.BarcodeNumber = `"><img src=x>`

	out, err := HTML(Build([]model.Card{c}, model.FilterAll))
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "<script>") || strings.Contains(s, "<img") {
		t.Errorf("User text rendered as markup:\n%s", s)
	}
	if !strings.Contains(s, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Errorf("Expected escaped store name in output:\n%s", s)
	}
}

func TestHTML_CardMarkup(t *testing.T) {
	c := model.Card{ID: "abc", StoreName: "Jumbo", BarcodeNumber: "8712345678906", Color: "#43B97F", Category: model.CategorySupermarket}

	out, err := HTML(Build([]model.Card{c}, model.FilterAll))
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	s := string(out)
	for _, want := range []string{`data-id="abc"`, "#43B97F", ">J<", "Supermarkt", "8712345678906"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q in output:\n%s", want, s)
		}
	}
	if strings.Contains(s, "category-group-header") {
		t.Error("Single group should not render a header")
	}
}

func TestHTML_Placeholders(t *testing.T) {
	empty, _ := HTML(Build(nil, model.FilterAll))
	if !strings.Contains(string(empty), EmptyText) || strings.Contains(string(empty), NoMatchesText) {
		t.Errorf("Empty collection should render the empty-state placeholder only:\n%s", empty)
	}

	cards := []model.Card{card("1", model.CategoryHome)}
	none, _ := HTML(Build(cards, "kleding"))
	if !strings.Contains(string(none), NoMatchesText) || strings.Contains(string(none), EmptyText) {
		t.Errorf("Filtered-out collection should render the no-matches placeholder only:\n%s", none)
	}
}

func TestHTML_Headers(t *testing.T) {
	cards := []model.Card{card("1", model.CategoryHome), card("2", model.CategoryClothing)}

	out, _ := HTML(Build(cards, model.FilterAll))
	s := string(out)
	if strings.Count(s, "category-group-header") != 2 {
		t.Errorf("Expected two headers:\n%s", s)
	}
	if strings.Index(s, "Kleding") > strings.Index(s, "Wonen") {
		t.Error("Kleding header should come before Wonen")
	}
}

func TestFilterBar(t *testing.T) {
	out, err := FilterBar("wonen")
	if err != nil {
		t.Fatalf("FilterBar failed: %v", err)
	}
	s := string(out)
	if strings.Count(s, "data-filter=") != len(model.Categories)+1 {
		t.Errorf("Expected a chip per category plus all:\n%s", s)
	}
	if !strings.Contains(s, `filter-chip active" data-filter="wonen"`) {
		t.Errorf("Expected wonen chip active:\n%s", s)
	}

	fallback, _ := FilterBar("tuin")
	if !strings.Contains(string(fallback), `filter-chip active" data-filter="all"`) {
		t.Errorf("Unknown filter should mark all active:\n%s", fallback)
	}
}
