package cli

import (
	"reflect"
	"testing"

	"github.com/pasjesplank/plank/internal/model"
)

func TestDataDirFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"long flag equals", []string{"plank", "show", "--data=/tmp/a", "card1"}, "/tmp/a"},
		{"short flag equals", []string{"plank", "show", "-d=/tmp/b", "card1"}, "/tmp/b"},
		{"long flag space", []string{"plank", "show", "--data", "/tmp/c", "card1"}, "/tmp/c"},
		{"short flag space", []string{"plank", "show", "-d", "/tmp/d", "card1"}, "/tmp/d"},
		{"no flag", []string{"plank", "show", "card1"}, ""},
		{"nil args", nil, ""},
		{"empty equals value", []string{"plank", "show", "--data=", "card1"}, ""},
		{"flag at end", []string{"plank", "show", "--data"}, ""},
		{"flag after positional", []string{"plank", "show", "card1", "-d", "/tmp/e"}, "/tmp/e"},
		{"first flag wins", []string{"plank", "show", "-d", "first", "-d", "second"}, "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dataDirFromArgs(tt.args); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMatchCards(t *testing.T) {
	cards := []model.Card{
		{ID: "a1b2", StoreName: "Albert Heijn"},
		{ID: "c3d4", StoreName: "HEMA"},
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"a", []string{"a1b2", "albert-heijn"}},
		{"Alb", []string{"albert-heijn"}},
		{"c3", []string{"c3d4"}},
		{"hem", []string{"hema"}},
		{"x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := matchCards(cards, tt.prefix)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCompleteCategoriesAndColors(t *testing.T) {
	cats, _ := completeCategories("k")
	if !reflect.DeepEqual(cats, []string{"kleding"}) {
		t.Errorf("Expected [kleding], got %v", cats)
	}

	colors, _ := completeColors("g")
	if !reflect.DeepEqual(colors, []string{"groen", "geel"}) {
		t.Errorf("Expected [groen geel], got %v", colors)
	}
}
