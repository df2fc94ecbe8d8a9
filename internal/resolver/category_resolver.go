package resolver

import (
	"fmt"

	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/prompt"
	"github.com/pasjesplank/plank/internal/util"
)

// CategoryResolver turns user input into a category, prompting when allowed.
type CategoryResolver struct {
	prompter prompt.Prompter
}

// NewCategoryResolver creates a new category resolver.
func NewCategoryResolver(prompter prompt.Prompter) *CategoryResolver {
	return &CategoryResolver{prompter: prompter}
}

// Resolve determines the category:
// 1. If explicit input given, match it against keys and labels
// 2. If interactive, prompt the user
// 3. Otherwise, fail
func (r *CategoryResolver) Resolve(explicit string, interactive bool) (model.Category, error) {
	if explicit != "" {
		return LookupCategory(explicit)
	}
	if !interactive {
		return "", kanerr.InvalidField("category", "required in non-interactive mode")
	}

	options := make([]prompt.Option, len(model.Categories))
	for i, c := range model.Categories {
		options[i] = prompt.Option{Label: fmt.Sprintf("%s %s", c.Glyph, c.Label), Value: string(c.Key)}
	}
	choice, err := r.prompter.Select("Categorie", options)
	if err != nil {
		return "", err
	}
	return LookupCategory(choice)
}

// LookupCategory matches a key or label, ignoring case and accents.
func LookupCategory(input string) (model.Category, error) {
	slug := util.Slugify(input)
	for _, c := range model.Categories {
		if slug == string(c.Key) || slug == util.Slugify(c.Label) {
			return c.Key, nil
		}
	}
	return "", kanerr.CategoryNotFound(input)
}

// ColorResolver turns user input into a palette color, prompting when allowed.
type ColorResolver struct {
	prompter prompt.Prompter
}

// NewColorResolver creates a new color resolver.
func NewColorResolver(prompter prompt.Prompter) *ColorResolver {
	return &ColorResolver{prompter: prompter}
}

// Resolve returns the canonical hex for a palette name or hex value.
func (r *ColorResolver) Resolve(explicit string, interactive bool) (string, error) {
	if explicit != "" {
		hex, ok := model.LookupColor(explicit)
		if !ok {
			return "", kanerr.ColorNotFound(explicit)
		}
		return hex, nil
	}
	if !interactive {
		return "", kanerr.InvalidField("color", "required in non-interactive mode")
	}

	options := make([]prompt.Option, len(model.Palette))
	for i, c := range model.Palette {
		options[i] = prompt.Option{Label: fmt.Sprintf("%s (%s)", c.Name, c.Hex), Value: c.Hex}
	}
	return r.prompter.Select("Kleur", options)
}
