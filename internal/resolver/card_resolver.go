package resolver

import (
	"context"
	"fmt"
	"strings"

	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/store"
	"github.com/pasjesplank/plank/internal/util"
)

// CardResolver handles card ID and store-name resolution.
type CardResolver struct {
	cardStore store.CardStore
}

// NewCardResolver creates a new card resolver.
func NewCardResolver(cardStore store.CardStore) *CardResolver {
	return &CardResolver{cardStore: cardStore}
}

// Resolve finds a card by ID or store name.
// Tries exact ID match first, then the slugged store name, then a unique
// slug prefix ("albert" finds "Albert Heijn").
func (r *CardResolver) Resolve(ctx context.Context, idOrName string) (model.Card, error) {
	cards, err := r.cardStore.List(ctx)
	if err != nil {
		return model.Card{}, err
	}

	for _, c := range cards {
		if c.ID == idOrName {
			return c, nil
		}
	}

	slug := util.Slugify(idOrName)
	if slug == "" {
		return model.Card{}, kanerr.CardNotFound(idOrName)
	}

	var exact, prefix []model.Card
	for _, c := range cards {
		cardSlug := util.Slugify(c.StoreName)
		switch {
		case cardSlug == slug:
			exact = append(exact, c)
		case strings.HasPrefix(cardSlug, slug):
			prefix = append(prefix, c)
		}
	}

	for _, matches := range [][]model.Card{exact, prefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return model.Card{}, ambiguous(idOrName, matches)
		}
	}
	return model.Card{}, kanerr.CardNotFound(idOrName)
}

func ambiguous(input string, matches []model.Card) error {
	names := make([]string, len(matches))
	for i, c := range matches {
		names[i] = fmt.Sprintf("%s (%s)", c.StoreName, c.ID)
	}
	return kanerr.InvalidField("card", fmt.Sprintf("%q matches several cards: %s; use the id", input, strings.Join(names, ", ")))
}
