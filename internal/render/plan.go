// Package render turns the card collection and the active filter into a
// display plan: which cards show, in which groups, and with which headers.
// Shells (the web grid, the terminal list) draw the plan; none of them filter
// or group on their own.
package render

import "github.com/pasjesplank/plank/internal/model"

// State says which of the three grid states applies.
type State int

const (
	// StateEmpty means the collection has no cards at all.
	StateEmpty State = iota
	// StateNoMatches means there are cards but the filter excludes all of them.
	StateNoMatches
	// StateGrid means at least one card is visible.
	StateGrid
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateNoMatches:
		return "no_matches"
	default:
		return "grid"
	}
}

// Group is a run of cards sharing a category.
type Group struct {
	Category   model.Category
	Cards      []model.Card
	ShowHeader bool
}

// Plan is the result of filtering and grouping a collection.
type Plan struct {
	State  State
	Filter string
	Groups []Group
}

// Visible returns the number of cards in the plan.
func (p Plan) Visible() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Cards)
	}
	return n
}

// Build filters and groups cards.
//
// Groups follow the canonical category order and only non-empty groups are
// kept; cards inside a group keep their insertion order. Headers appear only
// for the "all" filter and only when more than one group is visible. Any other
// filter value selects that category; an unknown value matches nothing.
func Build(cards []model.Card, filter string) Plan {
	if filter == "" {
		filter = model.FilterAll
	}
	plan := Plan{Filter: filter}

	if len(cards) == 0 {
		plan.State = StateEmpty
		return plan
	}

	for _, info := range model.Categories {
		if filter != model.FilterAll && string(info.Key) != filter {
			continue
		}
		var members []model.Card
		for _, c := range cards {
			if model.ResolveCategory(string(c.Category)) == info.Key {
				members = append(members, c)
			}
		}
		if len(members) > 0 {
			plan.Groups = append(plan.Groups, Group{Category: info.Key, Cards: members})
		}
	}

	if len(plan.Groups) == 0 {
		plan.State = StateNoMatches
		return plan
	}

	plan.State = StateGrid
	if filter == model.FilterAll && len(plan.Groups) > 1 {
		for i := range plan.Groups {
			plan.Groups[i].ShowHeader = true
		}
	}
	return plan
}
