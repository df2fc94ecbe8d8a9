package service

import (
	"context"
	"fmt"

	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/model"
)

// MigrateService copies the card collection from one storage backend to
// another. Uses the raw media to bypass store notifications.
type MigrateService struct {
	from medium.Medium
	to   medium.Medium
	slot string
}

// NewMigrateService creates a new migration service.
func NewMigrateService(from, to medium.Medium, slot string) *MigrateService {
	if slot == "" {
		slot = model.DefaultSlot
	}
	return &MigrateService{from: from, to: to, slot: slot}
}

// MigrationPlan describes what a migration would do.
type MigrationPlan struct {
	Slot         string
	Cards        []model.Card
	TargetExists bool
	TargetCards  int
}

// HasChanges reports whether executing the plan would write anything.
func (p *MigrationPlan) HasChanges() bool {
	return len(p.Cards) > 0 || p.TargetCards > 0
}

// Plan reads both sides. A malformed source is an error: migrating it would
// silently replace the target with an empty list.
func (s *MigrateService) Plan(ctx context.Context) (*MigrationPlan, error) {
	plan := &MigrationPlan{Slot: s.slot, Cards: []model.Card{}}

	data, err := s.from.Get(ctx, s.slot)
	if err != nil {
		return nil, fmt.Errorf("failed to read source collection: %w", err)
	}
	if data != nil {
		cards, err := model.DecodeCollection(data)
		if err != nil {
			return nil, kanerr.InvalidField("source", fmt.Sprintf("collection is malformed (%v); run 'plank doctor --fix' first", err))
		}
		plan.Cards = cards
	}

	target, err := s.to.Get(ctx, s.slot)
	if err != nil {
		return nil, fmt.Errorf("failed to read target collection: %w", err)
	}
	if target != nil {
		plan.TargetExists = true
		if cards, err := model.DecodeCollection(target); err == nil {
			plan.TargetCards = len(cards)
		}
	}

	return plan, nil
}

// Execute writes the planned collection to the target. A target that already
// holds cards is only replaced when overwrite is set.
func (s *MigrateService) Execute(ctx context.Context, plan *MigrationPlan, dryRun, overwrite bool) error {
	if plan.TargetCards > 0 && !overwrite {
		return kanerr.CollectionAlreadyExists(plan.Slot)
	}
	if dryRun {
		return nil
	}

	data, err := model.EncodeCollection(plan.Cards)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := s.to.Put(ctx, s.slot, data); err != nil {
		return fmt.Errorf("failed to write target collection: %w", err)
	}
	return nil
}
