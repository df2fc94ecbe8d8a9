package store

import (
	"context"

	"github.com/pasjesplank/plank/internal/model"
)

// CardStore handles card persistence. The whole collection lives in one
// medium slot and every mutation rewrites it.
type CardStore interface {
	List(ctx context.Context) ([]model.Card, error)
	Get(ctx context.Context, id string) (model.Card, error)
	Add(ctx context.Context, draft model.Draft) (model.Card, error)
	Remove(ctx context.Context, id string) error
	UpdateCategory(ctx context.Context, id string, category model.Category) error
	UpdateColor(ctx context.Context, id string, color string) error

	// Subscribe registers fn to run after each successful persist.
	// The returned func unregisters it.
	Subscribe(fn func()) (unsubscribe func())
}

// ConfigStore handles config persistence.
type ConfigStore interface {
	Load() (*model.Config, error)
	Save(cfg *model.Config) error
	EnsureExists() error
}
