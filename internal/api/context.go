package api

import (
	"context"
	"fmt"

	"github.com/pasjesplank/plank/internal/barcode"
	"github.com/pasjesplank/plank/internal/config"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/metrics"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/offline"
	"github.com/pasjesplank/plank/internal/session"
	"github.com/pasjesplank/plank/internal/store"
)

// AppContext bundles everything the HTTP handlers and UI sessions share.
type AppContext struct {
	Paths    *config.Paths
	Config   *model.Config
	Cards    store.CardStore
	Barcodes *barcode.Renderer
	Metrics  *metrics.Registry
	Session  session.Options
	Manifest offline.Manifest

	// WatchDir is the directory holding the collection file. Empty when the
	// backend is not the file medium, which disables file watching.
	WatchDir string
	Slot     string

	medium medium.Medium
}

// BuildAppContext opens the configured medium and wires the card store on top
// of it. It performs no writes; the collection is created on first mutation.
func BuildAppContext(ctx context.Context, cfg *model.Config, paths *config.Paths, reg *metrics.Registry) (*AppContext, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	m, err := medium.Open(ctx, cfg.Storage, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	cards := store.NewCardStore(m,
		store.WithSlot(cfg.Storage.Slot),
		store.WithMetrics(reg),
	)

	return &AppContext{
		Paths:    paths,
		Config:   cfg,
		Cards:    cards,
		Barcodes: barcode.NewRenderer(barcode.OptionsFrom(cfg.Barcode)),
		Metrics:  reg,
		Session:  session.OptionsFrom(cfg),
		Manifest: offline.DefaultManifest(),
		WatchDir: medium.FileDir(cfg.Storage, paths),
		Slot:     cfg.Storage.Slot,
		medium:   m,
	}, nil
}

// Close releases the storage medium.
func (c *AppContext) Close() error {
	if c.medium == nil {
		return nil
	}
	return c.medium.Close()
}
