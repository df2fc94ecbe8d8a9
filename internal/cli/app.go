package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pasjesplank/plank/internal/barcode"
	"github.com/pasjesplank/plank/internal/config"
	"github.com/pasjesplank/plank/internal/logger"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/prompt"
	"github.com/pasjesplank/plank/internal/resolver"
	"github.com/pasjesplank/plank/internal/store"
)

// App holds all the dependencies for the CLI.
// Uses interfaces for testability.
type App struct {
	Paths            *config.Paths
	ConfigStore      store.ConfigStore
	Config           *model.Config
	Medium           medium.Medium
	CardStore        store.CardStore
	Barcodes         *barcode.Renderer
	Prompter         prompt.Prompter
	CardResolver     *resolver.CardResolver
	CategoryResolver *resolver.CategoryResolver
	ColorResolver    *resolver.ColorResolver
	Interactive      bool
}

// NewApp creates a new App with all dependencies wired up.
// If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(opts globalOptions) (*App, error) {
	paths := config.DefaultPaths()
	configStore := store.NewConfigStore(paths)

	cfg, err := configStore.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Env)

	paths, cfg = applyDataDir(paths, cfg, opts.dataDir)

	m, err := medium.Open(context.Background(), cfg.Storage, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	var prompter prompt.Prompter
	if opts.interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	return newApp(paths, configStore, cfg, m, prompter, opts.interactive), nil
}

// newApp wires an App around an opened medium. Tests use it with a memory medium.
func newApp(paths *config.Paths, configStore store.ConfigStore, cfg *model.Config, m medium.Medium, prompter prompt.Prompter, interactive bool) *App {
	cardStore := store.NewCardStore(m, store.WithSlot(cfg.Storage.Slot))

	return &App{
		Paths:            paths,
		ConfigStore:      configStore,
		Config:           cfg,
		Medium:           m,
		CardStore:        cardStore,
		Barcodes:         barcode.NewRenderer(barcode.OptionsFrom(cfg.Barcode)),
		Prompter:         prompter,
		CardResolver:     resolver.NewCardResolver(cardStore),
		CategoryResolver: resolver.NewCategoryResolver(prompter),
		ColorResolver:    resolver.NewColorResolver(prompter),
		Interactive:      interactive,
	}
}

// applyDataDir points local backends at the --data directory.
func applyDataDir(paths *config.Paths, cfg *model.Config, dataDir string) (*config.Paths, *model.Config) {
	if dataDir == "" {
		return paths, cfg
	}
	switch cfg.Storage.Backend {
	case "", model.BackendFile, model.BackendSQLite:
		cfg.Storage.Path = ""
	}
	return paths.WithDataDir(dataDir), cfg
}

// Close releases the storage medium.
func (a *App) Close() {
	if a.Medium == nil {
		return
	}
	if err := a.Medium.Close(); err != nil {
		logger.Get().Warnw("failed to close storage", "error", err)
	}
}

// Fatal prints an error and exits.
func Fatal(err error) {
	PrintError("%v", err)
	logger.Sync()
	os.Exit(1)
}
