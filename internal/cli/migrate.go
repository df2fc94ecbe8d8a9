package cli

import (
	"context"
	"fmt"

	"github.com/amterp/ra"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/service"
)

var migrateBackends = []string{model.BackendFile, model.BackendSQLite, model.BackendS3}

func registerMigrate(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("migrate")
	cmd.SetDescription("Copy the card collection to another storage backend and switch to it")

	ctx.MigrateTo, _ = ra.NewString("to").
		SetUsage("Target backend").
		SetEnumConstraint(migrateBackends).
		Register(cmd)

	ctx.MigratePath, _ = ra.NewString("path").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Data directory (file) or database file (sqlite) for the target").
		Register(cmd)

	ctx.MigrateDryRun, _ = ra.NewBool("dry-run").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Show what would be copied without writing anything").
		Register(cmd)

	ctx.MigrateForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Replace cards already present in the target").
		Register(cmd)

	ctx.MigrateUsed, _ = parent.RegisterCmd(cmd)
}

func runMigrate(opts globalOptions, backend, path string, dryRun, force bool) {
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	ctx := context.Background()

	target := app.Config.Storage
	target.Backend = backend
	target.Path = path
	if target == app.Config.Storage {
		PrintSuccess("Already using %s storage. No migration needed.", backend)
		return
	}
	if backend == model.BackendS3 && target.S3.Bucket == "" {
		Fatal(fmt.Errorf("set [storage.s3] bucket in %s before migrating to s3", app.Paths.ConfigPath()))
	}

	to, err := medium.Open(ctx, target, app.Paths)
	if err != nil {
		Fatal(fmt.Errorf("failed to open %s storage: %w", backend, err))
	}
	defer to.Close()

	migrateService := service.NewMigrateService(app.Medium, to, target.Slot)
	plan, err := migrateService.Plan(ctx)
	if err != nil {
		Fatal(err)
	}

	if dryRun {
		fmt.Println(RenderBold("Migration plan (dry run):"))
		fmt.Println()
	}
	fmt.Printf("  %s -> %s: %d card(s)\n", app.Config.Storage.Backend, backend, len(plan.Cards))
	if plan.TargetCards > 0 {
		PrintWarning("target already holds %d card(s)", plan.TargetCards)
	}

	if err := migrateService.Execute(ctx, plan, dryRun, force); err != nil {
		Fatal(fmt.Errorf("%w (use --force to replace them)", err))
	}
	if dryRun {
		return
	}

	cfg := *app.Config
	cfg.Storage = target
	if err := app.ConfigStore.Save(&cfg); err != nil {
		Fatal(fmt.Errorf("cards copied, but saving the config failed: %w", err))
	}

	fmt.Println()
	PrintSuccess("Migration complete. Now using %s storage.", backend)
}
