package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool
	JsonOutput     *bool
	DataDir        *string

	// init command
	InitUsed    *bool
	InitBackend *string
	InitPath    *string
	InitBucket  *string
	InitRegion  *string

	// add command
	AddUsed     *bool
	AddStore    *string
	AddNumber   *string
	AddCategory *string
	AddColor    *string

	// list command
	ListUsed     *bool
	ListCategory *string

	// show command
	ShowUsed *bool
	ShowCard *string
	ShowSVG  *bool

	// delete command
	DeleteUsed  *bool
	DeleteCard  *string
	DeleteForce *bool

	// color command
	ColorUsed  *bool
	ColorCard  *string
	ColorValue *string

	// move command
	MoveUsed     *bool
	MoveCard     *string
	MoveCategory *string

	// scan command
	ScanUsed     *bool
	ScanName     *string
	ScanCategory *string
	ScanColor    *string

	// categories command
	CategoriesUsed *bool

	// serve command
	ServeUsed   *bool
	ServePort   *int
	ServeNoOpen *bool

	// doctor command
	DoctorUsed   *bool
	DoctorFix    *bool
	DoctorDryRun *bool

	// migrate command
	MigrateUsed   *bool
	MigrateTo     *string
	MigratePath   *string
	MigrateDryRun *bool
	MigrateForce  *bool

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("plank")
	cmd.SetDescription("Loyalty cards in your pocket")

	// Global flag for non-interactive mode
	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	ctx.JsonOutput, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print machine-readable JSON").
		Register(cmd, ra.WithGlobal(true))

	ctx.DataDir, _ = ra.NewString("data").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Directory holding the card collection (overrides config)").
		Register(cmd, ra.WithGlobal(true))

	// Register all subcommands
	registerInit(cmd, ctx)
	registerAdd(cmd, ctx)
	registerList(cmd, ctx)
	registerShow(cmd, ctx)
	registerDelete(cmd, ctx)
	registerColor(cmd, ctx)
	registerMove(cmd, ctx)
	registerScan(cmd, ctx)
	registerCategories(cmd, ctx)
	registerServe(cmd, ctx)
	registerDoctor(cmd, ctx)
	registerMigrate(cmd, ctx)
	registerCompletion(cmd, ctx)

	// Parse command line
	cmd.ParseOrExit(os.Args[1:])

	// Execute the appropriate command
	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, rootCmd *ra.Cmd) {
	opts := globalOptions{
		interactive: !*ctx.NonInteractive,
		json:        *ctx.JsonOutput,
		dataDir:     *ctx.DataDir,
	}

	switch {
	case *ctx.InitUsed:
		runInit(opts, *ctx.InitBackend, *ctx.InitPath, *ctx.InitBucket, *ctx.InitRegion)

	case *ctx.AddUsed:
		runAdd(opts, *ctx.AddStore, *ctx.AddNumber, *ctx.AddCategory, *ctx.AddColor)

	case *ctx.ListUsed:
		runList(opts, *ctx.ListCategory)

	case *ctx.ShowUsed:
		runShow(opts, *ctx.ShowCard, *ctx.ShowSVG)

	case *ctx.DeleteUsed:
		runDelete(opts, *ctx.DeleteCard, *ctx.DeleteForce)

	case *ctx.ColorUsed:
		runColor(opts, *ctx.ColorCard, *ctx.ColorValue)

	case *ctx.MoveUsed:
		runMove(opts, *ctx.MoveCard, *ctx.MoveCategory)

	case *ctx.ScanUsed:
		runScan(opts, *ctx.ScanName, *ctx.ScanCategory, *ctx.ScanColor)

	case *ctx.CategoriesUsed:
		runCategories(opts)

	case *ctx.ServeUsed:
		if opts.json {
			warnJsonNotSupported("serve")
		}
		runServe(opts, *ctx.ServePort, *ctx.ServeNoOpen)

	case *ctx.DoctorUsed:
		runDoctor(opts, *ctx.DoctorFix, *ctx.DoctorDryRun)

	case *ctx.MigrateUsed:
		if opts.json {
			warnJsonNotSupported("migrate")
		}
		runMigrate(opts, *ctx.MigrateTo, *ctx.MigratePath, *ctx.MigrateDryRun, *ctx.MigrateForce)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, rootCmd)
	}
}

// globalOptions carries the global flags into each command.
type globalOptions struct {
	interactive bool
	json        bool
	dataDir     string
}
