package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/amterp/ra"
	"github.com/pasjesplank/plank/internal/config"
	"github.com/pasjesplank/plank/internal/medium"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/store"
	"github.com/pasjesplank/plank/internal/util"
)

// completionCtx provides lightweight store access for shell completion.
// Completion functions run during ParseOrExit, before NewApp() is called,
// so we can't use the full App. This initializes just enough to list cards.
type completionCtx struct {
	once  sync.Once
	cards store.CardStore
	err   error
}

var compCtx completionCtx

func initCompletionCtx() {
	compCtx.once.Do(func() {
		paths := config.DefaultPaths()
		cfg, err := store.NewConfigStore(paths).Load()
		if err != nil {
			// Graceful degradation: no completions if config is broken
			compCtx.err = err
			return
		}

		// Remote backends are too slow to query on every tab press.
		if cfg.Storage.Backend == model.BackendS3 {
			compCtx.err = fmt.Errorf("no completion for %s storage", cfg.Storage.Backend)
			return
		}

		paths, cfg = applyDataDir(paths, cfg, dataDirFromArgs(os.Args))
		m, err := medium.Open(context.Background(), cfg.Storage, paths)
		if err != nil {
			compCtx.err = err
			return
		}
		compCtx.cards = store.NewCardStore(m, store.WithSlot(cfg.Storage.Slot))
	})
}

// completeCards returns card IDs and store-name slugs matching the given prefix.
func completeCards(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()
	if compCtx.err != nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}

	cards, err := compCtx.cards.List(context.Background())
	if err != nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}
	return matchCards(cards, toComplete), ra.CompletionDirectiveNoFileComp
}

func matchCards(cards []model.Card, toComplete string) []string {
	var result []string
	for _, card := range cards {
		if strings.HasPrefix(card.ID, toComplete) {
			result = append(result, card.ID)
		}
		name := util.Slugify(card.StoreName)
		if name != "" && strings.HasPrefix(name, strings.ToLower(toComplete)) {
			result = append(result, name)
		}
	}
	return result
}

// completeCategories returns category keys matching the given prefix.
func completeCategories(toComplete string) ([]string, ra.CompletionDirective) {
	var result []string
	for _, c := range model.Categories {
		if strings.HasPrefix(string(c.Key), toComplete) {
			result = append(result, string(c.Key))
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

// completeColors returns palette color names matching the given prefix.
func completeColors(toComplete string) ([]string, ra.CompletionDirective) {
	var result []string
	for _, c := range model.Palette {
		if strings.HasPrefix(c.Name, toComplete) {
			result = append(result, c.Name)
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

// dataDirFromArgs scans the argument list for an explicit -d/--data flag value.
func dataDirFromArgs(args []string) string {
	for i, arg := range args {
		// --data=value or -d=value (skip empty values so fallback logic runs)
		if strings.HasPrefix(arg, "--data=") {
			if v := strings.TrimPrefix(arg, "--data="); v != "" {
				return v
			}
		}
		if strings.HasPrefix(arg, "-d=") {
			if v := strings.TrimPrefix(arg, "-d="); v != "" {
				return v
			}
		}
		// --data value or -d value
		if (arg == "--data" || arg == "-d") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// registerCompletion adds the "plank completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
