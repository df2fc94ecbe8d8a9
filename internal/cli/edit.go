package cli

import (
	"context"

	"github.com/amterp/ra"
	"github.com/pasjesplank/plank/internal/model"
)

func registerColor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("color")
	cmd.SetDescription("Change a card's color")

	ctx.ColorCard, _ = ra.NewString("card").
		SetUsage("Card ID or store name").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.ColorValue, _ = ra.NewString("color").
		SetOptional(true).
		SetUsage("Palette color name or hex (prompted if omitted)").
		SetCompletionFunc(completeColors).
		Register(cmd)

	ctx.ColorUsed, _ = parent.RegisterCmd(cmd)
}

func registerMove(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("move")
	cmd.SetDescription("Move a card to another category")

	ctx.MoveCard, _ = ra.NewString("card").
		SetUsage("Card ID or store name").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.MoveCategory, _ = ra.NewString("category").
		SetOptional(true).
		SetUsage("Target category (prompted if omitted)").
		SetCompletionFunc(completeCategories).
		Register(cmd)

	ctx.MoveUsed, _ = parent.RegisterCmd(cmd)
}

func runColor(opts globalOptions, cardArg, color string) {
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	card, err := recolorCard(context.Background(), app, cardArg, color)
	if err != nil {
		Fatal(err)
	}
	printEdited(opts, card, "Colored %s %s", RenderCardColor(card.StoreName, card.Color), model.ColorName(card.Color))
}

func runMove(opts globalOptions, cardArg, category string) {
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	card, err := moveCard(context.Background(), app, cardArg, category)
	if err != nil {
		Fatal(err)
	}
	printEdited(opts, card, "Moved %s to %s", RenderBold(card.StoreName), RenderCategory(card.Category))
}

// recolorCard resolves the card and color and persists the change.
// Returns the card as stored afterwards.
func recolorCard(ctx context.Context, app *App, cardArg, color string) (model.Card, error) {
	card, err := app.CardResolver.Resolve(ctx, cardArg)
	if err != nil {
		return model.Card{}, err
	}
	hex, err := app.ColorResolver.Resolve(color, app.Interactive)
	if err != nil {
		return model.Card{}, err
	}
	if err := app.CardStore.UpdateColor(ctx, card.ID, hex); err != nil {
		return model.Card{}, err
	}
	return app.CardStore.Get(ctx, card.ID)
}

// moveCard resolves the card and category and persists the change.
func moveCard(ctx context.Context, app *App, cardArg, category string) (model.Card, error) {
	card, err := app.CardResolver.Resolve(ctx, cardArg)
	if err != nil {
		return model.Card{}, err
	}
	target, err := app.CategoryResolver.Resolve(category, app.Interactive)
	if err != nil {
		return model.Card{}, err
	}
	if err := app.CardStore.UpdateCategory(ctx, card.ID, target); err != nil {
		return model.Card{}, err
	}
	return app.CardStore.Get(ctx, card.ID)
}

func printEdited(opts globalOptions, card model.Card, format string, args ...any) {
	if opts.json {
		if err := printJson(NewCardOutput(card)); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess(format, args...)
}
