package cli

import (
	"context"
	"strings"

	"github.com/amterp/ra"
	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/prompt"
)

func registerAdd(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("add")
	cmd.SetDescription("Add a loyalty card")

	ctx.AddStore, _ = ra.NewString("store").
		SetOptional(true).
		SetUsage("Store name").
		Register(cmd)

	ctx.AddNumber, _ = ra.NewString("number").
		SetOptional(true).
		SetUsage("Card number shown as the barcode").
		Register(cmd)

	ctx.AddCategory, _ = ra.NewString("category").
		SetShort("c").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Category key or label (default: overig)").
		SetCompletionFunc(completeCategories).
		Register(cmd)

	ctx.AddColor, _ = ra.NewString("color").
		SetShort("k").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Palette color name or hex (default: paars)").
		SetCompletionFunc(completeColors).
		Register(cmd)

	ctx.AddUsed, _ = parent.RegisterCmd(cmd)
}

func runAdd(opts globalOptions, storeName, number, category, color string) {
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	card, err := addCard(context.Background(), app, addInput{
		StoreName: storeName,
		Number:    number,
		Category:  category,
		Color:     color,
	})
	if err != nil {
		Fatal(err)
	}

	if opts.json {
		if err := printJson(NewCardOutput(card)); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Added %s %s to %s", RenderBold(card.StoreName), RenderID(card.ID), RenderCategory(card.Category))
}

// addInput is what the user typed; empty fields are prompted for.
type addInput struct {
	StoreName string
	Number    string
	Category  string
	Color     string
}

// addCard fills missing input from prompts and stores the card.
// In non-interactive mode category and color fall back to their defaults.
func addCard(ctx context.Context, app *App, in addInput) (model.Card, error) {
	storeName, err := requireText(app, "Winkel", "store name", in.StoreName)
	if err != nil {
		return model.Card{}, err
	}
	number, err := requireText(app, "Kaartnummer", "barcode number", in.Number)
	if err != nil {
		return model.Card{}, err
	}

	draft := model.Draft{StoreName: storeName, BarcodeNumber: number}
	if in.Category != "" || app.Interactive {
		draft.Category, err = app.CategoryResolver.Resolve(in.Category, app.Interactive)
		if err != nil {
			return model.Card{}, err
		}
	}
	if in.Color != "" || app.Interactive {
		draft.Color, err = app.ColorResolver.Resolve(in.Color, app.Interactive)
		if err != nil {
			return model.Card{}, err
		}
	}

	return app.CardStore.Add(ctx, draft)
}

// requireText returns value, prompting for it when empty and allowed.
func requireText(app *App, title, field, value string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	if !app.Interactive {
		return "", kanerr.InvalidField(field, "required in non-interactive mode")
	}
	value, err := app.Prompter.Input(title, "")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(value) == "" {
		return "", kanerr.InvalidField(field, prompt.ErrEmptyInput.Error())
	}
	return value, nil
}
