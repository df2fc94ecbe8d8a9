package cli

import (
	"context"
	"fmt"

	"github.com/amterp/ra"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/render"
	"github.com/pasjesplank/plank/internal/resolver"
)

func registerList(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("list")
	cmd.SetDescription("List cards grouped by category")

	ctx.ListCategory, _ = ra.NewString("category").
		SetShort("c").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Only show this category").
		SetCompletionFunc(completeCategories).
		Register(cmd)

	ctx.ListUsed, _ = parent.RegisterCmd(cmd)
}

func runList(opts globalOptions, category string) {
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	plan, err := listPlan(context.Background(), app, category)
	if err != nil {
		Fatal(err)
	}

	if opts.json {
		if err := printJson(NewListOutput(plan)); err != nil {
			Fatal(err)
		}
		return
	}
	printPlan(plan)
}

// listPlan loads the collection and applies the category filter.
func listPlan(ctx context.Context, app *App, category string) (render.Plan, error) {
	filter := model.FilterAll
	if category != "" && category != model.FilterAll {
		c, err := resolver.LookupCategory(category)
		if err != nil {
			return render.Plan{}, err
		}
		filter = string(c)
	}

	cards, err := app.CardStore.List(ctx)
	if err != nil {
		return render.Plan{}, err
	}
	return render.Build(cards, filter), nil
}

func printPlan(plan render.Plan) {
	switch plan.State {
	case render.StateEmpty:
		PrintInfo("Nog geen klantenkaarten. Add one with 'plank add'")
		return
	case render.StateNoMatches:
		PrintInfo("Geen kaarten in %s", RenderCategory(model.Category(plan.Filter)))
		return
	}

	for _, group := range plan.Groups {
		if group.ShowHeader {
			header := RenderBold(RenderCategory(group.Category))
			countStr := RenderMuted(fmt.Sprintf("(%d)", len(group.Cards)))
			fmt.Printf("\n%s %s\n", header, countStr)
		}
		for _, card := range group.Cards {
			printCardLine(card)
		}
	}
}

func printCardLine(card model.Card) {
	fmt.Printf("  %s %s  %s  %s\n",
		Badge(card),
		RenderCardColor(card.StoreName, card.Color),
		RenderMuted(card.BarcodeNumber),
		RenderID(card.ID))
}
