package cli

import (
	"context"
	"fmt"

	"github.com/amterp/ra"
)

func registerCategories(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("categories")
	cmd.SetDescription("List categories with their card counts")

	ctx.CategoriesUsed, _ = parent.RegisterCmd(cmd)
}

func runCategories(opts globalOptions) {
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	cards, err := app.CardStore.List(context.Background())
	if err != nil {
		Fatal(err)
	}
	output := NewCategoriesOutput(cards)

	if opts.json {
		if err := printJson(output); err != nil {
			Fatal(err)
		}
		return
	}

	for _, c := range output.Categories {
		count := RenderMuted(fmt.Sprintf("(%d)", c.CardCount))
		fmt.Printf("  %s %-12s %s %s\n", c.Glyph, c.Label, RenderID(string(c.Key)), count)
	}
}
