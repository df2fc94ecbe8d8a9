package cli

import (
	"context"
	"fmt"

	"github.com/amterp/ra"
)

func registerDelete(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("delete")
	cmd.SetDescription("Delete a card")

	ctx.DeleteCard, _ = ra.NewString("card").
		SetUsage("Card ID or store name").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.DeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.DeleteUsed, _ = parent.RegisterCmd(cmd)
}

func runDelete(opts globalOptions, cardArg string, force bool) {
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	ctx := context.Background()
	card, err := app.CardResolver.Resolve(ctx, cardArg)
	if err != nil {
		Fatal(err)
	}

	if !force {
		if !opts.interactive {
			Fatal(fmt.Errorf("deleting card %q (%s) requires --force in non-interactive mode", card.StoreName, card.ID))
		}

		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Weet je zeker dat je %q wilt verwijderen?", card.StoreName),
			false,
		)
		if err != nil {
			Fatal(err)
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return
		}
	}

	if err := app.CardStore.Remove(ctx, card.ID); err != nil {
		Fatal(err)
	}

	if opts.json {
		if err := printJson(DeleteOutput{Deleted: card.ID}); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Deleted card %q (%s)", card.StoreName, card.ID)
}
