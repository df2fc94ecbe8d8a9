package cli

import (
	"context"
	"fmt"

	"github.com/amterp/ra"
	"github.com/pasjesplank/plank/internal/barcode"
	"github.com/pasjesplank/plank/internal/model"
)

func registerShow(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("show")
	cmd.SetDescription("Display card details")

	ctx.ShowCard, _ = ra.NewString("card").
		SetUsage("Card ID or store name").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.ShowSVG, _ = ra.NewBool("svg").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print the barcode as SVG instead of the details").
		Register(cmd)

	ctx.ShowUsed, _ = parent.RegisterCmd(cmd)
}

func runShow(opts globalOptions, idOrName string, svg bool) {
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	card, err := app.CardResolver.Resolve(context.Background(), idOrName)
	if err != nil {
		Fatal(err)
	}
	code := app.Barcodes.Render(card.BarcodeNumber)

	if svg {
		if code.IsBlank() {
			Fatal(fmt.Errorf("card number %q cannot be drawn as a barcode", card.BarcodeNumber))
		}
		fmt.Println(code.SVG)
		return
	}

	if opts.json {
		output := NewCardOutput(card)
		output.Barcode = &code
		if err := printJson(output); err != nil {
			Fatal(err)
		}
		return
	}
	printCard(card, code)
}

func printCard(card model.Card, code barcode.Result) {
	const labelWidth = 10

	// Title box
	fmt.Println(TitleBox(card.StoreName))
	fmt.Println()

	// Card details with aligned labels
	fmt.Println(LabelValue("ID", RenderID(card.ID), labelWidth))
	fmt.Println(LabelValue("Categorie", RenderCategory(card.Category), labelWidth))
	fmt.Println(LabelValue("Kleur", fmt.Sprintf("%s %s", ColorSwatch(card.Color), model.ColorName(card.Color)), labelWidth))

	format := RenderMuted("niet te tekenen")
	if !code.IsBlank() {
		format = string(code.Symbology)
	}
	fmt.Println(LabelValue("Barcode", format, labelWidth))
	fmt.Println()
	fmt.Println(Box(RenderBold(card.BarcodeNumber)))
}
