package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/amterp/ra"
	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/scan"
)

func registerScan(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("scan")
	cmd.SetDescription("Add a card by scanning its barcode with a USB scanner")

	ctx.ScanName, _ = ra.NewString("store").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Store name (prompted if omitted)").
		Register(cmd)

	ctx.ScanCategory, _ = ra.NewString("category").
		SetShort("c").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Category key or label (default: overig)").
		SetCompletionFunc(completeCategories).
		Register(cmd)

	ctx.ScanColor, _ = ra.NewString("color").
		SetShort("k").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Palette color name or hex (default: paars)").
		SetCompletionFunc(completeColors).
		Register(cmd)

	ctx.ScanUsed, _ = parent.RegisterCmd(cmd)
}

// errNoCode is returned when the input ends before a valid code arrives.
var errNoCode = errors.New("no valid EAN code was scanned")

func runScan(opts globalOptions, storeName, category, color string) {
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Prompts come first: the scanner owns stdin once it starts.
	storeName, err = requireText(app, "Winkel", "store name", storeName)
	if err != nil {
		Fatal(err)
	}

	if !opts.json {
		PrintInfo("Scan the card now (or type the number and press Enter)")
	}

	// Hide Close from the scanner; closing a terminal does not unblock a read.
	scanner := scan.NewLineScanner(struct{ io.Reader }{os.Stdin})
	code, err := awaitCode(ctx, scanner)
	if err != nil {
		Fatal(err)
	}

	card, err := addCard(ctx, app, addInput{
		StoreName: storeName,
		Number:    code,
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
	PrintSuccess("Added %s %s with number %s", RenderBold(card.StoreName), RenderID(card.ID), card.BarcodeNumber)
}

// awaitCode runs the scanner until it reports its first code, fails, runs out
// of input or ctx ends. The scanner is stopped before returning.
func awaitCode(ctx context.Context, scanner *scan.LineScanner) (string, error) {
	codes := make(chan string, 1)
	failures := make(chan error, 1)

	err := scanner.Start(ctx, scan.Handlers{
		Detected: func(code string) {
			select {
			case codes <- code:
			default:
			}
		},
		Failed: func(err error) {
			select {
			case failures <- err:
			default:
			}
		},
	})
	if err != nil {
		return "", err
	}
	defer scanner.Stop()

	select {
	case code := <-codes:
		return code, nil
	case err := <-failures:
		return "", kanerr.Unavailable("scanner", err)
	case <-scanner.Done():
		// Input ended; a code may have raced the close.
		select {
		case code := <-codes:
			return code, nil
		default:
			return "", errNoCode
		}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
