package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/amterp/ra"
	"github.com/pasjesplank/plank/internal/service"
)

func registerDoctor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("doctor")
	cmd.SetDescription("Check the card collection for problems. Exit 0 if healthy, 1 if errors found.")

	ctx.DoctorFix, _ = ra.NewBool("fix").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Apply automatic fixes for issues with deterministic solutions").
		Register(cmd)

	ctx.DoctorDryRun, _ = ra.NewBool("dry-run").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Show what fixes would be applied without making changes").
		Register(cmd)

	ctx.DoctorUsed, _ = parent.RegisterCmd(cmd)
}

func runDoctor(opts globalOptions, fix bool, dryRun bool) {
	// --fix and --dry-run are mutually exclusive
	if fix && dryRun {
		Fatal(fmt.Errorf("--fix and --dry-run cannot be used together"))
	}

	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	ctx := context.Background()
	doctorService := service.NewDoctorService(app.Medium, app.Config.Storage.Slot, app.Barcodes)

	// Run diagnosis
	report, err := doctorService.Diagnose(ctx)
	if err != nil {
		Fatal(err)
	}

	// Apply fixes if requested (not in dry-run mode)
	if fix && report.Fixable() > 0 {
		report, err = doctorService.Fix(ctx, report)
		if err != nil {
			Fatal(err)
		}
	}

	if opts.json {
		if err := printJson(report); err != nil {
			Fatal(err)
		}
	} else {
		printDoctorReport(report, app.Config.Storage.Backend, fix, dryRun)
	}

	// Exit with status 1 if there are errors
	if report.HasErrors() {
		os.Exit(1)
	}
}

func printDoctorReport(report *service.DiagnosticReport, backend string, didFix bool, dryRun bool) {
	c := report.Collection
	fmt.Printf("Checking collection %s (%s)...\n", RenderBold(fmt.Sprintf("%q", c.Slot)), backend)
	if !c.Exists {
		PrintInfo("No collection stored yet")
		return
	}
	fmt.Printf("  Records: %d (%d bytes)\n", c.Records, c.Bytes)
	fmt.Println()

	fixedCount := 0
	if didFix {
		fixedCount = report.Summary.Fixed
	}

	if fixedCount > 0 {
		PrintSuccess("Fixed %d issue(s)", fixedCount)
		fmt.Println()
	}

	// In dry-run mode, show what would be fixed
	if dryRun && report.Fixable() > 0 {
		PrintInfo("Dry run: %d issue(s) would be fixed", report.Fixable())
		fmt.Println()
	}

	if len(report.Issues) == 0 {
		if fixedCount == 0 {
			PrintSuccess("No issues found")
		} else {
			PrintSuccess("All issues resolved")
		}
		return
	}

	// Errors first, then warnings
	for _, severity := range []service.IssueSeverity{service.SeverityError, service.SeverityWarning} {
		for _, issue := range report.Issues {
			if issue.Severity == severity {
				printIssue(issue)
			}
		}
	}

	// Summary
	fmt.Println()
	summaryParts := []string{}
	if report.Summary.Errors > 0 {
		summaryParts = append(summaryParts, StyleError.Render(fmt.Sprintf("%d error(s)", report.Summary.Errors)))
	}
	if report.Summary.Warnings > 0 {
		summaryParts = append(summaryParts, StyleWarning.Render(fmt.Sprintf("%d warning(s)", report.Summary.Warnings)))
	}
	if fixedCount > 0 {
		summaryParts = append(summaryParts, StyleSuccess.Render(fmt.Sprintf("%d fixed", fixedCount)))
	}
	fmt.Printf("Summary: %s\n", strings.Join(summaryParts, ", "))

	// Suggest --fix if there are fixable issues
	if !didFix && report.Fixable() > 0 {
		fmt.Println()
		if dryRun {
			PrintInfo("Run 'plank doctor --fix' to apply these fixes")
		} else {
			PrintInfo("Run 'plank doctor --fix' to apply automatic fixes")
		}
	}
}

func printIssue(issue service.Issue) {
	var icon, code string
	if issue.Severity == service.SeverityError {
		icon = StyleError.Render(IconError)
		code = StyleError.Render(fmt.Sprintf("[%s]", issue.Code))
	} else {
		icon = StyleWarning.Render(IconWarning)
		code = StyleWarning.Render(fmt.Sprintf("[%s]", issue.Code))
	}

	location := ""
	if issue.CardID != "" {
		location = " " + RenderID(issue.CardID)
	} else if issue.Index >= 0 {
		location = " " + RenderMuted(fmt.Sprintf("#%d", issue.Index))
	}

	fmt.Printf("%s %s%s %s\n", icon, code, location, issue.Message)

	if issue.FixAction != "" {
		fmt.Printf("  %s Fix: %s\n", RenderMuted(IconInfo), issue.FixAction)
	}
}
