package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/cgtcalc/errors"
	"github.com/robinvdvleuten/cgtcalc/journal"
	"github.com/robinvdvleuten/cgtcalc/loader"
	"github.com/robinvdvleuten/cgtcalc/telemetry"
)

type CheckCmd struct {
	File FileOrStdin `help:"Journal filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var checkTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				checkTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		checkTimer = collector.Start(fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
		defer reportTelemetry()
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}

	ldr := loader.New()
	transactions, _, err := cmd.File.LoadJournal(runCtx, ldr)
	if err != nil {
		renderer := errors.NewTextFormatter(errors.WithSource(sourceContent))
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Format(err))

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "parse error")

		reportTelemetry()
		os.Exit(1)
	}

	result := journal.Validate(transactions)

	for _, warning := range result.Warnings {
		printWarning(ctx.Stderr, warning.String())
	}

	if !result.IsValid() {
		for _, issue := range result.Errors {
			_, _ = fmt.Fprintln(ctx.Stderr, issue.String())
		}

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) found", len(result.Errors)))

		reportTelemetry()
		os.Exit(1)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed (%d transactions)", len(transactions)))

	return nil
}
