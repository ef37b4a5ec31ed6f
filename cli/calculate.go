package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/cgtcalc/calculator"
	"github.com/robinvdvleuten/cgtcalc/errors"
	"github.com/robinvdvleuten/cgtcalc/formatter"
	"github.com/robinvdvleuten/cgtcalc/journal"
	"github.com/robinvdvleuten/cgtcalc/loader"
	"github.com/robinvdvleuten/cgtcalc/telemetry"
)

type CalculateCmd struct {
	File    FileOrStdin `help:"Journal filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	TaxYear int         `help:"Restrict the report to the tax year starting 6 April of this year." placeholder:"YEAR"`
	Rates   string      `help:"Directory of HMRC monthly exchange rate XML files." type:"existingdir"`
	Format  string      `help:"Output format." enum:"plain,json" default:"plain"`
	Output  string      `help:"Write the report to a file instead of stdout." type:"path"`
	Watch   bool        `help:"Recalculate whenever the journal file changes."`
}

func (cmd *CalculateCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.Watch && cmd.File.Filename == "<stdin>" {
		return fmt.Errorf("--watch requires a journal file, not stdin")
	}

	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var runTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				runTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		runTimer = collector.Start(fmt.Sprintf("calculate %s", filepath.Base(cmd.File.Filename)))
		defer reportTelemetry()
	}

	var opts []loader.Option
	if cmd.Rates != "" {
		opts = append(opts, loader.WithRatesDir(cmd.Rates))
	}
	ldr := loader.New(opts...)

	if cmd.Watch {
		return ldr.Watch(runCtx, cmd.File.Filename, func() {
			if err := cmd.runOnce(runCtx, ctx, ldr); err != nil {
				printError(ctx.Stderr, err.Error())
			}
		})
	}

	if err := cmd.runOnce(runCtx, ctx, ldr); err != nil {
		reportTelemetry()
		return err
	}

	return nil
}

func (cmd *CalculateCmd) runOnce(runCtx context.Context, ctx *kong.Context, ldr *loader.Loader) error {
	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}

	transactions, rates, err := cmd.File.LoadJournal(runCtx, ldr)
	if err != nil {
		renderer := errors.NewTextFormatter(errors.WithSource(sourceContent))
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Format(err))
		return fmt.Errorf("parse error")
	}

	result := journal.Validate(transactions)
	for _, warning := range result.Warnings {
		printWarning(ctx.Stderr, warning.String())
	}
	if !result.IsValid() {
		for _, issue := range result.Errors {
			_, _ = fmt.Fprintln(ctx.Stderr, issue.String())
		}
		return fmt.Errorf("%d validation error(s) found", len(result.Errors))
	}

	calcOpts := []calculator.Option{calculator.WithRates(rates)}
	if cmd.TaxYear != 0 {
		calcOpts = append(calcOpts, calculator.WithTaxYear(cmd.TaxYear))
	}

	report, err := calculator.New(calcOpts...).Process(runCtx, transactions)
	if err != nil {
		return err
	}

	out, closeOut, err := cmd.openOutput(ctx)
	if err != nil {
		return err
	}
	defer closeOut()

	switch cmd.Format {
	case "json":
		return formatter.FormatJSON(report, out)
	default:
		return formatter.New().Format(report, transactions, out)
	}
}

// openOutput resolves the report destination. Writing over an existing
// file asks for confirmation when running interactively.
func (cmd *CalculateCmd) openOutput(ctx *kong.Context) (io.Writer, func(), error) {
	if cmd.Output == "" {
		return ctx.Stdout, func() {}, nil
	}

	if _, err := os.Stat(cmd.Output); err == nil {
		overwrite, err := promptYesNo(fmt.Sprintf("Overwrite %s?", cmd.Output))
		if err != nil {
			return nil, nil, err
		}
		if !overwrite && isTerminal() {
			return nil, nil, fmt.Errorf("refusing to overwrite %s", cmd.Output)
		}
	}

	f, err := os.Create(cmd.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", cmd.Output, err)
	}

	return f, func() {
		_ = f.Close()
		printInfof(ctx.Stderr, "report written to %s", cmd.Output)
	}, nil
}
