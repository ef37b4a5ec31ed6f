package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/cgtcalc/errors"
	"github.com/robinvdvleuten/cgtcalc/loader"
)

type FormatCmd struct {
	File FileOrStdin `help:"Journal filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *FormatCmd) Run(ctx *kong.Context) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}

	transactions, _, err := cmd.File.LoadJournal(context.Background(), loader.New())
	if err != nil {
		renderer := errors.NewTextFormatter(errors.WithSource(sourceContent))
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Format(err))
		return fmt.Errorf("parse error")
	}

	for _, t := range transactions {
		if _, err := fmt.Fprintln(ctx.Stdout, t.String()); err != nil {
			return err
		}
	}

	return nil
}
