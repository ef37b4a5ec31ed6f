package cli

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/cgtcalc/loader"
)

type DumpCmd struct {
	File FileOrStdin `help:"Journal filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *DumpCmd) Run(ctx *kong.Context) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	transactions, _, err := cmd.File.LoadJournal(context.Background(), loader.New())
	if err != nil {
		return err
	}

	repr.Println(transactions)

	return nil
}
