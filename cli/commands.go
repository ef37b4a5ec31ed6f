package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Calculate CalculateCmd `cmd:"" help:"Calculate a capital gains report from a journal."`
	Check     CheckCmd     `cmd:"" help:"Parse and validate a journal."`
	Format    FormatCmd    `cmd:"" help:"Rewrite a journal in canonical form."`
	Dump      DumpCmd      `cmd:"" help:"Dump parsed transactions for debugging."`
}
