package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/bookkeeper"
	"github.com/etnz/bookkeeper/renderer"
	"github.com/google/subcommands"
)

type balanceCmd struct {
	date string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show the ledger history and balance" }
func (*balanceCmd) Usage() string {
	return `bkr balance [-d <date>]

  Displays the currency ledger's events up to a date, with the balance.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", bookkeeper.Today().String(), "Date to report on. See the user manual for supported date formats.")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := bookkeeper.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedgerFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.LedgerMarkdown(ledger, on))
	return subcommands.ExitSuccess
}
