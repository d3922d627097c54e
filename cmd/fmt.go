package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/bookkeeper"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the data files into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `bkr fmt

  Validates and formats the ledger and transactions files. This command
  reads all events, validates them, sorts them by date, and writes them
  back in a canonical JSONL format.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (*fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedgerFile()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(os.Stderr, "Warning: no ledger file %q to format.\n", *ledgerFile)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: could not load ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	default:
		if err := EncodeLedgerFile(ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving ledger file %q: %v\n", *ledgerFile, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Formatted ledger file %q.\n", *ledgerFile)
	}

	transactions, err := DecodeTransactionsFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load transactions file %q: %v\n", *txFile, err)
		return subcommands.ExitFailure
	}
	if transactions != nil {
		w, err := os.Create(*txFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving transactions file %q: %v\n", *txFile, err)
			return subcommands.ExitFailure
		}
		defer w.Close()
		if err := bookkeeper.EncodeTransactions(w, transactions); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving transactions file %q: %v\n", *txFile, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Formatted transactions file %q.\n", *txFile)
	}

	return subcommands.ExitSuccess
}
