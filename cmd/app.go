// Package cmd implements the CLI application for personal investment
// bookkeeping: recording cash events and trades, pricing purchases
// against ledger history, and reporting positions and returns.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/bookkeeper"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package calls Register() to install the subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&recordCmd{}, "ledger")
	c.Register(&balanceCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&priceCmd{}, "pricing")
	c.Register(&resolveCmd{}, "pricing")

	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")

	c.Register(&positionCmd{}, "reports")
	c.Register(&returnsCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "ledger.jsonl", "Path to the currency ledger file (JSONL format)")
var txFile = flag.String("tx-file", "transactions.jsonl", "Path to the stock transactions file (JSONL format)")
var homeCurrency = flag.String("currency", "EUR", "Home (reporting) currency")

// defaultPortfolio keys the transactions file in the facade's repository.
const defaultPortfolio = "main"

// DecodeLedgerFile loads the app's currency ledger.
func DecodeLedgerFile() (*bookkeeper.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return bookkeeper.DecodeCashLedger(f)
}

// EncodeLedgerFile rewrites the app's currency ledger in canonical form.
func EncodeLedgerFile(l *bookkeeper.Ledger) error {
	f, err := os.Create(*ledgerFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return bookkeeper.EncodeCashLedger(f, l)
}

// DecodeTransactionsFile loads the app's stock transactions. A missing
// file is an empty history, not an error.
func DecodeTransactionsFile() ([]bookkeeper.StockTransaction, error) {
	f, err := os.Open(*txFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return bookkeeper.DecodeTransactions(f, *homeCurrency)
}

// AppendTransaction appends a single transaction to the app transactions file.
func AppendTransaction(tx bookkeeper.StockTransaction) subcommands.ExitStatus {
	f, err := os.OpenFile(*txFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening transactions file %q: %v\n", *txFile, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := bookkeeper.EncodeTransactions(f, []bookkeeper.StockTransaction{tx}); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to transactions file %q: %v\n", *txFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended transaction to %s\n", *txFile)
	return subcommands.ExitSuccess
}

// loadSystem builds the accounting facade over the app files and the
// frankfurter.app market rates. The ledger is nil when its file does not
// exist; commands that need it must say so.
func loadSystem() (*bookkeeper.AccountingSystem, *bookkeeper.Ledger, error) {
	ledger, err := DecodeLedgerFile()
	if errors.Is(err, fs.ErrNotExist) {
		ledger, err = nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not load ledger file %q: %w", *ledgerFile, err)
	}

	transactions, err := DecodeTransactionsFile()
	if err != nil {
		return nil, nil, fmt.Errorf("could not load transactions file %q: %w", *txFile, err)
	}

	events := bookkeeper.MemoryEvents{}
	if ledger != nil {
		events[ledger.Currency()] = ledger
	}
	as, err := bookkeeper.NewAccountingSystem(
		events,
		bookkeeper.NewFrankfurterRates(*homeCurrency),
		bookkeeper.MemoryTransactions{defaultPortfolio: transactions},
		*homeCurrency,
	)
	if err != nil {
		return nil, nil, err
	}
	return as, ledger, nil
}
