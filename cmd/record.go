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

// recordCmd holds the flags for the 'record' subcommand.
type recordCmd struct {
	date           string
	category       string
	amount         float64
	rate           float64
	memo           string
	ledgerCurrency string
}

func (*recordCmd) Name() string     { return "record" }
func (*recordCmd) Synopsis() string { return "append a cash event to the currency ledger" }
func (*recordCmd) Usage() string {
	return `bkr record -c <category> -a <amount> [-r <rate>] [-d <date>] [-m <memo>]

  Appends a cash event to the ledger file, creating the file on first use.
  Inflow categories (initial, purchase, deposit, interest, income) take a
  positive amount; outflows (spend, sale) a negative one. Cost-bearing
  inflows require the home-currency rate paid per unit.

Usage Examples:
# Bought 100 USD at 0.92 EUR each.
$ bkr record -c purchase -a 100 -r 0.92

# Spent 30 USD on a stock purchase.
$ bkr record -c spend -a -30
`
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", bookkeeper.Today().String(), "Date of the event. See the user manual for supported date formats.")
	f.StringVar(&c.category, "c", "purchase", "Event category (initial, purchase, deposit, interest, income, spend, sale)")
	f.Float64Var(&c.amount, "a", 0, "Signed amount in the ledger's currency")
	f.Float64Var(&c.rate, "r", 0, "Home cost of one unit, required for cost-bearing inflows")
	f.StringVar(&c.memo, "m", "", "Optional memo")
	f.StringVar(&c.ledgerCurrency, "ledger-currency", "USD", "Currency of the ledger, used only when creating the file")
}

func (c *recordCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := bookkeeper.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	category, err := bookkeeper.ParseEventCategory(c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing category: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedgerFile()
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Ledger file %q does not exist, creating a %s ledger\n", *ledgerFile, c.ledgerCurrency)
		ledger, err = bookkeeper.NewLedger(c.ledgerCurrency, *homeCurrency), nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	var rate bookkeeper.Money
	if c.rate != 0 {
		rate = bookkeeper.M(c.rate, *homeCurrency)
	}
	event := bookkeeper.NewCashEvent(on, category, bookkeeper.Q(c.amount), rate, c.memo)
	if err := ledger.Append(event); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording event: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := EncodeLedgerFile(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully recorded %s of %s %s\n", category, event.Amount, ledger.Currency())
	return subcommands.ExitSuccess
}
