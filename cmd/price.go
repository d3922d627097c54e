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

// priceCmd holds the flags for the 'price' subcommand.
type priceCmd struct {
	amount float64
	date   string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "price a foreign-currency purchase against the ledger" }
func (*priceCmd) Usage() string {
	return `bkr price -a <amount> [-d <date>]

  Prices a purchase of foreign currency by consuming the ledger's history
  newest-first: free money covers units at no cost, cost layers weight the
  rate. Falls back to the market rate when the history yields none.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "a", 0, "Amount of foreign currency to price")
	f.StringVar(&c.date, "d", bookkeeper.Today().String(), "Date of the purchase. See the user manual for supported date formats.")
}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := bookkeeper.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	as, ledger, err := loadSystem()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if ledger == nil {
		fmt.Fprintf(os.Stderr, "Error: no ledger file %q, record an event first\n", *ledgerFile)
		return subcommands.ExitFailure
	}

	quote, err := as.PriceForeignPurchase(ledger.Currency(), bookkeeper.Q(c.amount), on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error pricing purchase: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.QuoteMarkdown(ledger.Currency(), on, quote))
	return subcommands.ExitSuccess
}
