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

// positionCmd holds the flags for the 'position' subcommand.
type positionCmd struct {
	ticker   string
	price    float64
	currency string
	date     string
}

func (*positionCmd) Name() string     { return "position" }
func (*positionCmd) Synopsis() string { return "weighted-average position and unrealized P&L" }
func (*positionCmd) Usage() string {
	return `bkr position -t <ticker> [-p <price> [-c <currency>]] [-d <date>]

  Aggregates a ticker's transaction history into its current position.
  With a current price, also values it and reports the unrealized P&L.
`
}

func (c *positionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker of the security")
	f.Float64Var(&c.price, "p", 0, "Current per-share price, for unrealized P&L")
	f.StringVar(&c.currency, "c", "", "Currency of the price. Defaults to the home currency.")
	f.StringVar(&c.date, "d", bookkeeper.Today().String(), "Date of the valuation. See the user manual for supported date formats.")
}

func (c *positionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		fmt.Fprintln(os.Stderr, "the -t ticker flag is required")
		return subcommands.ExitUsageError
	}
	on, err := bookkeeper.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	as, _, err := loadSystem()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	p, err := as.ComputePosition(defaultPortfolio, c.ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing position: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.price == 0 {
		printMarkdown(renderer.PositionMarkdown(p))
		return subcommands.ExitSuccess
	}

	currency := c.currency
	if currency == "" {
		currency = *homeCurrency
	}
	price := bookkeeper.M(c.price, currency)
	amount, pct, err := as.ComputeUnrealizedPnL(defaultPortfolio, c.ticker, price, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing unrealized P&L: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PositionValueMarkdown(p, price, amount, pct))
	return subcommands.ExitSuccess
}
