package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/bookkeeper"
	"github.com/google/subcommands"
)

// tradeFlags are the flags shared by the buy and sell subcommands.
type tradeFlags struct {
	date     string
	ticker   string
	shares   float64
	price    float64
	fee      float64
	currency string
	rate     float64
	notes    string
}

func (c *tradeFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", bookkeeper.Today().String(), "Date of the trade. See the user manual for supported date formats.")
	f.StringVar(&c.ticker, "t", "", "Ticker of the security")
	f.Float64Var(&c.shares, "n", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Per-share price, in the trade currency")
	f.Float64Var(&c.fee, "fee", 0, "Trading fee, in the trade currency")
	f.StringVar(&c.currency, "c", "", "Trade currency. Defaults to the home currency.")
	f.Float64Var(&c.rate, "r", 0, "Home cost of one unit of the trade currency. Defaults to 1 for home trades, looked up otherwise.")
	f.StringVar(&c.notes, "m", "", "Optional notes")
}

// transaction resolves the flags into a validated transaction, looking
// up the exchange rate from the provider when none was given.
func (c *tradeFlags) transaction(txType bookkeeper.TxType, rates bookkeeper.RateProvider) (bookkeeper.StockTransaction, error) {
	on, err := bookkeeper.ParseDate(c.date)
	if err != nil {
		return bookkeeper.StockTransaction{}, fmt.Errorf("invalid date: %w", err)
	}
	currency := c.currency
	if currency == "" {
		currency = *homeCurrency
	}
	if err := bookkeeper.ValidateCurrency(currency); err != nil {
		return bookkeeper.StockTransaction{}, err
	}

	var rate bookkeeper.Money
	switch {
	case c.rate != 0:
		rate = bookkeeper.M(c.rate, *homeCurrency)
	case currency == *homeCurrency:
		rate = bookkeeper.M(1, *homeCurrency)
	default:
		var ok bool
		if rate, ok = rates.RateAsOf(currency, on); !ok {
			return bookkeeper.StockTransaction{}, &bookkeeper.RateUnavailableError{Currency: currency, On: on}
		}
	}

	tx := bookkeeper.StockTransaction{
		Date:   on,
		Ticker: c.ticker,
		Type:   txType,
		Shares: bookkeeper.Q(c.shares),
		Price:  bookkeeper.M(c.price, currency),
		Fee:    bookkeeper.M(c.fee, currency),
		Rate:   rate,
		Notes:  c.notes,
	}
	return tx, tx.Validate()
}

type buyCmd struct {
	tradeFlags
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a stock purchase" }
func (*buyCmd) Usage() string {
	return `bkr buy -t <ticker> -n <shares> -p <price> [-c <currency>] [-r <rate>] [-fee <fee>] [-d <date>]

  Records a buy in the transactions file. The exchange rate defaults to 1
  for home-currency trades and is looked up from the market otherwise.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	as, _, err := loadSystem()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	tx, err := c.transaction(bookkeeper.TxBuy, as.Rates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return AppendTransaction(tx)
}

type sellCmd struct {
	tradeFlags
	truncate bool
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a stock sale with its realized P&L" }
func (*sellCmd) Usage() string {
	return `bkr sell -t <ticker> -n <shares> -p <price> [-c <currency>] [-r <rate>] [-fee <fee>] [-d <date>] [-truncate]

  Records a sell in the transactions file. The realized P&L is computed
  against the position held on the sell's date and locked onto the
  transaction; later edits to history never change it.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.BoolVar(&c.truncate, "truncate", false, "Truncate sale proceeds to whole currency units before the fee, as some exchanges settle")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	as, _, err := loadSystem()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	tx, err := c.transaction(bookkeeper.TxSell, as.Rates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	realized, err := as.ComputeRealizedPnL(defaultPortfolio, tx, bookkeeper.PnLOptions{TruncateProceeds: c.truncate})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing realized P&L: %v\n", err)
		return subcommands.ExitFailure
	}
	tx.Realized = realized
	fmt.Printf("Realized P&L: %s\n", realized.SignedString())

	return AppendTransaction(tx)
}
