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

// resolveCmd holds the flags for the 'resolve' subcommand.
type resolveCmd struct {
	amount     float64
	date       string
	action     string
	topUp      string
	purchaseID string
	commit     bool
}

func (*resolveCmd) Name() string     { return "resolve" }
func (*resolveCmd) Synopsis() string { return "price a purchase that may exceed the ledger balance" }
func (*resolveCmd) Usage() string {
	return `bkr resolve -a <amount> -action <reject|margin|topup> [-topup-category <category>] [-id <purchase-id>] [-d <date>] [-commit]

  Prices a purchase of foreign currency, resolving any shortfall per the
  chosen action: reject refuses it, margin prices the shortfall at the
  market rate and lets the balance go negative, topup synthesizes a
  funding inflow and reprices against the topped-up history.

  With -commit, the purchase outflow (and the synthesized top-up, if any)
  are appended to the ledger file together; without it nothing is written.
`
}

func (c *resolveCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "a", 0, "Amount of foreign currency to purchase")
	f.StringVar(&c.date, "d", bookkeeper.Today().String(), "Date of the purchase. See the user manual for supported date formats.")
	f.StringVar(&c.action, "action", "reject", "Balance action when funds are insufficient (reject, margin, topup)")
	f.StringVar(&c.topUp, "topup-category", "purchase", "Category of the synthesized top-up event")
	f.StringVar(&c.purchaseID, "id", "", "Identifier linking the top-up to the purchase it funds")
	f.BoolVar(&c.commit, "commit", false, "Append the resulting events to the ledger file")
}

func (c *resolveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := bookkeeper.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	action, err := bookkeeper.ParseBalanceAction(c.action)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing action: %v\n", err)
		return subcommands.ExitUsageError
	}
	topUpCategory, err := bookkeeper.ParseEventCategory(c.topUp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing top-up category: %v\n", err)
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

	res, err := as.ResolveInsufficientBalance(ledger.Currency(), bookkeeper.Q(c.amount), action, topUpCategory, on, c.purchaseID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving purchase: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ResolutionMarkdown(ledger.Currency(), on, res))

	if !c.commit {
		return subcommands.ExitSuccess
	}

	// The top-up and the purchase outflow land in the same file write:
	// both are committed, or the file is left as it was.
	events := make([]bookkeeper.CashEvent, 0, 2)
	if res.TopUp != nil {
		events = append(events, *res.TopUp)
	}
	memo := c.purchaseID
	events = append(events, bookkeeper.NewCashEvent(on, bookkeeper.CategorySpend, bookkeeper.Q(-c.amount), bookkeeper.Money{}, memo))
	if err := ledger.Append(events...); err != nil {
		fmt.Fprintf(os.Stderr, "Error committing purchase: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeLedgerFile(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully committed %d event(s) to %s\n", len(events), *ledgerFile)
	return subcommands.ExitSuccess
}
