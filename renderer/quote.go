package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/bookkeeper"
)

// QuoteMarkdown renders the full breakdown of pricing a foreign-currency
// purchase: where the rate came from and which units it was weighted on.
func QuoteMarkdown(currency string, on bookkeeper.Date, q bookkeeper.Quote) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Purchase Quote %s %s on %s\n\n", q.Amount, currency, on)
	fmt.Fprintf(&b, "Rate: **%s** per %s (%s)\n\n", q.Rate, currency, q.Source)

	fmt.Fprintln(&b, "| | Units |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Covered by ledger | %s |\n", q.Covered)
	if !q.FreeUsed.IsZero() {
		fmt.Fprintf(&b, "| of which free (no cost) | %s |\n", q.FreeUsed)
	}
	if !q.LayerUnits.IsZero() {
		fmt.Fprintf(&b, "| of which from cost layers | %s |\n", q.LayerUnits)
	}
	if !q.Uncovered.IsZero() {
		fmt.Fprintf(&b, "| Beyond available balance | %s |\n", q.Uncovered)
	}
	if !q.Cost.IsZero() {
		fmt.Fprintf(&b, "\nLayer cost basis: %s\n", q.Cost)
	}

	return b.String()
}

// ResolutionMarkdown renders a shortfall resolution: the quote, the
// resulting balance, and the synthesized top-up when there is one.
func ResolutionMarkdown(currency string, on bookkeeper.Date, res bookkeeper.Resolution) string {
	var b strings.Builder

	b.WriteString(QuoteMarkdown(currency, on, res.Quote))
	fmt.Fprintf(&b, "\nBalance after purchase: **%s %s**\n", res.Balance, currency)
	if res.Balance.IsNegative() {
		fmt.Fprintln(&b, "\n> The ledger is on margin: future inflows repay the negative balance.")
	}
	if res.TopUp != nil {
		fmt.Fprintf(&b, "\nTop-up to commit alongside the purchase: %s %s %s", res.TopUp.Category, res.TopUp.Amount, currency)
		if !res.TopUp.Rate.IsZero() {
			fmt.Fprintf(&b, " at %s", res.TopUp.Rate)
		}
		fmt.Fprintln(&b)
	}

	return b.String()
}
