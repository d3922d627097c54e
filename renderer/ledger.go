package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/bookkeeper"
)

// LedgerMarkdown renders a currency ledger's history up to a date, with
// the running balance.
func LedgerMarkdown(l *bookkeeper.Ledger, on bookkeeper.Date) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Ledger %s on %s\n\n", l.Currency(), on)
	fmt.Fprintln(&b, "| Date | Category | Amount | Rate | Memo |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|:---|")

	var balance bookkeeper.Quantity
	for e := range l.Events() {
		if e.Date.After(on) {
			break
		}
		balance = balance.Add(e.Amount)
		rate := ""
		if !e.Rate.IsZero() {
			rate = e.Rate.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", e.Date, e.Category, e.Amount, rate, e.Memo)
	}
	fmt.Fprintf(&b, "\nBalance: **%s %s**\n", balance, l.Currency())

	return b.String()
}
