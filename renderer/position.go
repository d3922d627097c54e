package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/bookkeeper"
)

// PositionMarkdown renders a ticker's weighted-average position.
func PositionMarkdown(p bookkeeper.Position) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Position %s\n\n", p.Ticker)
	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Shares | %s |\n", p.Shares)
	fmt.Fprintf(&b, "| Cost basis | %s |\n", p.Cost)
	fmt.Fprintf(&b, "| Cost basis (home) | %s |\n", p.CostHome)
	if !p.Shares.IsZero() {
		fmt.Fprintf(&b, "| Average cost | %s |\n", p.AverageCost())
	}

	return b.String()
}

// PositionValueMarkdown renders a position valued at a current price,
// with its unrealized P&L.
func PositionValueMarkdown(p bookkeeper.Position, price, unrealized bookkeeper.Money, pct bookkeeper.Percent) string {
	var b strings.Builder

	b.WriteString(PositionMarkdown(p))
	fmt.Fprintf(&b, "\nAt %s per share: unrealized **%s** (%s)\n", price, unrealized.SignedString(), pct.SignedString())

	return b.String()
}
