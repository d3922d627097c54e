package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/bookkeeper"
)

func day(d int) bookkeeper.Date { return bookkeeper.NewDate(2025, time.January, d) }

func TestQuoteMarkdown(t *testing.T) {
	q := bookkeeper.Quote{
		Rate:       bookkeeper.M(30.9, "EUR"),
		Source:     bookkeeper.SourceLIFO,
		Amount:     bookkeeper.Q(250),
		Covered:    bookkeeper.Q(250),
		LayerUnits: bookkeeper.Q(250),
		Cost:       bookkeeper.M(7725, "EUR"),
	}
	md := QuoteMarkdown("USD", day(3), q)

	for _, want := range []string{"Purchase Quote", "USD", "lifo", "Covered by ledger", "250"} {
		if !strings.Contains(md, want) {
			t.Errorf("QuoteMarkdown() missing %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "free") {
		t.Errorf("QuoteMarkdown() should omit the free row when no free units were used:\n%s", md)
	}
}

func TestResolutionMarkdown_Margin(t *testing.T) {
	res := bookkeeper.Resolution{
		Quote: bookkeeper.Quote{
			Rate:      bookkeeper.M(31.5, "EUR"),
			Source:    bookkeeper.SourceBlended,
			Amount:    bookkeeper.Q(200),
			Covered:   bookkeeper.Q(100),
			Uncovered: bookkeeper.Q(100),
		},
		Balance: bookkeeper.Q(-100),
	}
	md := ResolutionMarkdown("USD", day(2), res)

	for _, want := range []string{"blended", "Balance after purchase", "-100", "on margin"} {
		if !strings.Contains(md, want) {
			t.Errorf("ResolutionMarkdown() missing %q in:\n%s", want, md)
		}
	}
}

func TestPositionValueMarkdown(t *testing.T) {
	p := bookkeeper.Position{
		Ticker:   "AAPL",
		Shares:   bookkeeper.Q(20),
		Cost:     bookkeeper.M(2200, "USD"),
		CostHome: bookkeeper.M(2040, "EUR"),
	}
	md := PositionValueMarkdown(p, bookkeeper.M(130, "USD"), bookkeeper.M(300, "EUR"), bookkeeper.Percent(14.7))

	for _, want := range []string{"Position AAPL", "Average cost", "unrealized", "+14.70%"} {
		if !strings.Contains(md, want) {
			t.Errorf("PositionValueMarkdown() missing %q in:\n%s", want, md)
		}
	}
}

func TestReturnsMarkdown(t *testing.T) {
	metrics := []Metric{
		{Name: "XIRR", Value: 8},
		{Name: "Modified Dietz", Err: bookkeeper.ErrNotConverged},
	}
	md := ReturnsMarkdown(day(1), day(31), metrics)

	if !strings.Contains(md, "+8.00%") {
		t.Errorf("ReturnsMarkdown() missing XIRR value in:\n%s", md)
	}
	if !strings.Contains(md, "N/A") {
		t.Errorf("ReturnsMarkdown() should render non-converged metrics as N/A:\n%s", md)
	}
}
