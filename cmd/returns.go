package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/bookkeeper"
	"github.com/etnz/bookkeeper/renderer"
	"github.com/google/subcommands"
)

// returnsCmd holds the flags for the 'returns' subcommand.
type returnsCmd struct {
	from       string
	to         string
	start      float64
	end        float64
	flows      string
	valuations string
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "XIRR, Modified Dietz and time-weighted return" }
func (*returnsCmd) Usage() string {
	return `bkr returns -s <date> -d <date> -start <value> -end <value> [-flows <date>:<amount>,...] [-valuations <date>:<value>,...]

  Computes the period's return metrics from home-currency figures:
  XIRR and Modified Dietz from the external cash flows, and the
  time-weighted return when intermediate valuations are supplied.
  Flow amounts are investor-side: negative for contributions into the
  portfolio, positive for withdrawals.

Usage Examples:
# 1000 in on Jan 1st, worth 1080 a year later.
$ bkr returns -s 2025-01-01 -d 2026-01-01 -end 1080 -flows 2025-01-01:-1000
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "s", "", "Start date of the period. See the user manual for supported date formats.")
	f.StringVar(&c.to, "d", bookkeeper.Today().String(), "End date of the period. See the user manual for supported date formats.")
	f.Float64Var(&c.start, "start", 0, "Portfolio value at the start of the period, in the home currency")
	f.Float64Var(&c.end, "end", 0, "Portfolio value at the end of the period, in the home currency")
	f.StringVar(&c.flows, "flows", "", "External cash flows as <date>:<amount>, comma separated")
	f.StringVar(&c.valuations, "valuations", "", "Intermediate valuations as <date>:<value>, comma separated")
}

// parseSchedule parses a comma-separated "<date>:<amount>" list.
func parseSchedule(s string) ([]bookkeeper.CashFlow, error) {
	if s == "" {
		return nil, nil
	}
	var flows []bookkeeper.CashFlow
	for _, item := range strings.Split(s, ",") {
		date, amount, ok := strings.Cut(strings.TrimSpace(item), ":")
		if !ok {
			return nil, fmt.Errorf("invalid schedule entry %q, want <date>:<amount>", item)
		}
		on, err := bookkeeper.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("in schedule entry %q: %w", item, err)
		}
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			return nil, fmt.Errorf("in schedule entry %q: %w", item, err)
		}
		flows = append(flows, bookkeeper.CashFlow{Date: on, Amount: bookkeeper.M(v, *homeCurrency)})
	}
	return flows, nil
}

func (c *returnsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" {
		fmt.Fprintln(os.Stderr, "the -s start date flag is required")
		return subcommands.ExitUsageError
	}
	from, err := bookkeeper.ParseDate(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := bookkeeper.ParseDate(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	flows, err := parseSchedule(c.flows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flows: %v\n", err)
		return subcommands.ExitUsageError
	}
	points, err := parseSchedule(c.valuations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing valuations: %v\n", err)
		return subcommands.ExitUsageError
	}

	as, _, err := loadSystem()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	start := bookkeeper.M(c.start, *homeCurrency)
	end := bookkeeper.M(c.end, *homeCurrency)

	var metrics []renderer.Metric
	xirr, err := as.ComputeXIRR(flows, end, to)
	metrics = append(metrics, renderer.Metric{Name: "XIRR", Value: xirr, Err: err})
	dietz, err := as.ComputeModifiedDietz(start, end, flows, from, to)
	metrics = append(metrics, renderer.Metric{Name: "Modified Dietz", Value: dietz, Err: err})

	valuations := []bookkeeper.ValuationPoint{{Date: from, Value: start}}
	for _, p := range points {
		valuations = append(valuations, bookkeeper.ValuationPoint{Date: p.Date, Value: p.Amount})
	}
	valuations = append(valuations, bookkeeper.ValuationPoint{Date: to, Value: end})
	twr, err := as.ComputeTimeWeightedReturn(valuations, flows)
	metrics = append(metrics, renderer.Metric{Name: "Time-weighted", Value: twr, Err: err})

	printMarkdown(renderer.ReturnsMarkdown(from, to, metrics))
	return subcommands.ExitSuccess
}
