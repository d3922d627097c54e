package bookkeeper

// EUR is a helper for tests to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for tests to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a helper for tests to create a date in January 2025.
func day(d int) Date { return NewDate(2025, 1, d) }

// inflow is a helper for tests to record a cost-bearing inflow.
func inflow(on Date, units float64, rate float64) CashEvent {
	return NewCashEvent(on, CategoryPurchase, Q(units), EUR(rate), "")
}

// free is a helper for tests to record a zero-cost inflow.
func free(on Date, units float64) CashEvent {
	return NewCashEvent(on, CategoryInterest, Q(units), Money{}, "")
}

// spend is a helper for tests to record an outflow.
func spend(on Date, units float64) CashEvent {
	return NewCashEvent(on, CategorySpend, Q(-units), Money{}, "")
}

// usdLedger builds a USD ledger (EUR home) from events, failing the test
// on invalid fixtures is the caller's job: Append errors are panics here.
func usdLedger(events ...CashEvent) *Ledger {
	l := NewLedger("USD", "EUR")
	if err := l.Append(events...); err != nil {
		panic(err.Error())
	}
	return l
}
