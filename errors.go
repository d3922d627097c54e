package bookkeeper

import (
	"errors"
	"fmt"
)

// The errors below are expected, domain-level outcomes: degenerate
// financial histories (new ledgers, single transactions) are common, and
// callers are expected to branch on them with errors.Is/errors.As.
// Anything else returned by this package is a genuine fault.

// ErrNotConverged reports that the internal rate of return is undefined
// for the given cash-flow pattern (all flows of one sign, no flows, or a
// root-finding that oscillates). Callers should display "N/A", not fail.
var ErrNotConverged = errors.New("internal rate of return did not converge")

// RateUnavailableError reports that a purchase cannot be priced: the
// ledger history holds no cost layers and no market rate was supplied.
// The purchase must be blocked; the user should fund the ledger first.
type RateUnavailableError struct {
	Currency string
	On       Date
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no exchange rate derivable for %s on %s: ledger has no cost layers and no market rate is available", e.Currency, e.On)
}

// InsufficientBalanceError reports a shortfall on a ledger when the
// chosen balance action is Reject. No state is mutated.
type InsufficientBalanceError struct {
	Required  Quantity
	Balance   Quantity
	Shortfall Quantity
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s but only %s available (short %s)", e.Required, e.Balance, e.Shortfall)
}

// InvalidSellQuantityError reports a sell that exceeds the shares held on
// the sell's date. The transaction must be rejected.
type InvalidSellQuantityError struct {
	Ticker string
	On     Date
	Sell   Quantity
	Held   Quantity
}

func (e *InvalidSellQuantityError) Error() string {
	return fmt.Sprintf("on %s, cannot sell %s %s: only %s held", e.On, e.Sell, e.Ticker, e.Held)
}

// MissingValuationError reports a cash flow without a valuation point on
// its date, which makes the time-weighted return incomputable. The caller
// decides whether to degrade to Modified Dietz.
type MissingValuationError struct {
	On Date
}

func (e *MissingValuationError) Error() string {
	return fmt.Sprintf("no valuation point on %s: cannot split sub-period at that cash flow", e.On)
}
