package bookkeeper

import (
	"fmt"

	"github.com/Rhymond/go-money"
)

// EventRepository returns the recorded cash history of a currency ledger.
// Implementations must return events ordered by date then append order,
// with soft-deleted events excluded.
type EventRepository interface {
	Ledger(id string) (*Ledger, error)
}

// RateProvider supplies historical market exchange rates. RateAsOf
// returns the home-currency cost of one unit of 'currency' on a date, or
// false when no rate is known. Providers may be cached, multi-source
// fallback chains; this package only relies on the explicit unavailable
// signal and never substitutes a guess.
type RateProvider interface {
	RateAsOf(currency string, on Date) (Money, bool)
}

// TransactionRepository returns all non-deleted stock transactions of a
// portfolio, optionally narrowed to one ticker.
type TransactionRepository interface {
	Transactions(portfolio, ticker string) ([]StockTransaction, error)
}

// AccountingSystem is the orchestration facade over the calculation
// engine: it fetches history from the repositories, consults the rate
// provider, and delegates to the pure calculation functions. It holds no
// state of its own and is safe for concurrent use; transactional
// consistency of read-decide-write sequences is the storage layer's
// responsibility.
type AccountingSystem struct {
	Events       EventRepository
	Rates        RateProvider
	Transactions TransactionRepository
	HomeCurrency string
}

// NewAccountingSystem creates the facade, validating the home currency.
func NewAccountingSystem(events EventRepository, rates RateProvider, transactions TransactionRepository, homeCurrency string) (*AccountingSystem, error) {
	if err := ValidateCurrency(homeCurrency); err != nil {
		return nil, fmt.Errorf("invalid home currency: %w", err)
	}
	return &AccountingSystem{
		Events:       events,
		Rates:        rates,
		Transactions: transactions,
		HomeCurrency: homeCurrency,
	}, nil
}

// ValidateCurrency checks that the code names a known ISO 4217 currency.
func ValidateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}

// marketRate looks up the market rate for a ledger's currency, returning
// a zero Money (the "unavailable" value the pricing layer expects) when
// the provider has none.
func (as *AccountingSystem) marketRate(l *Ledger, on Date) Money {
	if rate, ok := as.Rates.RateAsOf(l.Currency(), on); ok {
		return rate
	}
	return Money{}
}

// PriceForeignPurchase prices a purchase of 'amount' units of a ledger's
// currency on 'on', consuming ledger history in LIFO order and falling
// back to the market rate when the history yields none. The returned
// quote carries the full breakdown (source, covered, free, layer cost).
func (as *AccountingSystem) PriceForeignPurchase(ledgerID string, amount Quantity, on Date) (Quote, error) {
	l, err := as.Events.Ledger(ledgerID)
	if err != nil {
		return Quote{}, fmt.Errorf("could not load ledger %q: %w", ledgerID, err)
	}
	return l.rateOrMarket(on, amount, as.marketRate(l, on))
}

// ResolveInsufficientBalance prices a purchase that may overdraw the
// ledger, applying the caller's balance action. The resolution is not
// committed: the caller persists the purchase (and the synthesized
// top-up event, if any) as one transaction, or nothing.
func (as *AccountingSystem) ResolveInsufficientBalance(ledgerID string, required Quantity, action BalanceAction, topUpCategory EventCategory, on Date, purchaseID string) (Resolution, error) {
	l, err := as.Events.Ledger(ledgerID)
	if err != nil {
		return Resolution{}, fmt.Errorf("could not load ledger %q: %w", ledgerID, err)
	}
	return l.Resolve(on, required, action, topUpCategory, as.marketRate(l, on), purchaseID)
}

// ComputePosition aggregates a ticker's transaction history into its
// current weighted-average position.
func (as *AccountingSystem) ComputePosition(portfolio, ticker string) (Position, error) {
	transactions, err := as.Transactions.Transactions(portfolio, ticker)
	if err != nil {
		return Position{}, fmt.Errorf("could not load transactions for %s/%s: %w", portfolio, ticker, err)
	}
	return NewPosition(ticker, transactions)
}

// ComputeRealizedPnL prices the P&L a sell would lock in, against the
// position held on the sell's date. It is called once, before the sell
// is persisted; the result is recorded on the transaction and never
// recomputed when history is edited later.
func (as *AccountingSystem) ComputeRealizedPnL(portfolio string, sell StockTransaction, opts PnLOptions) (Money, error) {
	transactions, err := as.Transactions.Transactions(portfolio, sell.Ticker)
	if err != nil {
		return Money{}, fmt.Errorf("could not load transactions for %s/%s: %w", portfolio, sell.Ticker, err)
	}
	history := transactions[:0:0]
	for _, t := range transactions {
		if !t.Date.After(sell.Date) {
			history = append(history, t)
		}
	}
	before, err := NewPosition(sell.Ticker, history)
	if err != nil {
		return Money{}, err
	}
	return RealizedPnL(before, sell, opts)
}

// ComputeUnrealizedPnL values a position against an externally supplied
// current price. The price's currency picks the conversion: home-currency
// prices convert at 1, anything else is looked up with the rate provider.
func (as *AccountingSystem) ComputeUnrealizedPnL(portfolio, ticker string, price Money, on Date) (Money, Percent, error) {
	p, err := as.ComputePosition(portfolio, ticker)
	if err != nil {
		return Money{}, 0, err
	}
	rate := M(1, as.HomeCurrency)
	if price.Currency() != as.HomeCurrency {
		var ok bool
		if rate, ok = as.Rates.RateAsOf(price.Currency(), on); !ok {
			return Money{}, 0, &RateUnavailableError{Currency: price.Currency(), On: on}
		}
	}
	amount, pct := UnrealizedPnL(p, price, rate)
	return amount, pct, nil
}

// ComputeXIRR, ComputeModifiedDietz and ComputeTimeWeightedReturn expose
// the return metrics on the facade; the flows and valuations are supplied
// by the caller, already expressed in the home currency.

func (as *AccountingSystem) ComputeXIRR(flows []CashFlow, finalValue Money, finalDate Date) (Percent, error) {
	return XIRR(flows, finalValue, finalDate)
}

func (as *AccountingSystem) ComputeModifiedDietz(start, end Money, flows []CashFlow, from, to Date) (Percent, error) {
	return ModifiedDietz(start, end, flows, from, to)
}

func (as *AccountingSystem) ComputeTimeWeightedReturn(valuations []ValuationPoint, flows []CashFlow) (Percent, error) {
	return TimeWeightedReturn(valuations, flows)
}
