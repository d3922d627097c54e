package bookkeeper

import (
	"fmt"
	"iter"
	"sort"
)

// EventCategory identifies what a cash event on a currency ledger is.
type EventCategory int

const (
	// CategoryInitial records the opening balance of a ledger, at cost.
	CategoryInitial EventCategory = iota
	// CategoryPurchase records foreign currency bought with home currency.
	CategoryPurchase
	// CategoryDeposit records foreign currency received without a known cost.
	CategoryDeposit
	// CategoryInterest records interest credited by the account.
	CategoryInterest
	// CategoryIncome records other income (refunds, rewards).
	CategoryIncome
	// CategorySpend records foreign currency spent, typically on a stock purchase.
	CategorySpend
	// CategorySale records foreign currency sold back to home currency.
	CategorySale
)

// EventKind partitions categories by their effect on the cost layers.
type EventKind int

const (
	// KindCostInflow contributes units and a per-unit cost as a new LIFO layer.
	KindCostInflow EventKind = iota
	// KindFreeInflow contributes units with no acquisition cost.
	KindFreeInflow
	// KindOutflow consumes existing units.
	KindOutflow
)

// Kind returns the layer effect of a category. The mapping is declared
// statically: an unknown category is a programming error, not a value to
// guess at from its name.
func (c EventCategory) Kind() EventKind {
	switch c {
	case CategoryInitial, CategoryPurchase:
		return KindCostInflow
	case CategoryDeposit, CategoryInterest, CategoryIncome:
		return KindFreeInflow
	case CategorySpend, CategorySale:
		return KindOutflow
	default:
		panic(fmt.Sprintf("unknown event category %d", c))
	}
}

func (c EventCategory) String() string {
	switch c {
	case CategoryInitial:
		return "initial"
	case CategoryPurchase:
		return "purchase"
	case CategoryDeposit:
		return "deposit"
	case CategoryInterest:
		return "interest"
	case CategoryIncome:
		return "income"
	case CategorySpend:
		return "spend"
	case CategorySale:
		return "sale"
	default:
		return "unknown"
	}
}

// ParseEventCategory parses a string into an EventCategory.
func ParseEventCategory(s string) (EventCategory, error) {
	switch s {
	case "initial":
		return CategoryInitial, nil
	case "purchase":
		return CategoryPurchase, nil
	case "deposit":
		return CategoryDeposit, nil
	case "interest":
		return CategoryInterest, nil
	case "income":
		return CategoryIncome, nil
	case "spend":
		return CategorySpend, nil
	case "sale":
		return CategorySale, nil
	default:
		return 0, fmt.Errorf("unknown event category: %q", s)
	}
}

// CashEvent is a single, immutable movement on a currency ledger. Events
// are append-only; corrections are made by soft-deleting and re-recording.
type CashEvent struct {
	Date     Date          // day the money moved
	Seq      int           // append order, breaks ties between same-day events
	Category EventCategory // classifies the movement, see Kind
	Amount   Quantity      // signed foreign units, positive for inflows
	Rate     Money         // home cost of one foreign unit, required for cost-bearing inflows
	Memo     string        // optional rationale
	Funds    string        // id of the purchase this event was synthesized to fund
	Deleted  bool          // soft delete, excluded from every calculation
}

// NewCashEvent creates a cash event. The amount is signed: inflow
// categories take positive amounts, outflow categories negative ones.
func NewCashEvent(on Date, category EventCategory, amount Quantity, rate Money, memo string) CashEvent {
	return CashEvent{Date: on, Category: category, Amount: amount, Rate: rate.exact(), Memo: memo}
}

// Cost returns the home-currency value of the event (amount at its rate).
func (e CashEvent) Cost() Money { return e.Rate.Mul(e.Amount) }

// Validate checks the event's invariants.
func (e CashEvent) Validate() error {
	if e.Amount.IsZero() {
		return fmt.Errorf("cash event on %s has zero amount", e.Date)
	}
	switch e.Category.Kind() {
	case KindCostInflow:
		if !e.Amount.IsPositive() {
			return fmt.Errorf("%s event on %s must have a positive amount, got %s", e.Category, e.Date, e.Amount)
		}
		if !e.Rate.IsPositive() {
			return fmt.Errorf("%s event on %s must have a positive rate, got %s", e.Category, e.Date, e.Rate)
		}
	case KindFreeInflow:
		if !e.Amount.IsPositive() {
			return fmt.Errorf("%s event on %s must have a positive amount, got %s", e.Category, e.Date, e.Amount)
		}
	case KindOutflow:
		if !e.Amount.IsNegative() {
			return fmt.Errorf("%s event on %s must have a negative amount, got %s", e.Category, e.Date, e.Amount)
		}
	}
	return nil
}

// Ledger holds the chronological cash history of one foreign-currency
// account. All derived state (balance, cost layers) is recomputed by
// replaying events, so editing history never leaves stale running totals.
type Ledger struct {
	currency string // the foreign currency held on this ledger
	home     string // the home (reporting) currency costs are expressed in
	events   []CashEvent
}

// NewLedger creates an empty ledger holding 'currency', with acquisition
// costs expressed in 'home'.
func NewLedger(currency, home string) *Ledger {
	return &Ledger{currency: currency, home: home}
}

// Currency returns the foreign currency held on this ledger.
func (l *Ledger) Currency() string { return l.currency }

// Home returns the home currency costs are expressed in.
func (l *Ledger) Home() string { return l.home }

// Append validates and records events, keeping the ledger sorted by date.
// The sort is stable so same-day events keep their append order, which is
// the tie-break used by the replay.
func (l *Ledger) Append(events ...CashEvent) error {
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
		if !e.Rate.IsZero() && e.Rate.Currency() != "" && e.Rate.Currency() != l.home {
			return fmt.Errorf("event rate currency %s does not match ledger home currency %s", e.Rate.Currency(), l.home)
		}
		e.Seq = len(l.events)
		l.events = append(l.events, e)
	}
	l.stableSort()
	return nil
}

// Delete soft-deletes the event with the given sequence number.
func (l *Ledger) Delete(seq int) error {
	for i := range l.events {
		if l.events[i].Seq == seq {
			l.events[i].Deleted = true
			return nil
		}
	}
	return fmt.Errorf("no event with sequence %d", seq)
}

func (l *Ledger) stableSort() {
	sort.SliceStable(l.events, func(i, j int) bool {
		return l.events[i].Date.Before(l.events[j].Date)
	})
}

// Events returns an iterator over all live (non-deleted) events in order.
func (l *Ledger) Events() iter.Seq[CashEvent] {
	return l.eventsUpTo(Date{y: 9999, m: 12, d: 31})
}

// eventsUpTo returns an iterator over live events up to and including 'on'.
func (l *Ledger) eventsUpTo(on Date) iter.Seq[CashEvent] {
	return func(yield func(CashEvent) bool) {
		for _, e := range l.events {
			if e.Date.After(on) {
				break
			}
			if e.Deleted {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Balance returns the sum of signed amounts at or before 'on'. It may be
// negative if margin was previously used.
func (l *Ledger) Balance(on Date) Quantity {
	var balance Quantity
	for e := range l.eventsUpTo(on) {
		balance = balance.Add(e.Amount)
	}
	return balance
}
