package bookkeeper

import (
	"errors"
	"fmt"
)

// BalanceAction is the caller's choice of what to do when a purchase
// amount exceeds the available ledger balance.
type BalanceAction int

const (
	// ActionReject refuses the purchase and mutates nothing.
	ActionReject BalanceAction = iota
	// ActionMargin lets the ledger balance go negative, pricing the
	// shortfall at the market rate.
	ActionMargin
	// ActionTopUp synthesizes a funding inflow for the shortfall and
	// reprices the purchase against the topped-up history.
	ActionTopUp
)

func (a BalanceAction) String() string {
	switch a {
	case ActionReject:
		return "reject"
	case ActionMargin:
		return "margin"
	case ActionTopUp:
		return "topup"
	default:
		return "unknown"
	}
}

// ParseBalanceAction parses a string into a BalanceAction.
func ParseBalanceAction(s string) (BalanceAction, error) {
	switch s {
	case "reject":
		return ActionReject, nil
	case "margin":
		return ActionMargin, nil
	case "topup":
		return ActionTopUp, nil
	default:
		return 0, fmt.Errorf("unknown balance action: %q", s)
	}
}

// Resolution is the outcome of pricing a purchase against a ledger,
// including how a shortfall was handled. Resolve never mutates the
// ledger: when a top-up event was synthesized it is returned here, and
// the caller commits it together with the purchase, or neither.
type Resolution struct {
	Quote   Quote
	Balance Quantity   // ledger balance after the purchase is committed
	TopUp   *CashEvent // synthesized funding event, nil unless action was topup
}

// Resolve prices a purchase of 'required' foreign units on 'on',
// resolving any shortfall according to 'action'. The market rate prices
// margin amounts, top-up events of a cost-bearing category, and the
// whole purchase when the ledger history yields no rate; a zero market
// rate means "unavailable". purchaseID links a synthesized top-up back to
// the purchase it funds.
func (l *Ledger) Resolve(on Date, required Quantity, action BalanceAction, topUpCategory EventCategory, marketRate Money, purchaseID string) (Resolution, error) {
	if !required.IsPositive() {
		return Resolution{}, fmt.Errorf("purchase amount must be positive, got %s", required)
	}

	balance := l.Balance(on)
	shortfall := required.Sub(balance)

	if !shortfall.IsPositive() {
		// Funds are sufficient, no action needed.
		quote, err := l.rateOrMarket(on, required, marketRate)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Quote: quote, Balance: balance.Sub(required)}, nil
	}

	switch action {
	case ActionReject:
		return Resolution{}, &InsufficientBalanceError{Required: required, Balance: balance, Shortfall: shortfall}

	case ActionMargin:
		if !marketRate.IsPositive() {
			return Resolution{}, &RateUnavailableError{Currency: l.currency, On: on}
		}
		var covered Quantity
		lifoRate := marketRate
		if balance.IsPositive() {
			covered = balance
			quote, err := l.RateForPurchase(on, covered)
			switch {
			case err == nil:
				lifoRate = quote.Rate
			case errors.As(err, new(*RateUnavailableError)):
				// The covered portion is free units only: no LIFO rate
				// exists, so the market rate prices it too.
			default:
				return Resolution{}, err
			}
		}
		quote := Quote{
			Rate:      BlendedRate(covered, lifoRate, shortfall, marketRate),
			Source:    SourceBlended,
			Amount:    required,
			Covered:   covered,
			Uncovered: shortfall,
		}
		if covered.IsZero() {
			quote.Source = SourceMarket
		}
		return Resolution{Quote: quote, Balance: balance.Sub(required)}, nil

	case ActionTopUp:
		if topUpCategory.Kind() == KindOutflow {
			return Resolution{}, fmt.Errorf("top-up category %s is not an inflow", topUpCategory)
		}
		if topUpCategory.Kind() == KindCostInflow && !marketRate.IsPositive() {
			return Resolution{}, &RateUnavailableError{Currency: l.currency, On: on}
		}
		topUp := NewCashEvent(on, topUpCategory, shortfall, marketRate, "top-up")
		if topUpCategory.Kind() == KindFreeInflow {
			topUp.Rate = Money{}
		}
		topUp.Funds = purchaseID

		// Reprice against a scratch copy so that nothing is committed
		// unless the caller persists both the top-up and the purchase.
		scratch := NewLedger(l.currency, l.home)
		scratch.events = append([]CashEvent(nil), l.events...)
		if err := scratch.Append(topUp); err != nil {
			return Resolution{}, err
		}
		quote, err := scratch.rateOrMarket(on, required, marketRate)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Quote: quote, Balance: balance.Add(shortfall).Sub(required), TopUp: &topUp}, nil

	default:
		return Resolution{}, fmt.Errorf("unknown balance action %d", action)
	}
}

// rateOrMarket prices a fully covered purchase from history, falling back
// to the market rate when the history yields no rate (free units only).
func (l *Ledger) rateOrMarket(on Date, amount Quantity, marketRate Money) (Quote, error) {
	quote, err := l.RateForPurchase(on, amount)
	if err == nil {
		return quote, nil
	}
	if errors.As(err, new(*RateUnavailableError)) && marketRate.IsPositive() {
		quote.Rate = marketRate.Round(ratePlaces).exact()
		quote.Source = SourceMarket
		return quote, nil
	}
	return quote, err
}
