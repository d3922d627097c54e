package bookkeeper

import (
	"fmt"
	"sort"
)

// TxType identifies a stock transaction.
type TxType int

const (
	TxBuy TxType = iota
	TxSell
	TxSplit
	TxAdjust
)

func (t TxType) String() string {
	switch t {
	case TxBuy:
		return "buy"
	case TxSell:
		return "sell"
	case TxSplit:
		return "split"
	case TxAdjust:
		return "adjust"
	default:
		return "unknown"
	}
}

// ParseTxType parses a string into a TxType.
func ParseTxType(s string) (TxType, error) {
	switch s {
	case "buy":
		return TxBuy, nil
	case "sell":
		return TxSell, nil
	case "split":
		return TxSplit, nil
	case "adjust":
		return TxAdjust, nil
	default:
		return 0, fmt.Errorf("unknown transaction type: %q", s)
	}
}

// StockTransaction records one trade, split or share adjustment on a
// ticker within a portfolio. A sell's realized P&L is fixed at creation
// time and never recomputed when history is edited later.
type StockTransaction struct {
	Date     Date
	Ticker   string
	Type     TxType
	Shares   Quantity // share count, positive for buy/sell, signed for adjust
	Price    Money    // per-share price in the ticker's currency
	Fee      Money    // trading fee in the ticker's currency
	Rate     Money    // home cost of one unit of the ticker's currency, 1 for home tickers
	Split    Quantity // split ratio, e.g. 2 for a 2-for-1 split
	Realized Money    // home-currency P&L, recorded on sells at creation
	Notes    string
	Deleted  bool
}

// Validate checks the transaction's invariants for its type.
func (t StockTransaction) Validate() error {
	if t.Ticker == "" {
		return fmt.Errorf("transaction on %s has no ticker", t.Date)
	}
	switch t.Type {
	case TxBuy, TxSell:
		if !t.Shares.IsPositive() {
			return fmt.Errorf("%s of %s on %s must have a positive share count, got %s", t.Type, t.Ticker, t.Date, t.Shares)
		}
		if !t.Price.IsPositive() {
			return fmt.Errorf("%s of %s on %s must have a positive price, got %s", t.Type, t.Ticker, t.Date, t.Price)
		}
		if t.Fee.IsNegative() {
			return fmt.Errorf("%s of %s on %s must have a non-negative fee, got %s", t.Type, t.Ticker, t.Date, t.Fee)
		}
		if !t.Rate.IsPositive() {
			return fmt.Errorf("%s of %s on %s must have a positive rate, got %s", t.Type, t.Ticker, t.Date, t.Rate)
		}
	case TxSplit:
		if !t.Split.IsPositive() {
			return fmt.Errorf("split of %s on %s must have a positive ratio, got %s", t.Ticker, t.Date, t.Split)
		}
	case TxAdjust:
		if t.Shares.IsZero() {
			return fmt.Errorf("adjustment of %s on %s must have a non-zero share count", t.Ticker, t.Date)
		}
	default:
		return fmt.Errorf("unknown transaction type %d", t.Type)
	}
	return nil
}

// Position is the weighted-average aggregate of a ticker's history: the
// shares held and what they cost, in both the ticker's currency and the
// home currency. It is derived, never stored.
type Position struct {
	Ticker   string
	Shares   Quantity
	Cost     Money // total cost in the ticker's currency
	CostHome Money // total cost in the home currency
}

// AverageCost returns the per-share cost in the ticker's currency.
func (p Position) AverageCost() Money {
	if p.Shares.IsZero() {
		return Money{cur: p.Cost.cur}
	}
	return p.Cost.Div(p.Shares)
}

// NewPosition folds a ticker's live transactions, in chronological order,
// into its current position using the weighted-average cost method: buys
// add shares and cost, sells remove shares and a proportional slice of
// cost (leaving the average untouched), splits rescale shares without
// changing cost, adjustments add or remove shares at zero cost.
//
// Each sell is validated against the shares held on its date; an
// oversell yields an *InvalidSellQuantityError regardless of later buys.
func NewPosition(ticker string, transactions []StockTransaction) (Position, error) {
	ordered := make([]StockTransaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Deleted || t.Ticker != ticker {
			continue
		}
		ordered = append(ordered, t)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	p := Position{Ticker: ticker}
	for _, t := range ordered {
		if err := t.Validate(); err != nil {
			return Position{}, err
		}
		switch t.Type {
		case TxBuy:
			cost := t.Price.Mul(t.Shares).Add(t.Fee)
			p.Shares = p.Shares.Add(t.Shares)
			p.Cost = p.Cost.Add(cost)
			p.CostHome = p.CostHome.Add(t.Rate.Mul(Q(cost.value)))
		case TxSell:
			if t.Shares.GreaterThan(p.Shares) {
				return Position{}, &InvalidSellQuantityError{Ticker: ticker, On: t.Date, Sell: t.Shares, Held: p.Shares}
			}
			// Remove cost proportionally: the average cost per remaining
			// share does not move.
			p.Cost = p.Cost.Sub(p.Cost.Mul(t.Shares).Div(p.Shares))
			p.CostHome = p.CostHome.Sub(p.CostHome.Mul(t.Shares).Div(p.Shares))
			p.Shares = p.Shares.Sub(t.Shares)
		case TxSplit:
			p.Shares = p.Shares.Mul(t.Split)
		case TxAdjust:
			shares := p.Shares.Add(t.Shares)
			if shares.IsNegative() {
				return Position{}, &InvalidSellQuantityError{Ticker: ticker, On: t.Date, Sell: t.Shares.Neg(), Held: p.Shares}
			}
			p.Shares = shares
		}
	}
	return p, nil
}

// PnLOptions tunes realized P&L to market-specific settlement rules.
type PnLOptions struct {
	// TruncateProceeds truncates the sale subtotal to whole currency
	// units before the fee is subtracted, as some exchanges settle.
	TruncateProceeds bool
}

// RealizedPnL computes the home-currency profit or loss locked in by a
// sell, given the position held immediately before it:
//
//	(price×shares − fee) × rate − proportional home cost basis removed
func RealizedPnL(before Position, sell StockTransaction, opts PnLOptions) (Money, error) {
	if err := sell.Validate(); err != nil {
		return Money{}, err
	}
	if sell.Type != TxSell {
		return Money{}, fmt.Errorf("realized P&L applies to sells, got %s", sell.Type)
	}
	if sell.Shares.GreaterThan(before.Shares) {
		return Money{}, &InvalidSellQuantityError{Ticker: sell.Ticker, On: sell.Date, Sell: sell.Shares, Held: before.Shares}
	}

	subtotal := sell.Price.Mul(sell.Shares)
	if opts.TruncateProceeds {
		subtotal = subtotal.Truncate()
	}
	net := subtotal.Sub(sell.Fee)
	proceedsHome := sell.Rate.Mul(Q(net.value))
	basisHome := before.CostHome.Mul(sell.Shares).Div(before.Shares)
	return proceedsHome.Sub(basisHome), nil
}

// UnrealizedPnL computes the paper profit on a position against an
// externally supplied current price and exchange rate, as a home-currency
// amount and as a percentage of the home cost basis.
func UnrealizedPnL(p Position, price, rate Money) (Money, Percent) {
	valueHome := rate.Mul(Q(price.Mul(p.Shares).value))
	amount := valueHome.Sub(p.CostHome)
	var pct Percent
	if !p.CostHome.IsZero() {
		pct = Percent(100 * amount.AsFloat() / p.CostHome.AsFloat())
	}
	return amount, pct
}
