package bookkeeper

// RateSource tells how a purchase's exchange rate was derived.
type RateSource int

const (
	// SourceLIFO means the rate was derived entirely from ledger history.
	SourceLIFO RateSource = iota
	// SourceMarket means no history was usable and a market rate was applied.
	SourceMarket
	// SourceBlended means history covered part of the amount and a market
	// rate priced the margin remainder.
	SourceBlended
)

func (s RateSource) String() string {
	switch s {
	case SourceLIFO:
		return "lifo"
	case SourceMarket:
		return "market"
	case SourceBlended:
		return "blended"
	default:
		return "unknown"
	}
}

// ratePlaces is the number of fractional digits a reported rate carries.
const ratePlaces = 6

// Quote is the breakdown of pricing a foreign-currency purchase against a
// ledger's history.
type Quote struct {
	Rate       Money      // weighted per-unit home cost, rounded to 6 digits
	Source     RateSource // how the rate was derived
	Amount     Quantity   // the requested purchase amount
	Covered    Quantity   // portion satisfied by the ledger (free + layers)
	Uncovered  Quantity   // portion beyond the available balance
	FreeUsed   Quantity   // zero-cost units consumed, excluded from the rate
	LayerUnits Quantity   // units consumed from cost layers
	Cost       Money      // home-currency cost of the layer units
}

// RateForPurchase prices a purchase of 'amount' foreign units on 'on' by
// consuming the ledger's history in LIFO order: the free pool first (zero
// cost, excluded from the weighted rate), then cost layers newest-first.
// Free money reduces the home-currency cost basis but never dilutes the
// rate. If the amount exceeds the available balance, the covered portion
// is priced and Uncovered reports the remainder for the caller to resolve.
//
// When no cost layer is touched, no rate is derivable and a
// *RateUnavailableError is returned alongside the partial quote, so the
// caller can still blend the covered portion against a market rate.
func (l *Ledger) RateForPurchase(on Date, amount Quantity) (Quote, error) {
	q := Quote{Amount: amount, Source: SourceLIFO}
	if !amount.IsPositive() {
		return q, &RateUnavailableError{Currency: l.currency, On: on}
	}

	s := l.stackAt(on)
	q.FreeUsed, q.LayerUnits, q.Cost = s.take(amount)
	q.Covered = q.FreeUsed.Add(q.LayerUnits)
	q.Uncovered = amount.Sub(q.Covered)

	if q.LayerUnits.IsZero() {
		// Covered by free units only, or nothing available at all:
		// there is no cost to weight a rate from.
		return q, &RateUnavailableError{Currency: l.currency, On: on}
	}
	q.Rate = q.Cost.Div(q.LayerUnits).Round(ratePlaces).exact()
	return q, nil
}

// BlendedRate blends the LIFO rate on the covered portion of a purchase
// with the market rate on the margin portion:
//
//	(covered×lifo + margin×market) / (covered + margin)
//
// With nothing covered the blend is exactly the market rate.
func BlendedRate(covered Quantity, lifoRate Money, margin Quantity, marketRate Money) Money {
	if !covered.IsPositive() {
		return marketRate.Round(ratePlaces).exact()
	}
	total := lifoRate.Mul(covered).Add(marketRate.Mul(margin))
	return total.Div(covered.Add(margin)).Round(ratePlaces).exact()
}
