package bookkeeper

// layer is a remaining, not-yet-consumed quantity of foreign currency
// acquired at a specific historical cost, used for LIFO rate derivation.
type layer struct {
	Date     Date
	Units    Quantity
	UnitCost Money // home-currency cost of one unit
}

type layers []layer

// consume takes up to 'units' from the layers, newest first, and returns
// the home-currency cost of what was taken, the quantity actually taken,
// and the remaining layers.
func (l layers) consume(units Quantity) (cost Money, taken Quantity, rest layers) {
	rest = l
	for len(rest) > 0 && units.IsPositive() {
		current := rest[0]
		if current.Units.GreaterThan(units) {
			// Partial consumption of the newest layer.
			cost = cost.Add(current.UnitCost.Mul(units))
			taken = taken.Add(units)
			rest[0].Units = current.Units.Sub(units)
			return cost, taken, rest
		}
		// Full consumption of the newest layer.
		cost = cost.Add(current.UnitCost.Mul(current.Units))
		taken = taken.Add(current.Units)
		units = units.Sub(current.Units)
		rest = rest[1:]
	}
	return cost, taken, rest
}

// units returns the total remaining units across all layers.
func (l layers) units() Quantity {
	var total Quantity
	for _, c := range l {
		total = total.Add(c.Units)
	}
	return total
}

// layerStack is the derived consumption state of a ledger at a point in
// time: cost layers newest-first, a pool of zero-cost free units, and the
// overdraft left by previous margin purchases.
type layerStack struct {
	layers    layers   // newest cost-bearing inflow first
	free      Quantity // units received without acquisition cost
	overdraft Quantity // units spent beyond what was available
}

// available returns the units that can still be consumed.
func (s layerStack) available() Quantity {
	return s.free.Add(s.layers.units())
}

// take consumes units from the stack: free pool first, then cost layers
// newest-first. It returns the free units used, the layer units used and
// their home-currency cost. Anything beyond the available balance is left
// to the caller to report as uncovered.
func (s *layerStack) take(units Quantity) (freeUsed, layerUnits Quantity, cost Money) {
	freeUsed = units.Min(s.free)
	s.free = s.free.Sub(freeUsed)
	units = units.Sub(freeUsed)
	cost, layerUnits, s.layers = s.layers.consume(units)
	return freeUsed, layerUnits, cost
}

// stackAt rebuilds the layer stack by replaying live events up to and
// including 'on'. Same-day events replay in append order. The replay is a
// pure fold: the ledger itself is never mutated.
func (l *Ledger) stackAt(on Date) layerStack {
	var s layerStack
	for e := range l.eventsUpTo(on) {
		switch e.Category.Kind() {
		case KindCostInflow:
			// Newest layer goes on top.
			s.layers = append(layers{{Date: e.Date, Units: e.Amount, UnitCost: e.Rate}}, s.layers...)
		case KindFreeInflow:
			s.free = s.free.Add(e.Amount)
		case KindOutflow:
			need := e.Amount.Neg()
			freeUsed, layerUnits, _ := s.take(need)
			short := need.Sub(freeUsed).Sub(layerUnits)
			if short.IsPositive() {
				// The ledger went negative here: a margin purchase.
				s.overdraft = s.overdraft.Add(short)
			}
		}
	}
	return s
}
