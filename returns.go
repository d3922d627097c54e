package bookkeeper

import (
	"fmt"
	"math"
	"sort"
)

// CashFlow is an external capital movement for return calculations:
// negative amounts are contributions into the portfolio, positive amounts
// are withdrawals. Flows are supplied by the caller, already netted of
// any realized P&L double counting.
type CashFlow struct {
	Date   Date
	Amount Money
}

// ValuationPoint is a snapshot of the portfolio's total value on a date.
type ValuationPoint struct {
	Date  Date
	Value Money
}

const (
	daysPerYear   = 365.0 // actual/365 day-count convention
	maxIterations = 100   // hard cap bounds worst-case latency on pathological inputs
	epsilon       = 1e-7
)

// XIRR computes the annualized internal rate of return of an irregular
// cash-flow series, with a final synthetic inflow of finalValue on
// finalDate. It solves Σ CFᵢ/(1+r)^(tᵢ/365) = 0 by Newton-Raphson from an
// initial guess of 10%, falling back to bisection when Newton drifts.
//
// XIRR is undefined for degenerate patterns (no flows, all flows of one
// sign) and for series where the root-finding does not converge; these
// return ErrNotConverged, which callers should display as "N/A".
func XIRR(flows []CashFlow, finalValue Money, finalDate Date) (Percent, error) {
	amounts := make([]float64, 0, len(flows)+1)
	dates := make([]Date, 0, len(flows)+1)
	for _, f := range flows {
		if f.Amount.IsZero() {
			continue
		}
		amounts = append(amounts, f.Amount.AsFloat())
		dates = append(dates, f.Date)
	}
	if !finalValue.IsZero() {
		amounts = append(amounts, finalValue.AsFloat())
		dates = append(dates, finalDate)
	}
	if len(amounts) < 2 {
		return 0, ErrNotConverged
	}

	var hasInflow, hasOutflow bool
	t0 := dates[0]
	for i, a := range amounts {
		if a > 0 {
			hasInflow = true
		} else {
			hasOutflow = true
		}
		if dates[i].Before(t0) {
			t0 = dates[i]
		}
	}
	if !hasInflow || !hasOutflow {
		return 0, ErrNotConverged
	}

	// years[i] is the actual/365 time of flow i, measured from the earliest flow.
	years := make([]float64, len(amounts))
	for i := range amounts {
		years[i] = float64(dates[i].Sub(t0)) / daysPerYear
	}

	npv := func(r float64) float64 {
		var sum float64
		for i, a := range amounts {
			sum += a / math.Pow(1+r, years[i])
		}
		return sum
	}
	dnpv := func(r float64) float64 {
		var sum float64
		for i, a := range amounts {
			sum -= years[i] * a / math.Pow(1+r, years[i]+1)
		}
		return sum
	}

	// Newton-Raphson.
	r := 0.1
	for i := 0; i < maxIterations; i++ {
		f := npv(r)
		if math.Abs(f) < epsilon {
			return Percent(100 * r), nil
		}
		d := dnpv(r)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			break
		}
		next := r - f/d
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		if math.Abs(next-r) < epsilon {
			r = next
			if math.Abs(npv(r)) < epsilon {
				return Percent(100 * r), nil
			}
			break
		}
		r = next
	}

	// Bisection fallback: scan for a bracketing sign change.
	lo, hi := -0.9999, -0.9999
	flo := npv(lo)
	found := false
	for x := -0.5; x <= 10; x += 0.5 {
		fx := npv(x)
		if flo*fx <= 0 {
			hi, found = x, true
			break
		}
		lo, flo = x, fx
	}
	if !found {
		return 0, ErrNotConverged
	}
	for i := 0; i < 2*maxIterations; i++ {
		mid := (lo + hi) / 2
		fm := npv(mid)
		if math.Abs(fm) < epsilon {
			return Percent(100 * mid), nil
		}
		if flo*fm < 0 {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	return Percent(100 * (lo + hi) / 2), nil
}

// ModifiedDietz computes the money-weighted return over [from, to]
// without iterative solving, by weighting each intermediate flow with the
// fraction of the period it was invested:
//
//	(end − start − ΣCFᵢ) / (start + Σ CFᵢ×weightᵢ) × 100
//
// With no start value (a portfolio's first period) the period is
// re-anchored at the first flow. With zero flows it reduces to the simple
// return (end−start)/start.
func ModifiedDietz(start, end Money, flows []CashFlow, from, to Date) (Percent, error) {
	if to.Before(from) {
		return 0, fmt.Errorf("period end %s is before start %s", to, from)
	}

	// First period: no start value, anchor the weights at the first flow.
	if start.IsZero() && len(flows) > 0 {
		first := flows[0].Date
		for _, f := range flows {
			if f.Date.Before(first) {
				first = f.Date
			}
		}
		if from.Before(first) {
			from = first
		}
	}

	totalDays := float64(to.Sub(from))
	var netFlow, weightedFlow float64
	for _, f := range flows {
		if f.Date.Before(from) || f.Date.After(to) {
			continue
		}
		amount := f.Amount.AsFloat()
		// Flows are signed investor-side: a contribution (negative) adds
		// capital to the portfolio.
		invested := -amount
		netFlow += invested
		if totalDays > 0 {
			weight := (totalDays - float64(f.Date.Sub(from))) / totalDays
			weightedFlow += invested * weight
		}
	}

	gain := end.AsFloat() - start.AsFloat() - netFlow
	denominator := start.AsFloat() + weightedFlow
	if denominator > 0 {
		return Percent(100 * gain / denominator), nil
	}
	if netFlow != 0 {
		// No starting value but capital moved: weight against the net flow.
		return Percent(100 * gain / netFlow), nil
	}
	return 0, ErrNotConverged
}

// TimeWeightedReturn chains sub-period returns split at each cash flow,
// neutralizing the effect of flow timing. Each valuation point carries
// the portfolio's end-of-day value, including any same-day flow; the
// sub-period ending at a flow's date is computed net of that flow:
//
//	Π (Vᵢ − flowᵢ − Vᵢ₋₁)/Vᵢ₋₁ − 1
//
// Every flow needs a valuation point on its date; a missing one yields a
// *MissingValuationError naming the gap instead of a guess.
func TimeWeightedReturn(valuations []ValuationPoint, flows []CashFlow) (Percent, error) {
	if len(valuations) < 2 {
		return 0, fmt.Errorf("need at least two valuation points, got %d", len(valuations))
	}
	points := make([]ValuationPoint, len(valuations))
	copy(points, valuations)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	// The portfolio's own gains at a flow date must be separable: each
	// flow needs a valuation on its exact date.
	external := make(map[Date]float64, len(flows))
	for _, f := range flows {
		valued := false
		for _, p := range points {
			if p.Date == f.Date {
				valued = true
				break
			}
		}
		if !valued {
			return 0, &MissingValuationError{On: f.Date}
		}
		// Investor-side sign: contributions (negative) add value to the
		// portfolio at the boundary.
		external[f.Date] -= f.Amount.AsFloat()
	}

	linked := 1.0
	for i := 1; i < len(points); i++ {
		startValue := points[i-1].Value.AsFloat()
		endValue := points[i].Value.AsFloat()
		flow := external[points[i].Date]
		if startValue == 0 {
			if endValue-flow == 0 {
				continue
			}
			return 0, fmt.Errorf("zero valuation on %s makes the sub-period return undefined", points[i-1].Date)
		}
		linked *= (endValue - flow - startValue)/startValue + 1
	}
	return Percent(100 * (linked - 1)), nil
}
