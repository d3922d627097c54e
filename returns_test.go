package bookkeeper

import (
	"errors"
	"testing"
)

func contribute(on Date, amount float64) CashFlow {
	return CashFlow{Date: on, Amount: EUR(-amount)}
}

// A single contribution growing to exactly X×(1+r)^(T/365) must solve
// back to r.
func TestXIRR_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		days  int
		final float64
		want  Percent
	}{
		{"one year at 8%", 365, 1080, 8},
		{"two years at 8%", 730, 1166.4, 8},
		{"one year at -10%", 365, 900, -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flows := []CashFlow{contribute(day(1), 1000)}
			got, err := XIRR(flows, EUR(tt.final), day(1).Add(tt.days))
			if err != nil {
				t.Fatalf("XIRR() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("XIRR() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestXIRR_Withdrawal(t *testing.T) {
	// -1000, then everything out a year later: +500 withdrawn and 540
	// remaining value, 4% total over one year.
	flows := []CashFlow{
		contribute(day(1), 1000),
		{Date: day(1).Add(365), Amount: EUR(500)},
	}
	got, err := XIRR(flows, EUR(540), day(1).Add(365))
	if err != nil {
		t.Fatalf("XIRR() error = %v", err)
	}
	if want := Percent(4); !got.Equal(want) {
		t.Errorf("XIRR() = %v, want %v", got, want)
	}
}

func TestXIRR_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		flows []CashFlow
		final Money
	}{
		{"no flows", nil, Money{}},
		{"single flow", []CashFlow{contribute(day(1), 1000)}, Money{}},
		{"all contributions", []CashFlow{contribute(day(1), 1000), contribute(day(30), 500)}, Money{}},
		{"all positive", []CashFlow{{Date: day(1), Amount: EUR(100)}}, EUR(200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := XIRR(tt.flows, tt.final, day(90))
			if !errors.Is(err, ErrNotConverged) {
				t.Errorf("XIRR() error = %v, want ErrNotConverged", err)
			}
		})
	}
}

func TestModifiedDietz_NoFlows(t *testing.T) {
	got, err := ModifiedDietz(EUR(1000), EUR(1100), nil, day(1), day(11))
	if err != nil {
		t.Fatalf("ModifiedDietz() error = %v", err)
	}
	if want := Percent(10); !got.Equal(want) {
		t.Errorf("ModifiedDietz() = %v, want %v", got, want)
	}
}

// A contribution halfway through the period carries half its weight in
// the denominator.
func TestModifiedDietz_MidPeriodFlow(t *testing.T) {
	flows := []CashFlow{contribute(day(6), 500)}
	got, err := ModifiedDietz(EUR(1000), EUR(1600), flows, day(1), day(11))
	if err != nil {
		t.Fatalf("ModifiedDietz() error = %v", err)
	}
	// gain 1600−1000−500 = 100 over 1000 + 500×0.5 = 1250
	if want := Percent(8); !got.Equal(want) {
		t.Errorf("ModifiedDietz() = %v, want %v", got, want)
	}
}

// With no starting value the period re-anchors at the first flow, so the
// initial contribution is fully invested.
func TestModifiedDietz_FirstPeriod(t *testing.T) {
	flows := []CashFlow{contribute(day(6), 1000)}
	got, err := ModifiedDietz(Money{}, EUR(1100), flows, day(1), day(11))
	if err != nil {
		t.Fatalf("ModifiedDietz() error = %v", err)
	}
	if want := Percent(10); !got.Equal(want) {
		t.Errorf("ModifiedDietz() = %v, want %v", got, want)
	}
}

func TestModifiedDietz_Undefined(t *testing.T) {
	if _, err := ModifiedDietz(Money{}, Money{}, nil, day(1), day(11)); !errors.Is(err, ErrNotConverged) {
		t.Errorf("ModifiedDietz() error = %v, want ErrNotConverged", err)
	}
	if _, err := ModifiedDietz(EUR(1000), EUR(1100), nil, day(11), day(1)); err == nil {
		t.Error("ModifiedDietz() should reject an inverted period")
	}
}

func TestTimeWeightedReturn_NoFlows(t *testing.T) {
	valuations := []ValuationPoint{
		{Date: day(1), Value: EUR(1000)},
		{Date: day(11), Value: EUR(1100)},
	}
	got, err := TimeWeightedReturn(valuations, nil)
	if err != nil {
		t.Fatalf("TimeWeightedReturn() error = %v", err)
	}
	if want := Percent(10); !got.Equal(want) {
		t.Errorf("TimeWeightedReturn() = %v, want %v", got, want)
	}
}

// Two 10% sub-periods around a contribution chain to 21%, whatever the
// flow's size.
func TestTimeWeightedReturn_ChainsAroundFlow(t *testing.T) {
	valuations := []ValuationPoint{
		{Date: day(1), Value: EUR(1000)},
		{Date: day(6), Value: EUR(1600)}, // end of day, contribution included
		{Date: day(11), Value: EUR(1760)},
	}
	flows := []CashFlow{contribute(day(6), 500)}
	got, err := TimeWeightedReturn(valuations, flows)
	if err != nil {
		t.Fatalf("TimeWeightedReturn() error = %v", err)
	}
	if want := Percent(21); !got.Equal(want) {
		t.Errorf("TimeWeightedReturn() = %v, want %v", got, want)
	}
}

func TestTimeWeightedReturn_MissingValuation(t *testing.T) {
	valuations := []ValuationPoint{
		{Date: day(1), Value: EUR(1000)},
		{Date: day(11), Value: EUR(1500)},
	}
	flows := []CashFlow{contribute(day(6), 500)}
	_, err := TimeWeightedReturn(valuations, flows)
	var valErr *MissingValuationError
	if !errors.As(err, &valErr) {
		t.Fatalf("TimeWeightedReturn() error = %v, want MissingValuationError", err)
	}
	if valErr.On != day(6) {
		t.Errorf("On = %v, want %v", valErr.On, day(6))
	}
}

func TestTimeWeightedReturn_NeedsTwoPoints(t *testing.T) {
	if _, err := TimeWeightedReturn([]ValuationPoint{{Date: day(1), Value: EUR(1000)}}, nil); err == nil {
		t.Error("TimeWeightedReturn() should reject a single valuation point")
	}
}
