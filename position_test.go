package bookkeeper

import (
	"errors"
	"testing"
)

func buy(on Date, ticker string, shares, price, fee, rate float64) StockTransaction {
	return StockTransaction{
		Date: on, Ticker: ticker, Type: TxBuy,
		Shares: Q(shares), Price: USD(price), Fee: USD(fee), Rate: EUR(rate),
	}
}

func sell(on Date, ticker string, shares, price, fee, rate float64) StockTransaction {
	return StockTransaction{
		Date: on, Ticker: ticker, Type: TxSell,
		Shares: Q(shares), Price: USD(price), Fee: USD(fee), Rate: EUR(rate),
	}
}

func TestNewPosition_WeightedAverage(t *testing.T) {
	txs := []StockTransaction{
		buy(day(1), "AAPL", 10, 100, 0, 0.9),
		buy(day(2), "AAPL", 10, 120, 0, 0.95),
	}
	p, err := NewPosition("AAPL", txs)
	if err != nil {
		t.Fatalf("NewPosition() error = %v", err)
	}
	if got, want := p.Shares, Q(20); !got.Equal(want) {
		t.Errorf("Shares = %v, want %v", got, want)
	}
	if got, want := p.Cost, USD(2200); !got.Equal(want) {
		t.Errorf("Cost = %v, want %v", got, want)
	}
	if got, want := p.AverageCost(), USD(110); !got.Equal(want) {
		t.Errorf("AverageCost() = %v, want %v", got, want)
	}
	// 1000×0.9 + 1200×0.95 = 2040 home
	if got, want := p.CostHome, EUR(2040); !got.Equal(want) {
		t.Errorf("CostHome = %v, want %v", got, want)
	}
}

// Selling removes cost proportionally: the average cost per remaining
// share does not move.
func TestNewPosition_SellKeepsAverage(t *testing.T) {
	txs := []StockTransaction{
		buy(day(1), "AAPL", 10, 100, 0, 0.9),
		buy(day(2), "AAPL", 10, 120, 0, 0.95),
		sell(day(3), "AAPL", 5, 130, 0, 0.92),
	}
	p, err := NewPosition("AAPL", txs)
	if err != nil {
		t.Fatalf("NewPosition() error = %v", err)
	}
	if got, want := p.Shares, Q(15); !got.Equal(want) {
		t.Errorf("Shares = %v, want %v", got, want)
	}
	if got, want := p.AverageCost(), USD(110); !got.Equal(want) {
		t.Errorf("AverageCost() = %v, want %v", got, want)
	}
	if got, want := p.CostHome, EUR(1530); !got.Equal(want) {
		t.Errorf("CostHome = %v, want %v", got, want)
	}
}

func TestNewPosition_Oversell(t *testing.T) {
	txs := []StockTransaction{
		buy(day(1), "AAPL", 10, 100, 0, 0.9),
		sell(day(2), "AAPL", 15, 130, 0, 0.92),
		buy(day(3), "AAPL", 20, 100, 0, 0.9), // a later buy does not save it
	}
	_, err := NewPosition("AAPL", txs)
	var sellErr *InvalidSellQuantityError
	if !errors.As(err, &sellErr) {
		t.Fatalf("NewPosition() error = %v, want InvalidSellQuantityError", err)
	}
	if got, want := sellErr.Sell, Q(15); !got.Equal(want) {
		t.Errorf("Sell = %v, want %v", got, want)
	}
	if got, want := sellErr.Held, Q(10); !got.Equal(want) {
		t.Errorf("Held = %v, want %v", got, want)
	}
}

// A split rescales shares without touching cost: the average halves on a
// 2-for-1.
func TestNewPosition_Split(t *testing.T) {
	txs := []StockTransaction{
		buy(day(1), "AAPL", 10, 100, 0, 0.9),
		{Date: day(2), Ticker: "AAPL", Type: TxSplit, Split: Q(2)},
	}
	p, err := NewPosition("AAPL", txs)
	if err != nil {
		t.Fatalf("NewPosition() error = %v", err)
	}
	if got, want := p.Shares, Q(20); !got.Equal(want) {
		t.Errorf("Shares = %v, want %v", got, want)
	}
	if got, want := p.Cost, USD(1000); !got.Equal(want) {
		t.Errorf("Cost = %v, want %v", got, want)
	}
	if got, want := p.AverageCost(), USD(50); !got.Equal(want) {
		t.Errorf("AverageCost() = %v, want %v", got, want)
	}
}

func TestNewPosition_Adjust(t *testing.T) {
	txs := []StockTransaction{
		buy(day(1), "AAPL", 10, 100, 0, 0.9),
		{Date: day(2), Ticker: "AAPL", Type: TxAdjust, Shares: Q(2), Notes: "spin-off award"},
	}
	p, err := NewPosition("AAPL", txs)
	if err != nil {
		t.Fatalf("NewPosition() error = %v", err)
	}
	if got, want := p.Shares, Q(12); !got.Equal(want) {
		t.Errorf("Shares = %v, want %v", got, want)
	}
	// Adjusted shares carry no cost.
	if got, want := p.Cost, USD(1000); !got.Equal(want) {
		t.Errorf("Cost = %v, want %v", got, want)
	}

	txs[1].Shares = Q(-15)
	if _, err := NewPosition("AAPL", txs); err == nil {
		t.Error("NewPosition() should reject an adjustment below zero shares")
	}
}

func TestNewPosition_FiltersDeletedAndOtherTickers(t *testing.T) {
	txs := []StockTransaction{
		buy(day(1), "AAPL", 10, 100, 0, 0.9),
		buy(day(2), "MSFT", 5, 200, 0, 0.9),
		{Date: day(3), Ticker: "AAPL", Type: TxBuy, Shares: Q(10), Price: USD(100), Rate: EUR(0.9), Deleted: true},
	}
	p, err := NewPosition("AAPL", txs)
	if err != nil {
		t.Fatalf("NewPosition() error = %v", err)
	}
	if got, want := p.Shares, Q(10); !got.Equal(want) {
		t.Errorf("Shares = %v, want %v", got, want)
	}
}

func TestRealizedPnL(t *testing.T) {
	before := Position{Ticker: "AAPL", Shares: Q(20), Cost: USD(2200), CostHome: EUR(2040)}
	s := sell(day(3), "AAPL", 5, 130, 2, 0.92)

	got, err := RealizedPnL(before, s, PnLOptions{})
	if err != nil {
		t.Fatalf("RealizedPnL() error = %v", err)
	}
	// proceeds (5×130 − 2)×0.92 = 596.16, basis 2040×5/20 = 510
	if want := EUR(86.16); !got.Equal(want) {
		t.Errorf("RealizedPnL() = %v, want %v", got, want)
	}
}

// With proceeds truncation the subtotal drops to whole units before the
// fee applies.
func TestRealizedPnL_TruncateProceeds(t *testing.T) {
	before := Position{Ticker: "AAPL", Shares: Q(10), Cost: USD(1000), CostHome: EUR(1000)}
	s := sell(day(2), "AAPL", 10, 107.77, 3, 1)

	got, err := RealizedPnL(before, s, PnLOptions{TruncateProceeds: true})
	if err != nil {
		t.Fatalf("RealizedPnL() error = %v", err)
	}
	// subtotal 1077.70 truncates to 1077, net 1074, basis 1000
	if want := EUR(74); !got.Equal(want) {
		t.Errorf("RealizedPnL() = %v, want %v", got, want)
	}

	got, err = RealizedPnL(before, s, PnLOptions{})
	if err != nil {
		t.Fatalf("RealizedPnL() error = %v", err)
	}
	if want := EUR(74.7); !got.Equal(want) {
		t.Errorf("RealizedPnL() = %v, want %v", got, want)
	}
}

func TestRealizedPnL_Oversell(t *testing.T) {
	before := Position{Ticker: "AAPL", Shares: Q(5), Cost: USD(500), CostHome: EUR(500)}
	s := sell(day(2), "AAPL", 10, 130, 0, 1)
	_, err := RealizedPnL(before, s, PnLOptions{})
	var sellErr *InvalidSellQuantityError
	if !errors.As(err, &sellErr) {
		t.Errorf("RealizedPnL() error = %v, want InvalidSellQuantityError", err)
	}
}

func TestUnrealizedPnL(t *testing.T) {
	p := Position{Ticker: "AAPL", Shares: Q(20), Cost: USD(2200), CostHome: EUR(2040)}

	amount, pct := UnrealizedPnL(p, USD(130), EUR(0.9))
	// 20×130×0.9 = 2340 home, basis 2040
	if want := EUR(300); !amount.Equal(want) {
		t.Errorf("amount = %v, want %v", amount, want)
	}
	if want := Percent(100 * 300.0 / 2040.0); !pct.Equal(want) {
		t.Errorf("pct = %v, want %v", pct, want)
	}
}

func TestUnrealizedPnL_EmptyPosition(t *testing.T) {
	amount, pct := UnrealizedPnL(Position{Ticker: "AAPL"}, USD(130), EUR(0.9))
	if !amount.IsZero() {
		t.Errorf("amount = %v, want zero", amount)
	}
	if !pct.Equal(0) {
		t.Errorf("pct = %v, want 0", pct)
	}
}

func TestStockTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tx      StockTransaction
		wantErr bool
	}{
		{"valid buy", buy(day(1), "AAPL", 10, 100, 1, 0.9), false},
		{"no ticker", buy(day(1), "", 10, 100, 1, 0.9), true},
		{"zero shares", buy(day(1), "AAPL", 0, 100, 1, 0.9), true},
		{"negative price", sell(day(1), "AAPL", 10, -100, 1, 0.9), true},
		{"negative fee", buy(day(1), "AAPL", 10, 100, -1, 0.9), true},
		{"missing rate", buy(day(1), "AAPL", 10, 100, 1, 0), true},
		{"valid split", StockTransaction{Date: day(1), Ticker: "AAPL", Type: TxSplit, Split: Q(2)}, false},
		{"zero split ratio", StockTransaction{Date: day(1), Ticker: "AAPL", Type: TxSplit}, true},
		{"valid adjust", StockTransaction{Date: day(1), Ticker: "AAPL", Type: TxAdjust, Shares: Q(-1)}, false},
		{"zero adjust", StockTransaction{Date: day(1), Ticker: "AAPL", Type: TxAdjust}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
