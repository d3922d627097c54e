package bookkeeper

import (
	"strings"
	"testing"
)

func TestCashLedger_RoundTrip(t *testing.T) {
	original := usdLedger(
		inflow(day(1), 100, 30.5),
		free(day(2), 50),
		spend(day(3), 60),
	)
	if err := original.Delete(1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var buf strings.Builder
	if err := EncodeCashLedger(&buf, original); err != nil {
		t.Fatalf("EncodeCashLedger() error = %v", err)
	}

	decoded, err := DecodeCashLedger(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("DecodeCashLedger() error = %v", err)
	}
	if got, want := decoded.Currency(), "USD"; got != want {
		t.Errorf("Currency() = %q, want %q", got, want)
	}
	if got, want := decoded.Home(), "EUR"; got != want {
		t.Errorf("Home() = %q, want %q", got, want)
	}
	if got, want := decoded.Balance(day(3)), original.Balance(day(3)); !got.Equal(want) {
		t.Errorf("Balance() = %v, want %v", got, want)
	}

	quote, err := decoded.RateForPurchase(day(4), Q(30))
	if err != nil {
		t.Fatalf("RateForPurchase() error = %v", err)
	}
	if got, want := quote.Rate, EUR(30.5); !got.Equal(want) {
		t.Errorf("Rate = %v, want %v", got, want)
	}
}

func TestCashEvent_MarshalFieldOrder(t *testing.T) {
	e := NewCashEvent(day(1), CategoryPurchase, Q(100), EUR(30.5), "broker transfer")
	got, err := e.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"category":"purchase","date":"2025-01-01","amount":100,"rate":30.5,"memo":"broker transfer"}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

// Free inflows carry no rate field at all.
func TestCashEvent_MarshalFreeInflow(t *testing.T) {
	e := free(day(2), 50)
	got, err := e.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"category":"interest","date":"2025-01-02","amount":50}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestDecodeCashLedger_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty stream", ""},
		{"header missing home", `{"currency": "USD"}`},
		{"unknown category", `{"currency": "USD", "home": "EUR"}` + "\n" + `{"category": "dividend", "date": "2025-01-01", "amount": 100}`},
		{"invalid event", `{"currency": "USD", "home": "EUR"}` + "\n" + `{"category": "purchase", "date": "2025-01-01", "amount": 100}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeCashLedger(strings.NewReader(tt.data)); err == nil {
				t.Error("DecodeCashLedger() expected an error")
			}
		})
	}
}

func TestTransactions_RoundTrip(t *testing.T) {
	original := []StockTransaction{
		buy(day(1), "AAPL", 10, 100, 1.5, 0.9),
		{Date: day(2), Ticker: "AAPL", Type: TxSplit, Split: Q(2), Notes: "2-for-1"},
		{Date: day(3), Ticker: "AAPL", Type: TxAdjust, Shares: Q(-1)},
	}
	s := sell(day(4), "AAPL", 5, 60, 1, 0.92)
	s.Realized = EUR(42.5)
	original = append(original, s)

	var buf strings.Builder
	if err := EncodeTransactions(&buf, original); err != nil {
		t.Fatalf("EncodeTransactions() error = %v", err)
	}

	decoded, err := DecodeTransactions(strings.NewReader(buf.String()), "EUR")
	if err != nil {
		t.Fatalf("DecodeTransactions() error = %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("decoded %d transactions, want %d", len(decoded), len(original))
	}
	for i := range decoded {
		if decoded[i].Type != original[i].Type {
			t.Errorf("tx %d: Type = %v, want %v", i, decoded[i].Type, original[i].Type)
		}
		if !decoded[i].Shares.Equal(original[i].Shares) {
			t.Errorf("tx %d: Shares = %v, want %v", i, decoded[i].Shares, original[i].Shares)
		}
	}
	if got, want := decoded[0].Price, USD(100); !got.Equal(want) {
		t.Errorf("Price = %v, want %v", got, want)
	}
	if got, want := decoded[0].Fee, USD(1.5); !got.Equal(want) {
		t.Errorf("Fee = %v, want %v", got, want)
	}
	if got, want := decoded[3].Realized, EUR(42.5); !got.Equal(want) {
		t.Errorf("Realized = %v, want %v", got, want)
	}

	// The round-tripped history folds to the same position.
	p1, err := NewPosition("AAPL", original)
	if err != nil {
		t.Fatalf("NewPosition(original) error = %v", err)
	}
	p2, err := NewPosition("AAPL", decoded)
	if err != nil {
		t.Fatalf("NewPosition(decoded) error = %v", err)
	}
	if !p1.Shares.Equal(p2.Shares) || !p1.Cost.Equal(p2.Cost) {
		t.Errorf("decoded position %+v, want %+v", p2, p1)
	}
}

func TestDecodeTransactions_RejectsInvalid(t *testing.T) {
	data := `{"type": "sell", "date": "2025-01-04", "ticker": "AAPL", "shares": -5, "price": 60, "currency": "USD", "rate": 0.92}`
	if _, err := DecodeTransactions(strings.NewReader(data), "EUR"); err == nil {
		t.Error("DecodeTransactions() should reject a negative share count")
	}
}
