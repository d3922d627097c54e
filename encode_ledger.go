package bookkeeper

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MarshalJSON implements the json.Marshaler interface for CashEvent,
// with a canonical field order.
func (e CashEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("category", e.Category.String())
	w.Append("date", e.Date)
	w.Append("amount", e.Amount)
	if e.Category.Kind() == KindCostInflow {
		w.Append("rate", e.Rate.value)
	}
	w.Optional("memo", e.Memo)
	w.Optional("funds", e.Funds)
	w.Optional("deleted", e.Deleted)
	return w.MarshalJSON()
}

// cashEventCmd is a specialized struct for decoding one JSONL line.
type cashEventCmd struct {
	Category string          `json:"category"`
	Date     Date            `json:"date"`
	Amount   Quantity        `json:"amount"`
	Rate     decimal.Decimal `json:"rate"`
	Memo     string          `json:"memo,omitempty"`
	Funds    string          `json:"funds,omitempty"`
	Deleted  bool            `json:"deleted,omitempty"`
}

// ledgerHeader is the first line of a cash ledger file, naming the
// currency held and the home currency costs are expressed in.
type ledgerHeader struct {
	Currency string `json:"currency"`
	Home     string `json:"home"`
}

// DecodeCashLedger decodes a currency ledger from a stream of JSONL
// data: a header line naming the currencies, then one cash event per line.
func DecodeCashLedger(r io.Reader) (*Ledger, error) {
	scanner := bufio.NewScanner(r)

	var header ledgerHeader
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		if err := json.Unmarshal(lineBytes, &header); err != nil {
			return nil, fmt.Errorf("could not decode ledger header %q: %w", string(lineBytes), err)
		}
		break
	}
	if header.Currency == "" || header.Home == "" {
		return nil, fmt.Errorf("ledger header must name both currency and home")
	}
	ledger := NewLedger(header.Currency, header.Home)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		var temp cashEventCmd
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, fmt.Errorf("could not decode cash event %q: %w", string(lineBytes), err)
		}
		category, err := ParseEventCategory(temp.Category)
		if err != nil {
			return nil, fmt.Errorf("in line %q: %w", string(lineBytes), err)
		}

		event := CashEvent{
			Date:     temp.Date,
			Category: category,
			Amount:   temp.Amount,
			Memo:     temp.Memo,
			Funds:    temp.Funds,
			Deleted:  temp.Deleted,
		}
		if !temp.Rate.IsZero() {
			event.Rate = M(temp.Rate, header.Home).exact()
		}
		if err := ledger.Append(event); err != nil {
			return nil, fmt.Errorf("in line %q: %w", string(lineBytes), err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return ledger, nil
}

// EncodeCashLedger persists a ledger to an io.Writer in JSONL format:
// the header line, then events sorted by date (stable, so same-day
// events keep their append order).
func EncodeCashLedger(w io.Writer, ledger *Ledger) error {
	header, err := json.Marshal(ledgerHeader{Currency: ledger.currency, Home: ledger.home})
	if err != nil {
		return fmt.Errorf("failed to marshal ledger header: %w", err)
	}
	if _, err := w.Write(append(header, '\n')); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}

	ledger.stableSort()
	for _, e := range ledger.events {
		line, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal cash event on %s: %w", e.Date, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write cash event: %w", err)
		}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for
// StockTransaction, with a canonical field order.
func (t StockTransaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("type", t.Type.String())
	w.Append("date", t.Date)
	w.Append("ticker", t.Ticker)
	switch t.Type {
	case TxBuy, TxSell:
		w.Append("shares", t.Shares)
		w.Append("price", t.Price.value)
		w.Optional("currency", t.Price.cur)
		w.Optional("fee", t.Fee.value)
		w.Append("rate", t.Rate.value)
		if t.Type == TxSell {
			w.Optional("realized", t.Realized.value)
		}
	case TxSplit:
		w.Append("split", t.Split)
	case TxAdjust:
		w.Append("shares", t.Shares)
	}
	w.Optional("notes", t.Notes)
	w.Optional("deleted", t.Deleted)
	return w.MarshalJSON()
}

// stockTxCmd is a specialized struct for decoding one JSONL line.
type stockTxCmd struct {
	Type     string          `json:"type"`
	Date     Date            `json:"date"`
	Ticker   string          `json:"ticker"`
	Shares   Quantity        `json:"shares"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Fee      decimal.Decimal `json:"fee"`
	Rate     decimal.Decimal `json:"rate"`
	Split    Quantity        `json:"split"`
	Realized decimal.Decimal `json:"realized"`
	Notes    string          `json:"notes,omitempty"`
	Deleted  bool            `json:"deleted,omitempty"`
}

// DecodeTransactions decodes stock transactions from a stream of JSONL
// data, one transaction per line. 'home' names the home currency realized
// P&L amounts are expressed in.
func DecodeTransactions(r io.Reader, home string) ([]StockTransaction, error) {
	var transactions []StockTransaction
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		var temp stockTxCmd
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, fmt.Errorf("could not decode transaction %q: %w", string(lineBytes), err)
		}
		txType, err := ParseTxType(temp.Type)
		if err != nil {
			return nil, fmt.Errorf("in line %q: %w", string(lineBytes), err)
		}

		tx := StockTransaction{
			Date:    temp.Date,
			Ticker:  temp.Ticker,
			Type:    txType,
			Shares:  temp.Shares,
			Split:   temp.Split,
			Notes:   temp.Notes,
			Deleted: temp.Deleted,
		}
		if txType == TxBuy || txType == TxSell {
			tx.Price = M(temp.Price, temp.Currency)
			tx.Fee = M(temp.Fee, temp.Currency)
			tx.Rate = M(temp.Rate, home).exact()
			tx.Realized = M(temp.Realized, home)
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("in line %q: %w", string(lineBytes), err)
		}
		transactions = append(transactions, tx)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return transactions, nil
}

// EncodeTransactions persists stock transactions to an io.Writer in
// JSONL format, one per line, in the order given.
func EncodeTransactions(w io.Writer, transactions []StockTransaction) error {
	for _, t := range transactions {
		line, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction on %s: %w", t.Date, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write transaction: %w", err)
		}
	}
	return nil
}
