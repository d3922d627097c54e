package bookkeeper

import "fmt"

// MemoryEvents is an in-memory EventRepository, useful for tests and for
// the CLI, which loads whole JSONL ledgers into memory anyway.
type MemoryEvents map[string]*Ledger

var _ EventRepository = MemoryEvents(nil)

func (m MemoryEvents) Ledger(id string) (*Ledger, error) {
	l, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("no ledger %q", id)
	}
	return l, nil
}

// MemoryTransactions is an in-memory TransactionRepository keyed by
// portfolio name.
type MemoryTransactions map[string][]StockTransaction

var _ TransactionRepository = MemoryTransactions(nil)

func (m MemoryTransactions) Transactions(portfolio, ticker string) ([]StockTransaction, error) {
	all, ok := m[portfolio]
	if !ok {
		return nil, fmt.Errorf("no portfolio %q", portfolio)
	}
	matching := make([]StockTransaction, 0, len(all))
	for _, t := range all {
		if t.Deleted {
			continue
		}
		if ticker != "" && t.Ticker != ticker {
			continue
		}
		matching = append(matching, t)
	}
	return matching, nil
}
