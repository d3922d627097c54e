// Package bookkeeper implements the multi-currency cost-basis and
// return-calculation engine behind a personal investment bookkeeping tool.
//
// The core functionalities include:
//   - Currency Ledgers: Recording per-currency cash events (purchases,
//     deposits, interest, spending) in an immutable, chronological record,
//     and deriving the exchange rate of a foreign-currency stock purchase
//     by consuming that history in LIFO order.
//   - Balance Resolution: Deciding what happens when a purchase would
//     overdraw a currency ledger (reject, margin, or top-up), without
//     mutating any state until the caller commits.
//   - Positions: Aggregating buy/sell/split histories into weighted-average
//     positions and computing realized and unrealized profit and loss.
//   - Returns: Computing investor-level rates of return (XIRR, Modified
//     Dietz, time-weighted return) from irregular cash-flow histories.
//   - Data Persistence: Encoding and decoding ledgers to and from a
//     human-readable, version-controllable JSONL format.
//
// Every calculation is a pure function over history passed in by the
// caller: the engine performs no I/O and is safe to call from any
// goroutine. This package serves as the foundational logic for the `bkr`
// command-line tool.
package bookkeeper
