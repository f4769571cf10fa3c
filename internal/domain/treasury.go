package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Treasury is the fee sink that accumulates slashed stakes.
// The engine is the only writer; external readers get copies via
// Snapshot. Amounts are exact decimals, never floats.
type Treasury struct {
	balance decimal.Decimal
	lastSeq uint64 // Last event sequence that credited this
}

// NewTreasury creates an empty treasury.
func NewTreasury() *Treasury {
	return &Treasury{balance: decimal.Zero}
}

// Credit adds a slashed amount. Panics on a negative credit: a negative
// slash means the caller computed the penalty wrong, and continuing
// would corrupt the books.
func (t *Treasury) Credit(amount decimal.Decimal, seq uint64) {
	if amount.IsNegative() {
		panic(fmt.Sprintf("TREASURY_NEGATIVE_CREDIT: %s at seq %d", amount.String(), seq))
	}
	t.balance = t.balance.Add(amount)
	t.lastSeq = seq
}

// Balance returns the current balance.
func (t *Treasury) Balance() decimal.Decimal {
	return t.balance
}

// VerifyInvariant checks that the treasury satisfies its invariants.
// Call this after any state change to ensure data integrity.
func (t *Treasury) VerifyInvariant() {
	if t.balance.IsNegative() {
		panic(fmt.Sprintf("TREASURY_INVARIANT_NEGATIVE_BALANCE: %s", t.balance.String()))
	}
}

// TreasurySnapshot is a read-only copy for dumps and external queries.
type TreasurySnapshot struct {
	Balance decimal.Decimal `json:"balance"`
	LastSeq uint64          `json:"last_seq"`
}

// Snapshot returns a copy of the treasury state.
func (t *Treasury) Snapshot() TreasurySnapshot {
	return TreasurySnapshot{Balance: t.balance, LastSeq: t.lastSeq}
}
