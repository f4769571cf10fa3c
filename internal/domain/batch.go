package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch phases. A batch only ever moves forward: COMMIT -> REVEAL -> SETTLED,
// gated by elapsed time since the batch opened.
const (
	PhaseCommit  = "COMMIT"
	PhaseReveal  = "REVEAL"
	PhaseSettled = "SETTLED"
)

// Batch is the external snapshot of one auction round.
// Seed is the zero digest until the batch is finalized; before that point
// the aggregate is still mutable and must not leak.
type Batch struct {
	ID                uint64
	StartTime         time.Time
	Phase             string
	TotalPriorityBids decimal.Decimal
	RevealedCount     int
	Seed              [32]byte
}

// RevealedOrder is derived from a valid reveal. RevealSeq is the position
// in reveal arrival order within the batch; it is the deterministic
// tie-break among equal priority bids.
type RevealedOrder struct {
	Trader      string
	TokenIn     string
	TokenOut    string
	AmountIn    decimal.Decimal
	MinOut      decimal.Decimal
	Secret      [32]byte
	PriorityBid decimal.Decimal
	RevealSeq   int
}

// ExecutionOrder is the canonical, auditable ordering of a settled batch.
// Indices refer to reveal arrival positions (RevealedOrder.RevealSeq);
// Orders holds the same orders already arranged in execution sequence.
// Any observer can re-derive Indices from (RevealedCount, PriorityCount,
// Seed) plus the public priority bids.
type ExecutionOrder struct {
	BatchID           uint64
	Seed              [32]byte
	TotalPriorityBids decimal.Decimal
	PriorityCount     int
	Indices           []int
	Orders            []RevealedOrder
}
