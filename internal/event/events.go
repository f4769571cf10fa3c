package event

// Event is the common interface for engine journal events. Monetary
// fields and digests are carried as strings so events marshal cleanly to
// the journal and to gateway subscribers.
type Event interface {
	GetSeq() uint64
	GetTs() int64
	GetType() string
}

// BaseEvent carries the fields shared by all events.
type BaseEvent struct {
	Seq uint64 `json:"seq"`
	Ts  int64  `json:"ts"` // Unix microseconds
}

func (b *BaseEvent) GetSeq() uint64 { return b.Seq }
func (b *BaseEvent) GetTs() int64   { return b.Ts }

// Event type tags, stored in the journal's type column.
const (
	TypeCommitAccepted = "commit_accepted"
	TypeOrderRevealed  = "order_revealed"
	TypeCommitSlashed  = "commit_slashed"
	TypeBatchSettled   = "batch_settled"
)

// CommitAcceptedEvent records a new commitment entering a batch.
type CommitAcceptedEvent struct {
	BaseEvent
	CommitID string `json:"commit_id"`
	BatchID  uint64 `json:"batch_id"`
	Trader   string `json:"trader"`
	Deposit  string `json:"deposit"`
}

func (e *CommitAcceptedEvent) GetType() string { return TypeCommitAccepted }

// OrderRevealedEvent records a reveal attempt. Valid is false when the
// recomputed hash mismatched and the commitment was slashed instead.
type OrderRevealedEvent struct {
	BaseEvent
	CommitID    string `json:"commit_id"`
	BatchID     uint64 `json:"batch_id"`
	Valid       bool   `json:"valid"`
	PriorityBid string `json:"priority_bid,omitempty"`
}

func (e *OrderRevealedEvent) GetType() string { return TypeOrderRevealed }

// CommitSlashedEvent records a treasury credit from a slashed commitment.
type CommitSlashedEvent struct {
	BaseEvent
	CommitID string `json:"commit_id"`
	BatchID  uint64 `json:"batch_id"`
	Amount   string `json:"amount"`
	Reason   string `json:"reason"`
}

func (e *CommitSlashedEvent) GetType() string { return TypeCommitSlashed }

// BatchSettledEvent publishes the canonical execution order of a settled
// batch. Everything needed for independent re-verification is public:
// seed, counts and the order itself.
type BatchSettledEvent struct {
	BaseEvent
	BatchID           uint64 `json:"batch_id"`
	Seed              string `json:"seed"`
	TotalPriorityBids string `json:"total_priority_bids"`
	RevealedCount     int    `json:"revealed_count"`
	PriorityCount     int    `json:"priority_count"`
	ExecutionOrder    []int  `json:"execution_order"`
}

func (e *BatchSettledEvent) GetType() string { return TypeBatchSettled }
