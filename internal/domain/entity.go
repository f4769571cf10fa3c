package domain

import (
	"time"
)

// Persistence records for the ledger collaborator. Digests and decimals
// cross the storage boundary as strings (hex / canonical decimal form);
// the in-memory engine types stay binary.

// CommitmentRecord mirrors an OrderCommitment row.
type CommitmentRecord struct {
	ID         string    `gorm:"primaryKey" json:"id"` // hex commitment id
	BatchID    uint64    `gorm:"index" json:"batch_id"`
	Trader     string    `gorm:"index" json:"trader"`
	CommitHash string    `json:"commit_hash"`
	Deposit    string    `json:"deposit"`
	Status     string    `gorm:"index" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BatchRecord mirrors a settled or in-flight Batch row. Seed stays empty
// until the batch is settled.
type BatchRecord struct {
	ID                uint64    `gorm:"primaryKey" json:"id"`
	StartTime         time.Time `json:"start_time"`
	Phase             string    `gorm:"index" json:"phase"`
	TotalPriorityBids string    `json:"total_priority_bids"`
	RevealedCount     int       `json:"revealed_count"`
	Seed              string    `json:"seed"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SlashRecord is one treasury credit from a slashed commitment.
type SlashRecord struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CommitmentID string    `gorm:"index" json:"commitment_id"`
	BatchID      uint64    `gorm:"index" json:"batch_id"`
	Amount       string    `json:"amount"`
	Reason       string    `json:"reason"` // "unrevealed" or "invalid_reveal"
	CreatedAt    time.Time `json:"created_at"`
}

// JournalRecord is one entry of the engine's write-ahead journal.
type JournalRecord struct {
	Seq       uint64    `gorm:"primaryKey" json:"seq"`
	Type      string    `gorm:"index" json:"type"`
	Payload   string    `json:"payload"` // JSON-encoded event
	CreatedAt time.Time `json:"created_at"`
}
