package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/shopspring/decimal"
)

// Commitment status values. Transitions are monotonic: COMMITTED may move
// to REVEALED or SLASHED, both of which are terminal.
const (
	StatusCommitted = "COMMITTED"
	StatusRevealed  = "REVEALED"
	StatusSlashed   = "SLASHED"
)

// Domain separation tags for commitment hashing. Changing either is a
// protocol break: every participant must derive identical digests.
const (
	commitDomainTag   = "batchauction/v1/commit"
	commitIDDomainTag = "batchauction/v1/commit-id"
)

// OrderCommitment is the engine-side record of one hidden order.
// It is created at commit time and never deleted; status is the only
// field that mutates afterwards.
type OrderCommitment struct {
	ID         [32]byte
	CommitHash [32]byte
	Trader     string
	Deposit    decimal.Decimal
	Status     string
	BatchID    uint64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsTerminal reports whether the commitment can no longer change status.
func (c *OrderCommitment) IsTerminal() bool {
	return c.Status == StatusRevealed || c.Status == StatusSlashed
}

// appendString writes a length-prefixed string. The prefix makes the
// encoding unambiguous: no two field layouts share a preimage. The
// 8-byte prefix holds any Go string length exactly, so the declared
// length can never wrap and alias a shorter field.
func appendString(buf []byte, s string) []byte {
	var l [8]byte
	binary.BigEndian.PutUint64(l[:], uint64(len(s)))
	buf = append(buf, l[:]...)
	return append(buf, s...)
}

// BuildCommitPreimage canonicalizes the commitment tuple into the byte
// preimage hashed by BuildCommitHash. Decimal fields are encoded via
// their canonical string form; callers must reveal with the exact same
// decimal representation they committed with.
func BuildCommitPreimage(trader, tokenIn, tokenOut string, amountIn, minOut decimal.Decimal, secret [32]byte) []byte {
	buf := make([]byte, 0, len(commitDomainTag)+len(trader)+len(tokenIn)+len(tokenOut)+128)
	buf = append(buf, commitDomainTag...)
	buf = appendString(buf, trader)
	buf = appendString(buf, tokenIn)
	buf = appendString(buf, tokenOut)
	buf = appendString(buf, amountIn.String())
	buf = appendString(buf, minOut.String())
	return append(buf, secret[:]...)
}

// BuildCommitHash binds a hidden order to a single digest. Clients compute
// it locally before committing; the engine recomputes it at reveal time.
func BuildCommitHash(trader, tokenIn, tokenOut string, amountIn, minOut decimal.Decimal, secret [32]byte) [32]byte {
	return sha256.Sum256(BuildCommitPreimage(trader, tokenIn, tokenOut, amountIn, minOut, secret))
}

// NewCommitmentID derives a commitment identifier from the submitter, the
// commit hash and an engine nonce. The nonce is strictly increasing, so
// identifiers are unique across every commitment ever created.
func NewCommitmentID(trader string, commitHash [32]byte, nonce uint64) [32]byte {
	buf := make([]byte, 0, len(commitIDDomainTag)+len(trader)+48)
	buf = append(buf, commitIDDomainTag...)
	buf = appendString(buf, trader)
	buf = append(buf, commitHash[:]...)
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	buf = append(buf, n[:]...)
	return sha256.Sum256(buf)
}
