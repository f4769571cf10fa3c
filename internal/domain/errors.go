package domain

import (
	"errors"
	"fmt"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

var (
	// ErrInsufficientDeposit is returned when a commit posts a stake below
	// the protocol minimum. The caller must retry with a higher deposit.
	ErrInsufficientDeposit = errors.New("deposit below protocol minimum")

	// ErrWrongPhase is returned when an operation targets a batch that is
	// not in the required phase. Indicates the caller used a stale view.
	ErrWrongPhase = errors.New("wrong batch phase")

	// ErrUnknownCommitment is returned when a commitment id does not exist.
	ErrUnknownCommitment = errors.New("unknown commitment")

	// ErrAlreadyRevealed guards double-processing of a revealed commitment.
	ErrAlreadyRevealed = errors.New("commitment already revealed")

	// ErrAlreadySlashed guards double-processing of a slashed commitment.
	ErrAlreadySlashed = errors.New("commitment already slashed")

	// ErrAlreadySettled is returned when settlement is attempted twice on
	// the same batch.
	ErrAlreadySettled = errors.New("batch already settled")

	// ErrBatchNotSettled is returned when a caller asks for execution-order
	// data of a batch whose reveal window is still open. The aggregate seed
	// is withheld until no further reveals are possible.
	ErrBatchNotSettled = errors.New("batch not settled")

	// ErrUnknownBatch is returned when a batch id does not exist.
	ErrUnknownBatch = errors.New("unknown batch")
)

// PhaseError reports which phase an operation required versus the phase
// the batch was actually in. It wraps ErrWrongPhase so callers can match
// with errors.Is.
type PhaseError struct {
	Op   string // Operation that failed (e.g. "commit", "reveal", "settle")
	Have string
	Want string
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: batch in phase %s, need %s", e.Op, e.Have, e.Want)
}

// IsRetriable is always true: phase errors resolve themselves as the
// clock advances.
func (e *PhaseError) IsRetriable() bool {
	return true
}

func (e *PhaseError) Unwrap() error {
	return ErrWrongPhase
}
