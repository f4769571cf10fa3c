package engine

import (
	"fmt"

	"auction_go/internal/domain"
	"auction_go/internal/shuffle"
)

// VerifyExecution replays the ordering of a settled batch from the
// revealed orders it carries and checks the published result against the
// replay. Anyone holding the execution order can run this; no engine
// state is needed.
func VerifyExecution(exec *domain.ExecutionOrder) error {
	if exec == nil {
		return fmt.Errorf("verify: nil execution order")
	}
	n := len(exec.Orders)
	if len(exec.Indices) != n {
		return fmt.Errorf("verify batch %d: %d indices for %d orders", exec.BatchID, len(exec.Indices), n)
	}

	// Rebuild the reveal-arrival sequence from the RevealSeq tags.
	revealed := make([]domain.RevealedOrder, n)
	seen := make([]bool, n)
	for _, o := range exec.Orders {
		if o.RevealSeq < 0 || o.RevealSeq >= n {
			return fmt.Errorf("verify batch %d: reveal seq %d out of range", exec.BatchID, o.RevealSeq)
		}
		if seen[o.RevealSeq] {
			return fmt.Errorf("verify batch %d: duplicate reveal seq %d", exec.BatchID, o.RevealSeq)
		}
		seen[o.RevealSeq] = true
		revealed[o.RevealSeq] = o
	}

	secrets := make([][32]byte, n)
	for i, o := range revealed {
		secrets[i] = o.Secret
	}
	if seed := shuffle.GenerateSeed(secrets); seed != exec.Seed {
		return fmt.Errorf("verify batch %d: seed does not match revealed secrets", exec.BatchID)
	}

	indices, priorityCount, err := canonicalOrder(revealed, exec.Seed)
	if err != nil {
		return fmt.Errorf("verify batch %d: %w", exec.BatchID, err)
	}
	if priorityCount != exec.PriorityCount {
		return fmt.Errorf("verify batch %d: priority count %d, replay gives %d", exec.BatchID, exec.PriorityCount, priorityCount)
	}
	for i := range indices {
		if indices[i] != exec.Indices[i] {
			return fmt.Errorf("verify batch %d: index mismatch at position %d: %d vs %d", exec.BatchID, i, exec.Indices[i], indices[i])
		}
	}
	for i, idx := range indices {
		if exec.Orders[i].RevealSeq != revealed[idx].RevealSeq {
			return fmt.Errorf("verify batch %d: order at position %d does not match index %d", exec.BatchID, i, idx)
		}
	}
	return nil
}
