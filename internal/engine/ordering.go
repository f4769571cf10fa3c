package engine

import (
	"sort"

	"auction_go/internal/domain"
	"auction_go/internal/shuffle"
)

// canonicalOrder computes the execution sequence of a settled batch.
// Orders with a nonzero priority bid occupy the head, ranked by bid
// descending; equal bids keep reveal arrival order (sort.SliceStable over
// a reveal-ordered slice). The tail is the remaining orders permuted by
// the seeded shuffle. The returned slice holds indices into revealed
// (reveal arrival order); the second value is the priority count.
func canonicalOrder(revealed []domain.RevealedOrder, seed [32]byte) ([]int, int, error) {
	priority := make([]int, 0, len(revealed))
	rest := make([]int, 0, len(revealed))
	for i := range revealed {
		if !revealed[i].PriorityBid.IsZero() {
			priority = append(priority, i)
		} else {
			rest = append(rest, i)
		}
	}

	sort.SliceStable(priority, func(a, b int) bool {
		return revealed[priority[a]].PriorityBid.GreaterThan(revealed[priority[b]].PriorityBid)
	})

	arranged := make([]int, 0, len(revealed))
	arranged = append(arranged, priority...)
	arranged = append(arranged, rest...)

	perm, err := shuffle.PartitionAndShuffle(uint32(len(revealed)), uint32(len(priority)), seed)
	if err != nil {
		return nil, 0, err
	}

	out := make([]int, len(revealed))
	for i, p := range perm {
		out[i] = arranged[p]
	}
	return out, len(priority), nil
}
