package engine

import (
	"crypto/sha256"
	"testing"

	"auction_go/internal/domain"

	"github.com/shopspring/decimal"
)

func revealedWithBids(bids ...string) []domain.RevealedOrder {
	out := make([]domain.RevealedOrder, len(bids))
	for i, b := range bids {
		out[i] = domain.RevealedOrder{
			Trader:      "0xtrader",
			PriorityBid: decimal.RequireFromString(b),
			RevealSeq:   i,
		}
	}
	return out
}

func TestCanonicalOrder_PriorityHead(t *testing.T) {
	seed := sha256.Sum256([]byte("seed"))
	revealed := revealedWithBids("0", "0.2", "0", "0.5", "0.2", "0")

	indices, priorityCount, err := canonicalOrder(revealed, seed)
	if err != nil {
		t.Fatal(err)
	}
	if priorityCount != 3 {
		t.Fatalf("priority count = %d, want 3", priorityCount)
	}

	// Bid desc; the two 0.2 bids keep reveal order (1 before 4).
	want := []int{3, 1, 4}
	for i, w := range want {
		if indices[i] != w {
			t.Errorf("head[%d] = %d, want %d", i, indices[i], w)
		}
	}

	seen := map[int]bool{}
	for _, idx := range indices[3:] {
		if idx != 0 && idx != 2 && idx != 5 {
			t.Errorf("tail holds priority order %d", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 3 {
		t.Errorf("tail covers %d orders, want 3", len(seen))
	}
}

func TestCanonicalOrder_Deterministic(t *testing.T) {
	seed := sha256.Sum256([]byte("det"))
	revealed := revealedWithBids("0", "1", "0", "0", "2", "0", "0")

	a, _, err := canonicalOrder(revealed, seed)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := canonicalOrder(revealed, seed)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at %d", i)
		}
	}
}

func TestCanonicalOrder_Edges(t *testing.T) {
	seed := sha256.Sum256([]byte("edge"))

	t.Run("empty", func(t *testing.T) {
		indices, count, err := canonicalOrder(nil, seed)
		if err != nil || len(indices) != 0 || count != 0 {
			t.Errorf("empty batch: indices=%v count=%d err=%v", indices, count, err)
		}
	})

	t.Run("all priority", func(t *testing.T) {
		indices, count, err := canonicalOrder(revealedWithBids("1", "2", "3"), seed)
		if err != nil {
			t.Fatal(err)
		}
		if count != 3 {
			t.Fatalf("count = %d, want 3", count)
		}
		want := []int{2, 1, 0}
		for i, w := range want {
			if indices[i] != w {
				t.Errorf("indices[%d] = %d, want %d", i, indices[i], w)
			}
		}
	})

	t.Run("none priority", func(t *testing.T) {
		indices, count, err := canonicalOrder(revealedWithBids("0", "0", "0", "0"), seed)
		if err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Fatalf("count = %d, want 0", count)
		}
		seen := map[int]bool{}
		for _, idx := range indices {
			seen[idx] = true
		}
		if len(seen) != 4 {
			t.Error("tail is not a permutation")
		}
	})
}
