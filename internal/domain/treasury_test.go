package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTreasury_Credit(t *testing.T) {
	tr := NewTreasury()

	tr.Credit(decimal.RequireFromString("0.5"), 1)
	tr.Credit(decimal.RequireFromString("0.25"), 2)
	tr.VerifyInvariant()

	if !tr.Balance().Equal(decimal.RequireFromString("0.75")) {
		t.Errorf("balance = %s, want 0.75", tr.Balance())
	}

	snap := tr.Snapshot()
	if snap.LastSeq != 2 {
		t.Errorf("last seq = %d, want 2", snap.LastSeq)
	}
	if !snap.Balance.Equal(tr.Balance()) {
		t.Error("snapshot balance diverged from treasury balance")
	}
}

func TestTreasury_NegativeCreditPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on negative credit")
		}
	}()

	tr := NewTreasury()
	tr.Credit(decimal.RequireFromString("-1"), 1)
}
