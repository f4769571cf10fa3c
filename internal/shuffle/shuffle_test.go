package shuffle

import (
	"crypto/sha256"
	"errors"
	"testing"
)

func seedFrom(s string) [32]byte {
	return sha256.Sum256([]byte(s))
}

// assertPermutation checks that got is a bijection of [lo, hi).
func assertPermutation(t *testing.T, got []uint32, lo, hi uint32) {
	t.Helper()
	if uint32(len(got)) != hi-lo {
		t.Fatalf("length = %d, want %d", len(got), hi-lo)
	}
	seen := make(map[uint32]bool, len(got))
	for _, v := range got {
		if v < lo || v >= hi {
			t.Fatalf("value %d out of range [%d, %d)", v, lo, hi)
		}
		if seen[v] {
			t.Fatalf("value %d appears twice", v)
		}
		seen[v] = true
	}
}

func TestShuffle_Validity(t *testing.T) {
	seed := seedFrom("validity")
	for length := uint32(1); length <= 50; length++ {
		out := Shuffle(length, seed)
		assertPermutation(t, out, 0, length)
	}
}

func TestShuffle_Determinism(t *testing.T) {
	seed := seedFrom("determinism")
	for _, length := range []uint32{1, 2, 7, 32, 50} {
		a := Shuffle(length, seed)
		b := Shuffle(length, seed)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("length %d: output differs at %d: %d vs %d", length, i, a[i], b[i])
			}
		}
	}
}

func TestShuffle_SeedSensitivity(t *testing.T) {
	a := Shuffle(20, seedFrom("seed-a"))
	b := Shuffle(20, seedFrom("seed-b"))

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical permutations of length 20")
	}
}

func TestShuffle_EdgeCases(t *testing.T) {
	t.Run("length zero", func(t *testing.T) {
		if out := Shuffle(0, seedFrom("x")); len(out) != 0 {
			t.Errorf("expected empty sequence, got %v", out)
		}
	})

	t.Run("length one", func(t *testing.T) {
		out := Shuffle(1, seedFrom("x"))
		if len(out) != 1 || out[0] != 0 {
			t.Errorf("expected [0], got %v", out)
		}
	})
}

func TestVerifyShuffle(t *testing.T) {
	seed := seedFrom("verify")
	out := Shuffle(16, seed)

	t.Run("accepts genuine output", func(t *testing.T) {
		if !VerifyShuffle(16, out, seed) {
			t.Error("genuine shuffle output rejected")
		}
	})

	t.Run("rejects tampered output", func(t *testing.T) {
		tampered := make([]uint32, len(out))
		copy(tampered, out)
		tampered[0], tampered[1] = tampered[1], tampered[0]
		if VerifyShuffle(16, tampered, seed) {
			t.Error("tampered output accepted")
		}
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		if VerifyShuffle(15, out, seed) {
			t.Error("output with wrong length accepted")
		}
	})

	t.Run("rejects wrong seed", func(t *testing.T) {
		if VerifyShuffle(16, out, seedFrom("other")) {
			t.Error("output accepted under a different seed")
		}
	})
}

func TestGenerateSeed_OrderIndependence(t *testing.T) {
	a := seedFrom("secret-a")
	b := seedFrom("secret-b")
	c := seedFrom("secret-c")

	s1 := GenerateSeed([][32]byte{a, b, c})
	s2 := GenerateSeed([][32]byte{c, a, b})
	s3 := GenerateSeed([][32]byte{b, c, a})

	if s1 != s2 || s2 != s3 {
		t.Error("seed depends on secret ordering")
	}
}

func TestGenerateSeed_Empty(t *testing.T) {
	var zero [32]byte
	if got := GenerateSeed(nil); got != zero {
		t.Errorf("empty secret set should fold to the zero digest, got %x", got)
	}
}

func TestGenerateSeed_Pairwise(t *testing.T) {
	a := seedFrom("pair-a")
	b := seedFrom("pair-b")
	if GenerateSeed([][32]byte{a, b}) != GenerateSeed([][32]byte{b, a}) {
		t.Error("GenerateSeed([a,b]) != GenerateSeed([b,a])")
	}
}

func TestPartitionAndShuffle_Invariant(t *testing.T) {
	seed := seedFrom("partition")
	for total := uint32(1); total <= 30; total++ {
		for priority := uint32(0); priority <= total; priority++ {
			out, err := PartitionAndShuffle(total, priority, seed)
			if err != nil {
				t.Fatalf("total=%d priority=%d: %v", total, priority, err)
			}
			if uint32(len(out)) != total {
				t.Fatalf("total=%d priority=%d: length %d", total, priority, len(out))
			}
			for i := uint32(0); i < priority; i++ {
				if out[i] != i {
					t.Fatalf("total=%d priority=%d: prefix broken at %d: %d", total, priority, i, out[i])
				}
			}
			assertPermutation(t, out[priority:], priority, total)
		}
	}
}

func TestPartitionAndShuffle_InvalidBounds(t *testing.T) {
	_, err := PartitionAndShuffle(3, 4, seedFrom("bad"))
	if !errors.Is(err, ErrInvalidPartition) {
		t.Errorf("expected ErrInvalidPartition, got %v", err)
	}
}

func FuzzShuffle_Bijection(f *testing.F) {
	f.Add(uint32(1), []byte("seed"))
	f.Add(uint32(13), []byte("another seed"))
	f.Add(uint32(64), []byte(""))
	f.Add(uint32(0), []byte{0xff})

	f.Fuzz(func(t *testing.T, length uint32, seedBytes []byte) {
		if length > 2048 {
			length %= 2048
		}
		seed := sha256.Sum256(seedBytes)
		out := Shuffle(length, seed)
		assertPermutation(t, out, 0, length)
		if !VerifyShuffle(length, out, seed) {
			t.Error("VerifyShuffle rejected its own output")
		}
	})
}

func FuzzPartitionAndShuffle_Prefix(f *testing.F) {
	f.Add(uint32(10), uint32(3), []byte("seed"))
	f.Add(uint32(1), uint32(0), []byte("x"))
	f.Add(uint32(5), uint32(5), []byte("y"))

	f.Fuzz(func(t *testing.T, total, priority uint32, seedBytes []byte) {
		if total > 2048 {
			total %= 2048
		}
		seed := sha256.Sum256(seedBytes)
		out, err := PartitionAndShuffle(total, priority, seed)
		if priority > total {
			if !errors.Is(err, ErrInvalidPartition) {
				t.Fatalf("expected ErrInvalidPartition, got %v", err)
			}
			return
		}
		if err != nil {
			t.Fatal(err)
		}
		for i := uint32(0); i < priority; i++ {
			if out[i] != i {
				t.Fatalf("prefix broken at %d", i)
			}
		}
		assertPermutation(t, out[priority:], priority, total)
	})
}
