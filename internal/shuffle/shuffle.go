// Package shuffle provides the verifiable permutation primitives used to
// order batch executions. Every function is pure: given the same inputs,
// any party can reproduce the same output, so a published execution order
// can be audited without access to engine state.
package shuffle

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
)

// ErrInvalidPartition is returned when priorityCount exceeds total.
var ErrInvalidPartition = errors.New("priority count exceeds total")

// drawStream yields pseudo-random 64-bit draws from a seed.
// Blocks are sha256(seed || counter); each block serves four draws.
type drawStream struct {
	seed    [32]byte
	counter uint64
	block   [32]byte
	off     int
}

func newDrawStream(seed [32]byte) *drawStream {
	return &drawStream{seed: seed, off: sha256.Size}
}

func (d *drawStream) next() uint64 {
	if d.off+8 > sha256.Size {
		var buf [40]byte
		copy(buf[:32], d.seed[:])
		binary.BigEndian.PutUint64(buf[32:], d.counter)
		d.block = sha256.Sum256(buf[:])
		d.counter++
		d.off = 0
	}
	v := binary.BigEndian.Uint64(d.block[d.off : d.off+8])
	d.off += 8
	return v
}

// GenerateSeed folds a set of secrets into one digest via XOR.
// XOR is commutative, so the same multiset of secrets yields the same
// seed regardless of the order they were revealed in.
func GenerateSeed(secrets [][32]byte) [32]byte {
	var seed [32]byte
	for _, s := range secrets {
		for i := range seed {
			seed[i] ^= s[i]
		}
	}
	return seed
}

// Shuffle returns a permutation of [0, length) derived deterministically
// from seed via a hash-based Fisher-Yates walk.
func Shuffle(length uint32, seed [32]byte) []uint32 {
	out := make([]uint32, length)
	for i := range out {
		out[i] = uint32(i)
	}
	if length < 2 {
		return out
	}

	draws := newDrawStream(seed)
	for i := length - 1; i > 0; i-- {
		j := uint32(draws.next() % uint64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// VerifyShuffle recomputes Shuffle(originalLength, seed) and compares it
// element-wise against candidate.
func VerifyShuffle(originalLength uint32, candidate []uint32, seed [32]byte) bool {
	if uint32(len(candidate)) != originalLength {
		return false
	}
	expected := Shuffle(originalLength, seed)
	for i, v := range expected {
		if candidate[i] != v {
			return false
		}
	}
	return true
}

// PartitionAndShuffle returns a sequence of length total where the first
// priorityCount positions map identity (priority slots keep their
// submission order) and the remaining positions hold a uniform permutation
// of [priorityCount, total), drawn from the same seed.
func PartitionAndShuffle(total, priorityCount uint32, seed [32]byte) ([]uint32, error) {
	if priorityCount > total {
		return nil, ErrInvalidPartition
	}

	out := make([]uint32, total)
	for i := uint32(0); i < priorityCount; i++ {
		out[i] = i
	}

	tail := Shuffle(total-priorityCount, seed)
	for i, v := range tail {
		out[priorityCount+uint32(i)] = v + priorityCount
	}
	return out, nil
}
