package game

import (
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// Random is the battle's single source of randomness. Every random choice in
// a battle (spawn points, unit stats, unit IDs) goes through it so a seed
// reproduces a run exactly.
type Random struct {
	src *rand.ChaCha8
	rng *rand.Rand
}

// NewRandom seeds a ChaCha8 stream from seed. A zero seed uses the clock.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	return &Random{src: src, rng: rand.New(src)}
}

// Range returns a value in [lo, hi). An empty range returns lo.
func (r *Random) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.IntN(hi-lo)
}

// IntN returns a value in [0, n).
func (r *Random) IntN(n int) int {
	return r.rng.IntN(n)
}

// Ratio returns true with probability n/d.
// Example: Ratio(1, 3) is true about a third of the time.
func (r *Random) Ratio(n, d int) bool {
	if d <= 0 {
		return false
	}
	return r.rng.IntN(d) < n
}

// Read fills p with random bytes; it lets the stream back uuid generation.
func (r *Random) Read(p []byte) (int, error) {
	return r.src.Read(p)
}

// Pick returns a random element of items. It panics on an empty slice.
func Pick[T any](r *Random, items []T) T {
	if len(items) == 0 {
		panic("game: Pick from an empty slice")
	}
	return items[r.IntN(len(items))]
}
