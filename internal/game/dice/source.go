package dice

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
	"sync"
)

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in their range.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n); every value
// returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a cryptographically secure sample in [0, 1) with 53 bits
// of precision.
func (c *cryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(binary.LittleEndian.Uint64(b[:])>>11) / (1 << 53)
}

// seededSource implements Source with a deterministic PRNG. A mutex serialises
// access because *rand.Rand is not safe for concurrent use.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a reproducible Source for simulations and replays.
//
// Postcondition: two sources built from the same seed yield identical sequences.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewSource(seed))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Float64 returns a pseudo-random sample in [0, 1).
func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// NewSeed generates a random seed from crypto/rand for NewSeededSource.
func NewSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
