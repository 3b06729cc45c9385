// Package random supplies card draws and opaque identifiers.
//
// Draws use a math/rand generator seeded from crypto/rand unless an explicit
// seed is given. Identifiers are random UUIDs and do not depend on the seed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

const (
	// MinCard is the lowest point value a draw can produce.
	MinCard = 1
	// MaxCard is the highest point value a draw can produce.
	MaxCard = 10
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Source draws cards and mints ids. It is safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Source whose card sequence is determined by seed.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// NewFromEntropy returns a Source seeded from crypto/rand.
func NewFromEntropy() (*Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}

// DrawCard returns a uniformly distributed point value in [MinCard, MaxCard].
func (s *Source) DrawCard() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(MaxCard-MinCard+1) + MinCard
}

// NewID returns a random UUID string.
func (s *Source) NewID() string {
	return uuid.NewString()
}
