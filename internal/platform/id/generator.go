package id

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
)

// Generator creates opaque ids used to correlate a request across logs.
type Generator interface {
	NewID() string
}

type RandomGenerator struct {
	fallback atomic.Uint64
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns 16 random hex characters. If the system source fails it
// degrades to a process-local counter instead of failing the request.
func (g *RandomGenerator) NewID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "local-" + strconv.FormatUint(g.fallback.Add(1), 10)
	}
	return hex.EncodeToString(buf)
}
