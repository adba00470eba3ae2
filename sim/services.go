package sim

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// Services is the per-simulation mutable context passed to every model's
// event handlers: the global clock and a shared random source.
//
// Services is deliberately a thin value that carries a pointer to its RNG
// rather than the generator itself, so that cloning a Services (see Clone)
// shares RNG state instead of forking it — mirroring the reference-counted
// sharing the spec calls for. The clock is treated as single-writer (only
// Simulation.Step advances it) and may be freely read by model handlers.
type Services struct {
	globalTime float64
	rng        *rand.Rand
}

// NewServices creates Services with global time at zero and an RNG seeded
// deterministically from seed, following the teacher's initRNG pattern of
// hashing an identifying string into an int64 seed.
func NewServices(seed string) *Services {
	return &Services{globalTime: 0, rng: rand.New(rand.NewSource(seedFromString(seed)))}
}

// seedFromString hashes s with SHA-256 and interprets the first 8 bytes as
// a big-endian int64 seed, exactly as the teacher's initRNG does for run
// IDs — here applied to a simulation identifier or caller-supplied seed
// string instead of a workflow run ID.
func seedFromString(s string) int64 {
	sum := sha256.Sum256([]byte(s))
	return int64(binary.BigEndian.Uint64(sum[:8])) // #nosec G115 -- deterministic seeding, not security-sensitive
}

// GlobalTime returns the current simulated time.
func (s *Services) GlobalTime() float64 {
	return s.globalTime
}

// SetGlobalTime sets the simulated time. Only Simulation.Step should call
// this; handlers should treat the clock as read-only.
func (s *Services) SetGlobalTime(t float64) {
	s.globalTime = t
}

// RNG returns the shared random source. Mutations made through the
// returned *rand.Rand during one handler call are visible to every
// subsequent handler in the same step and in later steps.
func (s *Services) RNG() *rand.Rand {
	return s.rng
}

// SetRNG replaces the shared random source, e.g. to re-seed for a
// replication or inject a deterministic fake in tests.
func (s *Services) SetRNG(rng *rand.Rand) {
	s.rng = rng
}

// Clone returns a Services sharing the same RNG pointer (and therefore its
// state) but as an independent value — the Go analogue of the reference-
// counted clone the spec describes. Simulation does not currently need
// this since models receive the same *Services pointer directly, but it
// is kept as part of the public contract for callers embedding Services
// in their own harnesses.
func (s *Services) Clone() *Services {
	return &Services{globalTime: s.globalTime, rng: s.rng}
}
