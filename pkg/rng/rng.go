// Package rng provides the injectable random source used by parameter-range
// operators (rotate, resize, translate and the frequency cutoffs).
//
// Kernel operators never seed or own a source; callers pass one in. Seeded
// sources make every draw reproducible:
//
//	src := rng.New(42)
//	theta := src.Uniform(0, 360)
//
// [Derive] builds independent, deterministic sources for concurrent work so a
// pipeline produces the same output regardless of scheduling order.
package rng

import (
	"hash/fnv"
	"math/rand/v2"
)

// Source supplies uniform draws over a caller-specified range.
type Source interface {
	// Uniform returns a value in [lo, hi). When lo == hi it returns lo.
	Uniform(lo, hi float64) float64
}

// Rand is a seeded [Source] backed by a PCG generator.
// It is not safe for concurrent use.
type Rand struct {
	r *rand.Rand
}

// New returns a source seeded with seed.
func New(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0xdeadbeef))}
}

// Uniform returns a value in [lo, hi).
func (s *Rand) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

// IntN returns a value in [0, n). It panics if n <= 0.
func (s *Rand) IntN(n int) int {
	return s.r.IntN(n)
}

// Perm returns a pseudo-random permutation of [0, n).
func (s *Rand) Perm(n int) []int {
	return s.r.Perm(n)
}

// Derive returns a source seeded with DeriveSeed(seed, parts...).
// The same inputs always yield the same stream.
func Derive(seed uint64, parts ...string) *Rand {
	return New(DeriveSeed(seed, parts...))
}

// DeriveSeed mixes seed with the FNV-1a hash of parts. Parts are separated
// so ("ab", "c") and ("a", "bc") differ.
func DeriveSeed(seed uint64, parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return seed ^ h.Sum64()
}

// Fixed is a [Source] that replays a list of values in [0, 1) mapped onto the
// requested range. After the list is exhausted it repeats the last value.
// It is intended for tests and for requests that pin every parameter.
type Fixed struct {
	Values []float64
	next   int
}

// Uniform maps the next fixed value onto [lo, hi).
func (f *Fixed) Uniform(lo, hi float64) float64 {
	if len(f.Values) == 0 {
		return lo
	}
	i := min(f.next, len(f.Values)-1)
	f.next++
	return lo + (hi-lo)*f.Values[i]
}

// Draws returns the number of values consumed so far.
func (f *Fixed) Draws() int {
	return f.next
}
