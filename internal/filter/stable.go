package filter

import (
	"github.com/Borislavv/go-ash-bloom/config"
	"github.com/Borislavv/go-ash-bloom/internal/counters"
	"github.com/Borislavv/go-ash-bloom/internal/hasher"
	"github.com/Borislavv/go-ash-bloom/internal/shared/random"
)

// Stable is a stable Bloom filter (Deng & Rafiei). Every insert first
// decrements p randomly drawn counters, then sets the key's k counters to max.
// The decay keeps the fraction of zero counters bounded away from 0 over an
// unbounded stream, at the price of rare false negatives for old keys.
type Stable struct {
	counters *counters.Array
	hasher   *hasher.Hasher

	// src draws decay indices. Its state only moves forward.
	src random.Source

	// probes is the k-slot scratch buffer reused by every call.
	probes []uint32

	p uint32
	k uint32
	m uint32

	ops opCounters
}

// NewStable allocates a stable filter of m counters, bitsPerCounter wide.
// A nil hasher or source means the default one.
func NewStable(p, k, m uint32, bitsPerCounter int, h *hasher.Hasher, src random.Source) (*Stable, error) {
	if err := checkProbes(k, m); err != nil {
		return nil, err
	}
	if src == nil {
		var err error
		if src, err = random.New(config.DefaultRandom()); err != nil {
			return nil, err
		}
	}
	arr, err := counters.New(m, bitsPerCounter)
	if err != nil {
		return nil, err
	}
	if h == nil {
		h = hasher.Default()
	}
	return &Stable{
		counters: arr,
		hasher:   h,
		src:      src,
		probes:   make([]uint32, k),
		p:        p,
		k:        k,
		m:        m,
	}, nil
}

// Insert decays p counters drawn with replacement, then sets the k counters of key to max.
func (s *Stable) Insert(key []byte) {
	s.ops.inserts++
	for i := uint32(0); i < s.p; i++ {
		s.counters.Decrement(s.src.IndexBelow(s.m))
	}
	s.probes = s.hasher.Generate(key, s.k, s.m, s.probes)
	for _, p := range s.probes {
		s.counters.SetToMax(p)
	}
}

// Query reports whether all k counters of key are nonzero.
func (s *Stable) Query(key []byte) bool {
	s.probes = s.hasher.Generate(key, s.k, s.m, s.probes)
	for _, p := range s.probes {
		if !s.counters.Test(p) {
			return s.ops.query(false)
		}
	}
	return s.ops.query(true)
}

func (s *Stable) P() uint32           { return s.p }
func (s *Stable) K() uint32           { return s.k }
func (s *Stable) M() uint32           { return s.m }
func (s *Stable) BitsPerCounter() int { return s.counters.BitsPerCounter() }

// Counters exposes the counter storage read-only by convention.
func (s *Stable) Counters() *counters.Array { return s.counters }

func (s *Stable) Stats() Stats {
	return s.ops.snapshot(s.counters)
}

// Release frees the storage. The filter must not be used afterwards.
func (s *Stable) Release() {
	s.counters.Release()
	s.probes = nil
}
