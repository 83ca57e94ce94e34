package filter

import (
	"github.com/Borislavv/go-ash-bloom/internal/counters"
	"github.com/Borislavv/go-ash-bloom/internal/hasher"
)

// Bloom is the standard Bloom filter: m one-bit counters and k probes per key.
// Bits are only ever set, so an inserted key always queries true.
type Bloom struct {
	counters *counters.Array
	hasher   *hasher.Hasher

	// probes is the k-slot scratch buffer reused by every call.
	probes []uint32

	k uint32
	m uint32

	ops opCounters
}

// NewBloom allocates a Bloom filter with k probes over m bits.
// A nil hasher means the default one.
func NewBloom(k, m uint32, h *hasher.Hasher) (*Bloom, error) {
	if err := checkProbes(k, m); err != nil {
		return nil, err
	}
	arr, err := counters.New(m, 1)
	if err != nil {
		return nil, err
	}
	if h == nil {
		h = hasher.Default()
	}
	return &Bloom{
		counters: arr,
		hasher:   h,
		probes:   make([]uint32, k),
		k:        k,
		m:        m,
	}, nil
}

// Insert sets the k probed bits of key. Inserting a key twice changes nothing.
func (b *Bloom) Insert(key []byte) {
	b.ops.inserts++
	b.probes = b.hasher.Generate(key, b.k, b.m, b.probes)
	for _, p := range b.probes {
		b.counters.SetToMax(p)
	}
}

// Query reports whether all k probed bits of key are set.
func (b *Bloom) Query(key []byte) bool {
	b.probes = b.hasher.Generate(key, b.k, b.m, b.probes)
	for _, p := range b.probes {
		if !b.counters.Test(p) {
			return b.ops.query(false)
		}
	}
	return b.ops.query(true)
}

func (b *Bloom) K() uint32 { return b.k }
func (b *Bloom) M() uint32 { return b.m }

// Counters exposes the bit storage read-only by convention.
func (b *Bloom) Counters() *counters.Array { return b.counters }

func (b *Bloom) Stats() Stats {
	return b.ops.snapshot(b.counters)
}

// Release frees the storage. The filter must not be used afterwards.
func (b *Bloom) Release() {
	b.counters.Release()
	b.probes = nil
}
