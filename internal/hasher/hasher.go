package hasher

import (
	"fmt"
	"sync"

	"github.com/Borislavv/go-ash-bloom/config"
	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	xxhash32 "github.com/OneOfOne/xxhash"
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// digestFunc computes a seeded 32-bit digest of data.
type digestFunc func(data []byte, seed uint32) uint32

// Hasher derives k probe indices in [0, m) from two base digests (enhanced
// double hashing, Kirsch & Mitzenmacher): probe i = (h1 + i*h2) mod m.
// Only two digests are computed regardless of k. Probes may repeat.
type Hasher struct {
	digest    digestFunc
	seed1     uint32
	seed2     uint32
	algorithm config.HashAlgorithm
}

// New builds a hasher for the given configuration. Empty fields take defaults.
func New(cfg config.HashingCfg) (*Hasher, error) {
	cfg.Adjust()
	if cfg.Seed1 == cfg.Seed2 {
		return nil, fmt.Errorf("%w: hash seeds must differ, both are %d", errs.ErrConfiguration, cfg.Seed1)
	}

	var digest digestFunc
	switch cfg.Algorithm {
	case config.HashXXH32:
		digest = xxhash32.Checksum32S
	case config.HashXXH3:
		digest = xxh3Digest
	case config.HashMurmur3:
		digest = murmur3.Sum32WithSeed
	case config.HashXXHash:
		digest = xxhashDigest
	default:
		return nil, fmt.Errorf("%w: unknown hash algorithm %q", errs.ErrConfiguration, cfg.Algorithm)
	}

	return &Hasher{digest: digest, seed1: cfg.Seed1, seed2: cfg.Seed2, algorithm: cfg.Algorithm}, nil
}

// Default returns the hasher with the default algorithm and seeds.
func Default() *Hasher {
	h, err := New(config.DefaultHashing())
	if err != nil {
		panic(err) // defaults are always valid
	}
	return h
}

// Algorithm returns the digest algorithm in use.
func (h *Hasher) Algorithm() config.HashAlgorithm {
	return h.algorithm
}

// Base returns the two base digests of data.
func (h *Hasher) Base(data []byte) (h1, h2 uint32) {
	return h.digest(data, h.seed1), h.digest(data, h.seed2)
}

// Generate writes k probes of data into dst (reusing its capacity) and returns it.
// k and m must be positive.
func (h *Hasher) Generate(data []byte, k, m uint32, dst []uint32) []uint32 {
	h1, h2 := h.Base(data)

	if uint32(cap(dst)) < k {
		dst = make([]uint32, k)
	}
	dst = dst[:k]
	for i := uint32(0); i < k; i++ {
		// uint32 arithmetic wraps before the modulo, as the tuned constants expect
		dst[i] = (h1 + i*h2) % m
	}
	return dst
}

func xxh3Digest(data []byte, seed uint32) uint32 {
	return uint32(xxh3.HashSeed(data, uint64(seed)))
}

var xxhashPool = sync.Pool{New: func() any { return xxhash.New() }}

func xxhashDigest(data []byte, seed uint32) uint32 {
	d := xxhashPool.Get().(*xxhash.Digest)
	d.ResetWithSeed(uint64(seed))
	_, _ = d.Write(data)
	sum := d.Sum64()
	xxhashPool.Put(d)
	return uint32(sum)
}
