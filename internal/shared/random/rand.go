package random

import (
	"fmt"
	"math/rand/v2"

	"github.com/Borislavv/go-ash-bloom/config"
	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/zeebo/xxh3"
)

// Source draws indices uniformly from [0, m). m must be positive.
// Implementations are deterministic for a given seed and not safe for concurrent use.
type Source interface {
	IndexBelow(m uint32) uint32
}

// New builds the source selected by cfg. Empty fields take defaults.
func New(cfg config.RandomCfg) (Source, error) {
	cfg.Adjust()
	switch cfg.Algorithm {
	case config.RandomChaCha8:
		return NewChaCha8(cfg.Seed), nil
	case config.RandomSplitMix64:
		return NewSplitMix64(cfg.Seed), nil
	default:
		return nil, fmt.Errorf("%w: unknown random algorithm %q", errs.ErrConfiguration, cfg.Algorithm)
	}
}

// ChaCha8 is a Source backed by the ChaCha8 generator.
type ChaCha8 struct {
	r *rand.Rand
}

// NewChaCha8 keys ChaCha8 with the seed bytes, xor-folded into 32 bytes.
func NewChaCha8(seed string) *ChaCha8 {
	var key [32]byte
	for i := 0; i < len(seed); i++ {
		key[i%len(key)] ^= seed[i]
	}
	return &ChaCha8{r: rand.New(rand.NewChaCha8(key))}
}

func (c *ChaCha8) IndexBelow(m uint32) uint32 {
	return c.r.Uint32N(m)
}

// SplitMix64 is a Source stepping the SplitMix64 sequence.
type SplitMix64 struct {
	// state is advanced by the golden-ratio increment on every draw.
	state uint64
}

// NewSplitMix64 seeds the state with the XXH3 digest of seed.
func NewSplitMix64(seed string) *SplitMix64 {
	s := xxh3.HashString(seed)
	if s == 0 {
		s = 0x9e3779b97f4a7c15
	}
	return &SplitMix64{state: s}
}

// Uint64 returns the next value of the sequence.
func (s *SplitMix64) Uint64() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

// IndexBelow uses Lemire's multiply-shift with rejection, so the result is unbiased.
func (s *SplitMix64) IndexBelow(m uint32) uint32 {
	prod := uint64(uint32(s.Uint64()>>32)) * uint64(m)
	if low := uint32(prod); low < m {
		thresh := -m % m
		for low < thresh {
			prod = uint64(uint32(s.Uint64()>>32)) * uint64(m)
			low = uint32(prod)
		}
	}
	return uint32(prod >> 32)
}
