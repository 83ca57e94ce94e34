package ashbloom

import (
	"fmt"

	"github.com/Borislavv/go-ash-bloom/config"
	"github.com/Borislavv/go-ash-bloom/internal/filter"
	"github.com/Borislavv/go-ash-bloom/internal/hasher"
	"github.com/Borislavv/go-ash-bloom/internal/scorer"
	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/Borislavv/go-ash-bloom/internal/shared/random"
	"github.com/Borislavv/go-ash-bloom/model"
)

type (
	Data       = model.Data
	Scorer     = scorer.Scorer
	ScorerFunc = scorer.Func
	Stats      = filter.Stats

	// BF is the standard Bloom filter over byte keys.
	BF = filter.Bloom
	// SBF is the stable Bloom filter over byte keys.
	SBF = filter.Stable
	// LBF is a learned filter; an SSLBF is the same type with a stable backup.
	LBF = filter.Learned
	// GSLBF is the grouped stable learned filter.
	GSLBF = filter.Grouped
)

var (
	ErrConfiguration  = errs.ErrConfiguration
	ErrAllocation     = errs.ErrAllocation
	ErrScorer         = errs.ErrScorer
	ErrReleased       = errs.ErrReleased
	ErrUnknownKind    = config.ErrUnknownKind
	ErrScorerRequired = filter.ErrScorerRequired
)

func NewBloom(k, m uint32) (*BF, error) {
	return NewBloomWithConfig(k, m, config.DefaultHashing())
}

func NewBloomWithConfig(k, m uint32, hcfg config.HashingCfg) (*BF, error) {
	h, err := hasher.New(hcfg)
	if err != nil {
		return nil, err
	}
	return filter.NewBloom(k, m, h)
}

func NewStable(p, k, m uint32, bitsPerCounter int) (*SBF, error) {
	return NewStableWithConfig(p, k, m, bitsPerCounter, config.DefaultHashing(), config.DefaultRandom())
}

func NewStableWithConfig(p, k, m uint32, bitsPerCounter int, hcfg config.HashingCfg, rcfg config.RandomCfg) (*SBF, error) {
	h, src, err := newHasherAndSource(hcfg, rcfg)
	if err != nil {
		return nil, err
	}
	return filter.NewStable(p, k, m, bitsPerCounter, h, src)
}

func NewLBF(s Scorer, k, m uint32, tau float64) (*LBF, error) {
	return NewLBFWithConfig(s, k, m, tau, config.DefaultHashing())
}

func NewLBFWithConfig(s Scorer, k, m uint32, tau float64, hcfg config.HashingCfg) (*LBF, error) {
	h, err := hasher.New(hcfg)
	if err != nil {
		return nil, err
	}
	return filter.NewLBF(s, k, m, tau, h)
}

func NewSSLBF(s Scorer, p, k, m uint32, bitsPerCounter int, tau float64) (*LBF, error) {
	return NewSSLBFWithConfig(s, p, k, m, bitsPerCounter, tau, config.DefaultHashing(), config.DefaultRandom())
}

func NewSSLBFWithConfig(
	s Scorer, p, k, m uint32, bitsPerCounter int, tau float64,
	hcfg config.HashingCfg, rcfg config.RandomCfg,
) (*LBF, error) {
	h, src, err := newHasherAndSource(hcfg, rcfg)
	if err != nil {
		return nil, err
	}
	return filter.NewSSLBF(s, p, k, m, bitsPerCounter, tau, h, src)
}

// NewGSLBF builds g groups from parallel parameter slices: group i is a stable
// filter with ps[i], ks[i], ms[i], bs[i] owning scores in (taus[i], taus[i+1]].
func NewGSLBF(s Scorer, ps, ks, ms []uint32, bs []int, taus []float64, g int) (*GSLBF, error) {
	return NewGSLBFWithConfig(s, ps, ks, ms, bs, taus, g, config.DefaultHashing(), config.DefaultRandom())
}

func NewGSLBFWithConfig(
	s Scorer, ps, ks, ms []uint32, bs []int, taus []float64, g int,
	hcfg config.HashingCfg, rcfg config.RandomCfg,
) (*GSLBF, error) {
	if g < 1 {
		return nil, fmt.Errorf("%w: at least one group required, %d provided", errs.ErrConfiguration, g)
	}
	if len(ps) != g || len(ks) != g || len(ms) != g || len(bs) != g {
		return nil, fmt.Errorf("%w: %d groups need %d values per parameter, got p=%d k=%d m=%d b=%d",
			errs.ErrConfiguration, g, g, len(ps), len(ks), len(ms), len(bs))
	}
	groups := make([]filter.StableParams, g)
	for i := range groups {
		groups[i] = filter.StableParams{P: ps[i], K: ks[i], M: ms[i], BitsPerCounter: bs[i]}
	}
	h, err := hasher.New(hcfg)
	if err != nil {
		return nil, err
	}
	return filter.NewGrouped(s, groups, taus, h, rcfg)
}

func newHasherAndSource(hcfg config.HashingCfg, rcfg config.RandomCfg) (*hasher.Hasher, random.Source, error) {
	h, err := hasher.New(hcfg)
	if err != nil {
		return nil, nil, err
	}
	src, err := random.New(rcfg)
	if err != nil {
		return nil, nil, err
	}
	return h, src, nil
}
