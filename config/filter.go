package config

import (
	"fmt"
	"math"

	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/bits-and-blooms/bloom/v3"
)

// Kind names one member of the filter family.
type Kind string

const (
	KindBloom         Kind = "bloom"          // standard Bloom filter
	KindStable        Kind = "stable"         // stable (decaying) Bloom filter
	KindLearned       Kind = "learned"        // model + backup Bloom filter
	KindStableLearned Kind = "stable_learned" // model + backup stable filter
	KindGrouped       Kind = "grouped"        // model + one stable filter per score interval
)

// BloomCfg sizes a standard Bloom filter. Either K and M are given, or
// ExpectedItems and FalsePositiveRate are and K, M are derived from them.
type BloomCfg struct {
	// K is the number of probes per element.
	K uint32 `yaml:"k"`

	// M is the number of bits.
	M uint32 `yaml:"m"`

	// ExpectedItems and FalsePositiveRate are only read when K or M is zero.
	// Example:
	//   ExpectedItems:     10_000_000
	//   FalsePositiveRate: 0.01 // ~9.6 bits per item, k=7
	ExpectedItems     uint    `yaml:"expected_items"`
	FalsePositiveRate float64 `yaml:"false_positive_rate"`
}

func (cfg *BloomCfg) Enabled() bool {
	return cfg != nil
}

// Adjust derives K and M from the expected load when they are not set explicitly.
func (cfg *BloomCfg) Adjust() {
	if cfg.K != 0 && cfg.M != 0 {
		return
	}
	if cfg.ExpectedItems == 0 || cfg.FalsePositiveRate <= 0 || cfg.FalsePositiveRate >= 1 {
		return
	}
	m, k := bloom.EstimateParameters(cfg.ExpectedItems, cfg.FalsePositiveRate)
	if m > math.MaxUint32 {
		m = math.MaxUint32
	}
	cfg.M, cfg.K = uint32(m), uint32(k)
}

func (cfg *BloomCfg) Validate() error {
	if cfg.K == 0 {
		return fmt.Errorf("%w: bloom: k must be positive", errs.ErrConfiguration)
	}
	if cfg.M == 0 {
		return fmt.Errorf("%w: bloom: m must be positive", errs.ErrConfiguration)
	}
	return nil
}

// StableCfg configures one stable Bloom filter.
type StableCfg struct {
	// P is the number of random counters decremented before every insert.
	P uint32 `yaml:"p"`

	// K is the number of counters set to max per element.
	K uint32 `yaml:"k"`

	// M is the number of counters.
	M uint32 `yaml:"m"`

	// BitsPerCounter in [1, 32]. Wider counters survive more decrements,
	// lowering the false negative rate at the cost of memory.
	BitsPerCounter int `yaml:"bits_per_counter"`
}

func (cfg *StableCfg) Enabled() bool {
	return cfg != nil
}

func (cfg *StableCfg) Validate() error {
	if cfg.K == 0 {
		return fmt.Errorf("%w: stable: k must be positive", errs.ErrConfiguration)
	}
	if cfg.M == 0 {
		return fmt.Errorf("%w: stable: m must be positive", errs.ErrConfiguration)
	}
	if cfg.BitsPerCounter < 1 || cfg.BitsPerCounter > 32 {
		return fmt.Errorf("%w: stable: bits per counter must be in [1, 32], %d provided",
			errs.ErrConfiguration, cfg.BitsPerCounter)
	}
	return nil
}

// LearnedCfg configures the model threshold of the learned and stable learned filters.
type LearnedCfg struct {
	// Tau separates "trust the model" (score > Tau on query) from the backup filter.
	Tau float64 `yaml:"tau"`
}

func (cfg *LearnedCfg) Enabled() bool {
	return cfg != nil
}

// GroupedCfg configures a grouped stable learned filter: len(Groups) == g and
// len(Thresholds) == g+1, thresholds non-decreasing.
type GroupedCfg struct {
	Groups     []StableCfg `yaml:"groups"`
	Thresholds []float64   `yaml:"thresholds"`
}

func (cfg *GroupedCfg) Enabled() bool {
	return cfg != nil
}

func (cfg *GroupedCfg) Validate() error {
	if len(cfg.Groups) == 0 {
		return fmt.Errorf("%w: grouped: at least one group required", errs.ErrConfiguration)
	}
	if len(cfg.Thresholds) != len(cfg.Groups)+1 {
		return fmt.Errorf("%w: grouped: %d groups need %d thresholds, %d provided",
			errs.ErrConfiguration, len(cfg.Groups), len(cfg.Groups)+1, len(cfg.Thresholds))
	}
	for i := 1; i < len(cfg.Thresholds); i++ {
		if cfg.Thresholds[i] < cfg.Thresholds[i-1] {
			return fmt.Errorf("%w: grouped: thresholds must be non-decreasing, %v", errs.ErrConfiguration, cfg.Thresholds)
		}
	}
	for i := range cfg.Groups {
		if err := cfg.Groups[i].Validate(); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}
	return nil
}
