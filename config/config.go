package config

import (
	"fmt"
	"os"

	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"gopkg.in/yaml.v3"
)

// ErrUnknownKind is returned for a kind outside the filter family.
var ErrUnknownKind = fmt.Errorf("%w: unknown filter kind", errs.ErrConfiguration)

// Filter describes one filter instance. Only the sections required by Kind are read:
//
//	bloom          -> Bloom
//	stable         -> Stable
//	learned        -> Learned + Bloom (backup)
//	stable_learned -> Learned + Stable (backup)
//	grouped        -> Grouped
type Filter struct {
	Kind Kind `yaml:"kind"`

	Bloom   *BloomCfg   `yaml:"bloom"`
	Stable  *StableCfg  `yaml:"stable"`
	Learned *LearnedCfg `yaml:"learned"`
	Grouped *GroupedCfg `yaml:"grouped"`

	Hashing HashingCfg `yaml:"hashing"`
	Random  RandomCfg  `yaml:"random"`

	// ScorerRate caps model predictions per second across the whole filter.
	// 0 means unlimited. Only read by learned kinds.
	ScorerRate int `yaml:"scorer_rate"`

	// Shards splits the filter into independent instances keyed by the element
	// identifier. 0 and 1 both mean a single instance.
	Shards int `yaml:"shards"`

	// Telemetry configures periodic occupancy logs and metrics.
	// If nil, telemetry is disabled.
	Telemetry *TelemetryCfg `yaml:"telemetry"`
}

// AdjustConfig fills defaults and derived values. It must run before Validate.
func (cfg *Filter) AdjustConfig() {
	cfg.Hashing.Adjust()
	cfg.Random.Adjust()
	if cfg.Shards < 1 {
		cfg.Shards = 1
	}
	if cfg.Bloom.Enabled() {
		cfg.Bloom.Adjust()
	}
	if cfg.Telemetry.Enabled() {
		if cfg.Telemetry.Interval <= 0 {
			cfg.Telemetry.Interval = defaultTelemetryInterval
		}
		if cfg.Telemetry.Name == "" {
			cfg.Telemetry.Name = string(cfg.Kind)
		}
	}
}

// Validate reports the first configuration problem, wrapped in errs.ErrConfiguration.
func (cfg *Filter) Validate() error {
	switch cfg.Hashing.Algorithm {
	case HashXXH32, HashXXH3, HashMurmur3, HashXXHash:
	default:
		return fmt.Errorf("%w: unknown hash algorithm %q", errs.ErrConfiguration, cfg.Hashing.Algorithm)
	}
	if cfg.Hashing.Seed1 == cfg.Hashing.Seed2 {
		return fmt.Errorf("%w: hash seeds must differ", errs.ErrConfiguration)
	}
	switch cfg.Random.Algorithm {
	case RandomChaCha8, RandomSplitMix64:
	default:
		return fmt.Errorf("%w: unknown random algorithm %q", errs.ErrConfiguration, cfg.Random.Algorithm)
	}
	if cfg.ScorerRate < 0 {
		return fmt.Errorf("%w: scorer rate must not be negative, %d provided", errs.ErrConfiguration, cfg.ScorerRate)
	}

	switch cfg.Kind {
	case KindBloom:
		return cfg.requireBloom()
	case KindStable:
		return cfg.requireStable()
	case KindLearned:
		if err := cfg.requireLearned(); err != nil {
			return err
		}
		return cfg.requireBloom()
	case KindStableLearned:
		if err := cfg.requireLearned(); err != nil {
			return err
		}
		return cfg.requireStable()
	case KindGrouped:
		if !cfg.Grouped.Enabled() {
			return fmt.Errorf("%w: kind %q requires the grouped section", errs.ErrConfiguration, cfg.Kind)
		}
		return cfg.Grouped.Validate()
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, cfg.Kind)
	}
}

// IsLearned reports whether the filter consults a scoring model.
func (cfg *Filter) IsLearned() bool {
	return cfg.Kind == KindLearned || cfg.Kind == KindStableLearned || cfg.Kind == KindGrouped
}

func (cfg *Filter) requireBloom() error {
	if !cfg.Bloom.Enabled() {
		return fmt.Errorf("%w: kind %q requires the bloom section", errs.ErrConfiguration, cfg.Kind)
	}
	return cfg.Bloom.Validate()
}

func (cfg *Filter) requireStable() error {
	if !cfg.Stable.Enabled() {
		return fmt.Errorf("%w: kind %q requires the stable section", errs.ErrConfiguration, cfg.Kind)
	}
	return cfg.Stable.Validate()
}

func (cfg *Filter) requireLearned() error {
	if !cfg.Learned.Enabled() {
		return fmt.Errorf("%w: kind %q requires the learned section", errs.ErrConfiguration, cfg.Kind)
	}
	return nil
}

func LoadConfig(path string) (*Filter, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Filter
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: empty config %s", errs.ErrConfiguration, path)
	}
	cfg.AdjustConfig()

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}
