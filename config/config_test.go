package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestLoadConfig_Grouped verifies a grouped config is parsed, defaulted and validated.
func TestLoadConfig_Grouped(t *testing.T) {
	path := writeYAML(t, `
kind: grouped
grouped:
  thresholds: [0.0, 0.3, 0.7, 1.0]
  groups:
    - {p: 6, k: 6, m: 10000, bits_per_counter: 3}
    - {p: 4, k: 5, m: 8000, bits_per_counter: 2}
    - {p: 2, k: 3, m: 4000, bits_per_counter: 1}
shards: 4
telemetry:
  interval: 2s
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, KindGrouped, cfg.Kind)
	require.Len(t, cfg.Grouped.Groups, 3)
	require.Equal(t, uint32(8000), cfg.Grouped.Groups[1].M)
	require.Equal(t, 4, cfg.Shards)

	// defaults
	require.Equal(t, HashXXH32, cfg.Hashing.Algorithm)
	require.Equal(t, DefaultHashSeed1, cfg.Hashing.Seed1)
	require.Equal(t, DefaultHashSeed2, cfg.Hashing.Seed2)
	require.Equal(t, RandomChaCha8, cfg.Random.Algorithm)
	require.Equal(t, DefaultRandomSeed, cfg.Random.Seed)
	require.Equal(t, 2*time.Second, cfg.Telemetry.Interval)
	require.Equal(t, "grouped", cfg.Telemetry.Name)
	require.True(t, cfg.IsLearned())
}

// TestLoadConfig_Errors verifies missing files, bad yaml and invalid configs are reported.
func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadConfig(writeYAML(t, "kind: [unterminated"))
	require.Error(t, err)

	_, err = LoadConfig(writeYAML(t, "kind: stable\nstable: {k: 3, m: 100, bits_per_counter: 40}\n"))
	require.ErrorIs(t, err, errs.ErrConfiguration)
}

// TestBloomCfg_Adjust verifies k and m are derived from the expected load.
func TestBloomCfg_Adjust(t *testing.T) {
	cfg := &BloomCfg{ExpectedItems: 10_000, FalsePositiveRate: 0.01}
	cfg.Adjust()
	require.Equal(t, uint32(7), cfg.K)
	require.InDelta(t, 95_851, float64(cfg.M), 10)
	require.NoError(t, cfg.Validate())

	explicit := &BloomCfg{K: 6, M: 1000, ExpectedItems: 10_000, FalsePositiveRate: 0.01}
	explicit.Adjust()
	require.Equal(t, uint32(6), explicit.K)
	require.Equal(t, uint32(1000), explicit.M)

	empty := &BloomCfg{}
	empty.Adjust()
	require.ErrorIs(t, empty.Validate(), errs.ErrConfiguration)
}

// TestFilter_Validate covers the configuration error taxonomy.
func TestFilter_Validate(t *testing.T) {
	stable := &StableCfg{P: 1, K: 2, M: 64, BitsPerCounter: 2}

	tests := []struct {
		name string
		cfg  Filter
		ok   bool
	}{
		{"bloom ok", Filter{Kind: KindBloom, Bloom: &BloomCfg{K: 3, M: 100}}, true},
		{"bloom missing", Filter{Kind: KindBloom}, false},
		{"stable ok", Filter{Kind: KindStable, Stable: stable}, true},
		{"stable zero bits", Filter{Kind: KindStable, Stable: &StableCfg{K: 1, M: 8}}, false},
		{"learned ok", Filter{Kind: KindLearned, Learned: &LearnedCfg{Tau: 0.5}, Bloom: &BloomCfg{K: 3, M: 100}}, true},
		{"learned without tau", Filter{Kind: KindLearned, Bloom: &BloomCfg{K: 3, M: 100}}, false},
		{"stable learned ok", Filter{Kind: KindStableLearned, Learned: &LearnedCfg{}, Stable: stable}, true},
		{"stable learned without backup", Filter{Kind: KindStableLearned, Learned: &LearnedCfg{}}, false},
		{"grouped ok", Filter{Kind: KindGrouped, Grouped: &GroupedCfg{
			Groups: []StableCfg{*stable, *stable}, Thresholds: []float64{0, 0.5, 1},
		}}, true},
		{"grouped length mismatch", Filter{Kind: KindGrouped, Grouped: &GroupedCfg{
			Groups: []StableCfg{*stable, *stable}, Thresholds: []float64{0, 1},
		}}, false},
		{"grouped decreasing", Filter{Kind: KindGrouped, Grouped: &GroupedCfg{
			Groups: []StableCfg{*stable, *stable}, Thresholds: []float64{0, 0.7, 0.3},
		}}, false},
		{"grouped empty", Filter{Kind: KindGrouped, Grouped: &GroupedCfg{}}, false},
		{"unknown kind", Filter{Kind: "cuckoo"}, false},
		{"same seeds", Filter{Kind: KindBloom, Bloom: &BloomCfg{K: 3, M: 100}, Hashing: HashingCfg{Seed1: 7, Seed2: 7}}, false},
		{"unknown hash", Filter{Kind: KindBloom, Bloom: &BloomCfg{K: 3, M: 100}, Hashing: HashingCfg{Algorithm: "md5"}}, false},
		{"negative scorer rate", Filter{Kind: KindBloom, Bloom: &BloomCfg{K: 3, M: 100}, ScorerRate: -1}, false},
		{"unknown random", Filter{Kind: KindBloom, Bloom: &BloomCfg{K: 3, M: 100}, Random: RandomCfg{Algorithm: "isaac"}}, false},
	}

	unknown := Filter{Kind: "cuckoo"}
	unknown.AdjustConfig()
	require.ErrorIs(t, unknown.Validate(), ErrUnknownKind)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.AdjustConfig()
			err := cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, errs.ErrConfiguration)
			}
		})
	}
}
