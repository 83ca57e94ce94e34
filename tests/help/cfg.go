package help

import (
	"time"

	"github.com/Borislavv/go-ash-bloom/config"
	"github.com/Borislavv/go-ash-bloom/internal/scorer"
	"github.com/Borislavv/go-ash-bloom/model"
)

func BloomCfg() *config.Filter {
	c := &config.Filter{
		Kind:   config.KindBloom,
		Bloom:  &config.BloomCfg{ExpectedItems: 100_000, FalsePositiveRate: 0.01},
		Shards: 4,
		Telemetry: &config.TelemetryCfg{
			Interval: 50 * time.Millisecond,
		},
	}
	c.AdjustConfig()
	return c
}

func StableCfg() *config.Filter {
	c := &config.Filter{
		Kind:   config.KindStable,
		Stable: &config.StableCfg{P: 10, K: 3, M: 10_000, BitsPerCounter: 2},
	}
	c.AdjustConfig()
	return c
}

func LearnedCfg() *config.Filter {
	c := &config.Filter{
		Kind:    config.KindLearned,
		Learned: &config.LearnedCfg{Tau: 0.5},
		Bloom:   &config.BloomCfg{K: 4, M: 1 << 16},
		Shards:  2,
	}
	c.AdjustConfig()
	return c
}

func StableLearnedCfg() *config.Filter {
	c := &config.Filter{
		Kind:    config.KindStableLearned,
		Learned: &config.LearnedCfg{Tau: 0.5},
		Stable:  &config.StableCfg{P: 2, K: 4, M: 1 << 16, BitsPerCounter: 3},
		Hashing: config.HashingCfg{Algorithm: config.HashMurmur3},
		Random:  config.RandomCfg{Algorithm: config.RandomSplitMix64},
	}
	c.AdjustConfig()
	return c
}

func GroupedCfg() *config.Filter {
	c := &config.Filter{
		Kind: config.KindGrouped,
		Grouped: &config.GroupedCfg{
			Thresholds: []float64{0, 0.3, 0.7, 1.0},
			Groups: []config.StableCfg{
				{P: 2, K: 4, M: 1 << 15, BitsPerCounter: 3},
				{P: 2, K: 3, M: 1 << 14, BitsPerCounter: 2},
				{P: 1, K: 2, M: 1 << 13, BitsPerCounter: 1},
			},
		},
		Hashing: config.HashingCfg{Algorithm: config.HashXXHash},
		Shards:  3,
	}
	c.AdjustConfig()
	return c
}

// IDScorer scores a record by its identifier: (ID % 100) / 100.
// IDs ending in 00..49 fall below a 0.5 threshold, 51..99 above it.
func IDScorer() scorer.Scorer {
	return scorer.Func(func(d *model.Data) (float64, error) {
		return float64(d.ID%100) / 100, nil
	})
}

func Records(from, to uint32) []*model.Data {
	out := make([]*model.Data, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, &model.Data{
			ID:            i,
			FloatFeatures: []float32{float32(i % 7), float32(i % 13)},
			CatFeatures:   []string{"c" + string(rune('a'+i%26))},
		})
	}
	return out
}
