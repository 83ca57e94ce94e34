package random

import (
	"testing"

	"github.com/Borislavv/go-ash-bloom/config"
	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/stretchr/testify/require"
)

func sources(seed string) map[string]Source {
	return map[string]Source{
		"chacha8":    NewChaCha8(seed),
		"splitmix64": NewSplitMix64(seed),
	}
}

// TestSource_Deterministic verifies equal seeds replay the same sequence.
func TestSource_Deterministic(t *testing.T) {
	a, b := sources(config.DefaultRandomSeed), sources(config.DefaultRandomSeed)
	for name := range a {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				require.Equal(t, a[name].IndexBelow(10_000), b[name].IndexBelow(10_000))
			}
		})
	}
}

// TestSource_SeedMatters verifies different seeds give different sequences.
func TestSource_SeedMatters(t *testing.T) {
	a, b := sources("22333322"), sources("22333323")
	for name := range a {
		t.Run(name, func(t *testing.T) {
			same := 0
			for i := 0; i < 100; i++ {
				if a[name].IndexBelow(1<<30) == b[name].IndexBelow(1<<30) {
					same++
				}
			}
			require.Less(t, same, 5)
		})
	}
}

// TestSource_Range verifies draws lie in [0, m).
func TestSource_Range(t *testing.T) {
	for name, src := range sources("range") {
		t.Run(name, func(t *testing.T) {
			for _, m := range []uint32{1, 2, 3, 1000, ^uint32(0)} {
				for i := 0; i < 1000; i++ {
					require.Less(t, src.IndexBelow(m), m)
				}
			}
		})
	}
}

// TestSource_Uniform verifies draws spread evenly over a small range.
func TestSource_Uniform(t *testing.T) {
	for name, src := range sources("uniform") {
		t.Run(name, func(t *testing.T) {
			const m, n = 8, 80_000
			buckets := make([]int, m)
			for i := 0; i < n; i++ {
				buckets[src.IndexBelow(m)]++
			}
			for i, c := range buckets {
				require.InDelta(t, n/m, c, n/m/10, "bucket %d", i)
			}
		})
	}
}

// TestNew_SelectsAlgorithm verifies config selection and defaults.
func TestNew_SelectsAlgorithm(t *testing.T) {
	src, err := New(config.RandomCfg{})
	require.NoError(t, err)
	require.IsType(t, &ChaCha8{}, src)

	src, err = New(config.RandomCfg{Algorithm: config.RandomSplitMix64})
	require.NoError(t, err)
	require.IsType(t, &SplitMix64{}, src)

	_, err = New(config.RandomCfg{Algorithm: "isaac"})
	require.ErrorIs(t, err, errs.ErrConfiguration)
}
