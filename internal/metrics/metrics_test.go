package metrics

import (
	"testing"

	"github.com/Borislavv/go-ash-bloom/internal/filter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestPrometheus_Observe verifies counters accumulate deltas and gauges track the latest sample.
func TestPrometheus_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg, "sbf")
	require.NoError(t, err)

	m.Observe(
		filter.Stats{Inserts: 10, Queries: 4, Positives: 3},
		filter.Stats{Counters: 100, ZeroCounters: 40, MemBytes: 52},
	)
	m.Observe(
		filter.Stats{Inserts: 5, ScorerErrors: 1, ModelAccepts: 2, BackupInserts: 3},
		filter.Stats{Counters: 100, ZeroCounters: 25, MemBytes: 52},
	)

	require.Equal(t, 15.0, testutil.ToFloat64(m.inserts))
	require.Equal(t, 4.0, testutil.ToFloat64(m.queries))
	require.Equal(t, 3.0, testutil.ToFloat64(m.positives))
	require.Equal(t, 3.0, testutil.ToFloat64(m.backupInserts))
	require.Equal(t, 2.0, testutil.ToFloat64(m.modelAccepts))
	require.Equal(t, 1.0, testutil.ToFloat64(m.scorerErrors))
	require.Equal(t, 100.0, testutil.ToFloat64(m.counters))
	require.InDelta(t, 0.25, testutil.ToFloat64(m.zeroRatio), 1e-9)
	require.Equal(t, 52.0, testutil.ToFloat64(m.memBytes))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 9, n)
}

// TestNew_DuplicateName verifies two filters with one name cannot share a registry.
func TestNew_DuplicateName(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "bf")
	require.NoError(t, err)

	_, err = New(reg, "bf")
	require.Error(t, err)

	_, err = New(reg, "other")
	require.NoError(t, err)
}

// TestNew_FailureRegistersNothing verifies a failed registration leaves the
// registry untouched, so the name can be registered once the conflict is gone.
func TestNew_FailureRegistersNothing(t *testing.T) {
	reg := prometheus.NewRegistry()
	blocker := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "ashbloom_memory_bytes",
		Help:        "Bytes held by counter storage",
		ConstLabels: prometheus.Labels{"filter": "bf"},
	})
	require.NoError(t, reg.Register(blocker))

	_, err := New(reg, "bf")
	require.Error(t, err)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.True(t, reg.Unregister(blocker))
	_, err = New(reg, "bf")
	require.NoError(t, err)
}

func TestNoOp(t *testing.T) {
	var o Observer = NoOp{}
	o.Observe(filter.Stats{Inserts: 1}, filter.Stats{})
}
