package telemetry

import "github.com/Borislavv/go-ash-bloom/internal/filter"

type sampler struct {
	stats func() filter.Stats
}

func newSampler(stats func() filter.Stats) sampler {
	return sampler{stats: stats}
}

// snapshot holds cumulative counters (monotonic) and the current occupancy.
func (s sampler) snapshot() filter.Stats {
	return s.stats()
}

// deltaSnapshot converts cumulative operation counts to per-interval deltas.
// Occupancy is not cumulative and is taken from cur as is.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur filter.Stats) filter.Stats {
	return filter.Stats{
		Inserts:       delta(prev.Inserts, cur.Inserts),
		Queries:       delta(prev.Queries, cur.Queries),
		Positives:     delta(prev.Positives, cur.Positives),
		BackupInserts: delta(prev.BackupInserts, cur.BackupInserts),
		ModelAccepts:  delta(prev.ModelAccepts, cur.ModelAccepts),
		ScorerErrors:  delta(prev.ScorerErrors, cur.ScorerErrors),

		Counters:     cur.Counters,
		ZeroCounters: cur.ZeroCounters,
		MemBytes:     cur.MemBytes,
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
