package filter

import "github.com/Borislavv/go-ash-bloom/internal/counters"

// Stats is a point-in-time view of a filter. Operation counts are cumulative
// since construction; occupancy fields describe the counter storage now.
type Stats struct {
	Inserts   uint64
	Queries   uint64
	Positives uint64

	// learned filters only
	BackupInserts uint64 // inserts stored in the probabilistic part (backup filter or group)
	ModelAccepts  uint64 // queries answered by the model alone
	ScorerErrors  uint64

	Counters     uint64
	ZeroCounters uint64
	MemBytes     uint64
}

// ZeroRatio is the fraction of zero counters, 1 for an empty filter.
func (s Stats) ZeroRatio() float64 {
	if s.Counters == 0 {
		return 1
	}
	return float64(s.ZeroCounters) / float64(s.Counters)
}

// Add sums two views, used to aggregate groups and shards.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Inserts:       s.Inserts + o.Inserts,
		Queries:       s.Queries + o.Queries,
		Positives:     s.Positives + o.Positives,
		BackupInserts: s.BackupInserts + o.BackupInserts,
		ModelAccepts:  s.ModelAccepts + o.ModelAccepts,
		ScorerErrors:  s.ScorerErrors + o.ScorerErrors,
		Counters:      s.Counters + o.Counters,
		ZeroCounters:  s.ZeroCounters + o.ZeroCounters,
		MemBytes:      s.MemBytes + o.MemBytes,
	}
}

// opCounters are plain integers: filters are single-threaded.
type opCounters struct {
	inserts   uint64
	queries   uint64
	positives uint64
}

func (c *opCounters) query(positive bool) bool {
	c.queries++
	if positive {
		c.positives++
	}
	return positive
}

func (c *opCounters) snapshot(arr *counters.Array) Stats {
	return Stats{
		Inserts:      c.inserts,
		Queries:      c.queries,
		Positives:    c.positives,
		Counters:     uint64(arr.Size()),
		ZeroCounters: uint64(arr.CountZero()),
		MemBytes:     arr.MemBytes(),
	}
}
