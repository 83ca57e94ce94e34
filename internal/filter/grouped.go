package filter

import (
	"fmt"

	"github.com/Borislavv/go-ash-bloom/config"
	"github.com/Borislavv/go-ash-bloom/internal/counters"
	"github.com/Borislavv/go-ash-bloom/internal/hasher"
	"github.com/Borislavv/go-ash-bloom/internal/scorer"
	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/Borislavv/go-ash-bloom/internal/shared/random"
	"github.com/Borislavv/go-ash-bloom/model"
)

// StableParams configures one group of a Grouped filter.
type StableParams struct {
	P              uint32
	K              uint32
	M              uint32
	BitsPerCounter int
}

// Grouped is a grouped stable learned Bloom filter (GSLBF): g stable filters,
// group i owning the score interval (taus[i], taus[i+1]]. Records are routed by
// score and hashed over their full encoding (model.Data.Bytes), not only the
// identifier as in Learned.
type Grouped struct {
	scorer scorer.Scorer

	// taus has len(groups)+1 non-decreasing entries.
	taus   []float64
	groups []*Stable

	scorerErrors uint64
	ops          opCounters
}

// NewGrouped validates every parameter before allocating any group. Each group
// gets its own decay source built from rnd, so all groups replay the same seed.
func NewGrouped(s scorer.Scorer, groups []StableParams, taus []float64, h *hasher.Hasher, rnd config.RandomCfg) (*Grouped, error) {
	if s == nil {
		return nil, ErrScorerRequired
	}
	if err := validateGroups(groups, taus); err != nil {
		return nil, err
	}
	if h == nil {
		h = hasher.Default()
	}

	g := &Grouped{
		scorer: s,
		taus:   append([]float64(nil), taus...),
		groups: make([]*Stable, 0, len(groups)),
	}
	for i, p := range groups {
		src, err := random.New(rnd)
		if err != nil {
			g.Release()
			return nil, err
		}
		sbf, err := NewStable(p.P, p.K, p.M, p.BitsPerCounter, h, src)
		if err != nil {
			g.Release()
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		g.groups = append(g.groups, sbf)
	}
	return g, nil
}

func validateGroups(groups []StableParams, taus []float64) error {
	if len(groups) == 0 {
		return fmt.Errorf("%w: at least one group required", errs.ErrConfiguration)
	}
	if len(taus) != len(groups)+1 {
		return fmt.Errorf("%w: %d groups need %d thresholds, %d provided",
			errs.ErrConfiguration, len(groups), len(groups)+1, len(taus))
	}
	for i := 1; i < len(taus); i++ {
		if taus[i] < taus[i-1] {
			return fmt.Errorf("%w: thresholds must be non-decreasing, %v", errs.ErrConfiguration, taus)
		}
	}
	for i, p := range groups {
		if err := checkProbes(p.K, p.M); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
		if p.BitsPerCounter < 1 || p.BitsPerCounter > counters.MaxBitsPerCounter {
			return fmt.Errorf("%w: group %d: bits per counter must be in [1, %d], %d provided",
				errs.ErrConfiguration, i, counters.MaxBitsPerCounter, p.BitsPerCounter)
		}
	}
	return nil
}

// GroupFor bisects the thresholds: lo moves up while score > taus[mid], so a
// score equal to an inner threshold lands in the lower group. Scores above the
// last threshold are clamped into the last group.
func (g *Grouped) GroupFor(score float64) int {
	lo, hi := 0, len(g.taus)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if score > g.taus[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	if lo >= len(g.groups) {
		lo = len(g.groups) - 1
	}
	return lo
}

func (g *Grouped) Insert(data *model.Data) error {
	g.ops.inserts++
	score, err := g.predict(data)
	if err != nil {
		return err
	}
	g.groups[g.GroupFor(score)].Insert(data.Bytes())
	return nil
}

func (g *Grouped) Query(data *model.Data) (bool, error) {
	score, err := g.predict(data)
	if err != nil {
		g.ops.queries++
		return false, err
	}
	return g.ops.query(g.groups[g.GroupFor(score)].Query(data.Bytes())), nil
}

func (g *Grouped) predict(data *model.Data) (float64, error) {
	score, err := predict(g.scorer, data)
	if err != nil {
		g.scorerErrors++
	}
	return score, err
}

// NumGroups returns g.
func (g *Grouped) NumGroups() int { return len(g.groups) }

// Group returns the stable filter of group i.
func (g *Grouped) Group(i int) *Stable { return g.groups[i] }

// Thresholds returns a copy of the g+1 thresholds.
func (g *Grouped) Thresholds() []float64 { return append([]float64(nil), g.taus...) }

// Stats reports record-level operations with the summed occupancy of all groups.
func (g *Grouped) Stats() Stats {
	var occ Stats
	for _, sbf := range g.groups {
		occ = occ.Add(sbf.Stats())
	}
	return Stats{
		Inserts:       g.ops.inserts,
		Queries:       g.ops.queries,
		Positives:     g.ops.positives,
		BackupInserts: occ.Inserts,
		ScorerErrors:  g.scorerErrors,
		Counters:      occ.Counters,
		ZeroCounters:  occ.ZeroCounters,
		MemBytes:      occ.MemBytes,
	}
}

// Release frees every group. The scorer is owned by the caller.
func (g *Grouped) Release() {
	for _, sbf := range g.groups {
		sbf.Release()
	}
	g.groups = nil
}
