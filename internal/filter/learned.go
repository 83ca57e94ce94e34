package filter

import (
	"errors"
	"fmt"

	"github.com/Borislavv/go-ash-bloom/internal/hasher"
	"github.com/Borislavv/go-ash-bloom/internal/scorer"
	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/Borislavv/go-ash-bloom/internal/shared/random"
	"github.com/Borislavv/go-ash-bloom/model"
)

// ErrScorerRequired is returned when a learned filter is built without a model.
var ErrScorerRequired = fmt.Errorf("%w: scorer is required", errs.ErrConfiguration)

// Learned puts a scoring model in front of a backup filter keyed by the record
// identifier. With a Bloom backup it is a learned Bloom filter (LBF), with a
// Stable backup a single stable learned Bloom filter (SSLBF).
//
// Insert stores a record in the backup only when score < tau; Query trusts the
// model only when score > tau. A record scoring exactly tau is neither stored
// nor accepted by the model, so its query goes to a backup that never saw it.
type Learned struct {
	scorer scorer.Scorer
	tau    float64
	backup KeyFilter

	backupInserts uint64
	modelAccepts  uint64
	scorerErrors  uint64
	ops           opCounters
}

// NewLearned wraps an already built backup filter.
func NewLearned(s scorer.Scorer, tau float64, backup KeyFilter) (*Learned, error) {
	if s == nil {
		return nil, ErrScorerRequired
	}
	if backup == nil {
		return nil, fmt.Errorf("%w: backup filter is required", errs.ErrConfiguration)
	}
	return &Learned{scorer: s, tau: tau, backup: backup}, nil
}

// NewLBF builds a learned filter over a k-probe, m-bit Bloom filter.
func NewLBF(s scorer.Scorer, k, m uint32, tau float64, h *hasher.Hasher) (*Learned, error) {
	if s == nil {
		return nil, ErrScorerRequired
	}
	bf, err := NewBloom(k, m, h)
	if err != nil {
		return nil, err
	}
	return NewLearned(s, tau, bf)
}

// NewSSLBF builds a learned filter over a stable filter.
func NewSSLBF(s scorer.Scorer, p, k, m uint32, bitsPerCounter int, tau float64, h *hasher.Hasher, src random.Source) (*Learned, error) {
	if s == nil {
		return nil, ErrScorerRequired
	}
	sbf, err := NewStable(p, k, m, bitsPerCounter, h, src)
	if err != nil {
		return nil, err
	}
	return NewLearned(s, tau, sbf)
}

func (l *Learned) Insert(data *model.Data) error {
	l.ops.inserts++
	score, err := l.predict(data)
	if err != nil {
		return err
	}
	if score < l.tau {
		l.backupInserts++
		l.backup.Insert(data.IDBytes())
	}
	return nil
}

func (l *Learned) Query(data *model.Data) (bool, error) {
	score, err := l.predict(data)
	if err != nil {
		l.ops.queries++
		return false, err
	}
	if score > l.tau {
		l.modelAccepts++
		return l.ops.query(true), nil
	}
	return l.ops.query(l.backup.Query(data.IDBytes())), nil
}

func (l *Learned) predict(data *model.Data) (float64, error) {
	score, err := predict(l.scorer, data)
	if err != nil {
		l.scorerErrors++
	}
	return score, err
}

// predict never turns a scorer failure into a score.
func predict(s scorer.Scorer, data *model.Data) (float64, error) {
	score, err := s.Predict(data)
	if err != nil {
		if errors.Is(err, errs.ErrScorer) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", errs.ErrScorer, err)
	}
	return score, nil
}

func (l *Learned) Tau() float64 { return l.tau }

// Backup returns the fallback filter.
func (l *Learned) Backup() KeyFilter { return l.backup }

// Stats reports record-level operations with the backup filter's occupancy.
func (l *Learned) Stats() Stats {
	b := l.backup.Stats()
	return Stats{
		Inserts:       l.ops.inserts,
		Queries:       l.ops.queries,
		Positives:     l.ops.positives,
		BackupInserts: l.backupInserts,
		ModelAccepts:  l.modelAccepts,
		ScorerErrors:  l.scorerErrors,
		Counters:      b.Counters,
		ZeroCounters:  b.ZeroCounters,
		MemBytes:      b.MemBytes,
	}
}

// Release frees the backup filter. The scorer is owned by the caller.
func (l *Learned) Release() {
	l.backup.Release()
}
