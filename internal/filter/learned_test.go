package filter

import (
	"errors"
	"testing"

	"github.com/Borislavv/go-ash-bloom/internal/scorer"
	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/Borislavv/go-ash-bloom/model"
	"github.com/stretchr/testify/require"
)

func newLBF(t *testing.T, s scorer.Scorer, tau float64) *Learned {
	t.Helper()
	lbf, err := NewLBF(s, 4, 1<<16, tau, nil)
	require.NoError(t, err)
	return lbf
}

// TestNewLearned_Errors verifies a missing scorer or backup is a configuration error.
func TestNewLearned_Errors(t *testing.T) {
	_, err := NewLBF(nil, 3, 100, 0.5, nil)
	require.ErrorIs(t, err, ErrScorerRequired)
	require.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = NewSSLBF(nil, 1, 3, 100, 2, 0.5, nil, nil)
	require.ErrorIs(t, err, ErrScorerRequired)

	s := scoreByID(nil, 0)
	_, err = NewSSLBF(s, 1, 3, 100, 0, 0.5, nil, nil)
	require.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = NewLBF(s, 0, 100, 0.5, nil)
	require.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = NewLearned(s, 0.5, nil)
	require.ErrorIs(t, err, errs.ErrConfiguration)
}

// TestLearned_ScoreAtThreshold verifies the strict comparisons on both sides:
// a record scoring exactly tau skips the backup on insert and is not accepted
// by the model on query.
func TestLearned_ScoreAtThreshold(t *testing.T) {
	lbf := newLBF(t, scoreByID(nil, 0.5), 0.5)
	rec := &model.Data{ID: 1}

	require.NoError(t, lbf.Insert(rec))
	require.Equal(t, 1.0, lbf.Backup().Stats().ZeroRatio(), "backup untouched")

	ok, err := lbf.Query(rec)
	require.NoError(t, err)
	require.False(t, ok)

	st := lbf.Stats()
	require.Zero(t, st.BackupInserts)
	require.Zero(t, st.ModelAccepts)
	require.Equal(t, uint64(1), lbf.Backup().Stats().Queries)
}

// TestLearned_ModelAccepts verifies high scores bypass the backup entirely.
func TestLearned_ModelAccepts(t *testing.T) {
	lbf := newLBF(t, scoreByID(map[uint32]float64{1: 0.9}, 0.1), 0.5)
	high := &model.Data{ID: 1}

	require.NoError(t, lbf.Insert(high))
	require.Equal(t, 1.0, lbf.Backup().Stats().ZeroRatio(), "backup untouched")

	ok, err := lbf.Query(high)
	require.NoError(t, err)
	require.True(t, ok)

	// never inserted, but the model vouches for it
	ok, err = lbf.Query(&model.Data{ID: 1, FloatFeatures: []float32{3}})
	require.NoError(t, err)
	require.True(t, ok)

	st := lbf.Stats()
	require.Equal(t, uint64(2), st.ModelAccepts)
	require.Zero(t, st.BackupInserts)
	require.Zero(t, lbf.Backup().Stats().Queries)
}

// TestLearned_LowScoresUseBackup verifies low scoring records have no false negatives.
func TestLearned_LowScoresUseBackup(t *testing.T) {
	lbf := newLBF(t, scoreByID(nil, 0.1), 0.5)

	for i := uint32(0); i < 1000; i++ {
		require.NoError(t, lbf.Insert(&model.Data{ID: i}))
	}
	for i := uint32(0); i < 1000; i++ {
		ok, err := lbf.Query(&model.Data{ID: i})
		require.NoError(t, err)
		require.True(t, ok)
	}

	var fp int
	for i := uint32(1000); i < 2000; i++ {
		ok, err := lbf.Query(&model.Data{ID: i})
		require.NoError(t, err)
		if ok {
			fp++
		}
	}
	require.Less(t, fp, 10)
	require.Equal(t, uint64(1000), lbf.Stats().BackupInserts)
}

// TestLearned_KeyedByID verifies the backup hashes the identifier, not the features.
func TestLearned_KeyedByID(t *testing.T) {
	lbf := newLBF(t, scoreByID(nil, 0.2), 0.5)
	require.NoError(t, lbf.Insert(&model.Data{ID: 9, CatFeatures: []string{"a"}}))

	ok, err := lbf.Query(&model.Data{ID: 9, CatFeatures: []string{"b"}})
	require.NoError(t, err)
	require.True(t, ok)
}

// TestLearned_ScorerError verifies failures surface as ErrScorer without touching the backup.
func TestLearned_ScorerError(t *testing.T) {
	boom := errors.New("model offline")
	lbf := newLBF(t, scorer.Func(func(*model.Data) (float64, error) { return 0, boom }), 0.5)
	rec := &model.Data{ID: 3}

	err := lbf.Insert(rec)
	require.ErrorIs(t, err, errs.ErrScorer)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1.0, lbf.Backup().Stats().ZeroRatio())

	ok, err := lbf.Query(rec)
	require.ErrorIs(t, err, errs.ErrScorer)
	require.False(t, ok)

	st := lbf.Stats()
	require.Equal(t, uint64(2), st.ScorerErrors)
	require.Equal(t, uint64(1), st.Inserts)
	require.Equal(t, uint64(1), st.Queries)
	require.Zero(t, st.Positives)
}

// TestLearned_ScorerErrorNotRewrapped verifies an error already carrying ErrScorer is passed through.
func TestLearned_ScorerErrorNotRewrapped(t *testing.T) {
	wrapped := errors.Join(errs.ErrScorer, errors.New("timeout"))
	lbf := newLBF(t, scorer.Func(func(*model.Data) (float64, error) { return 0, wrapped }), 0.5)

	err := lbf.Insert(&model.Data{ID: 1})
	require.Same(t, wrapped, err)
}

// TestSSLBF verifies the stable backup and the threshold rule together.
func TestSSLBF(t *testing.T) {
	s := scoreByID(map[uint32]float64{100: 0.95}, 0.05)
	sslbf, err := NewSSLBF(s, 2, 3, 4096, 2, 0.5, nil, nil)
	require.NoError(t, err)

	_, isStable := sslbf.Backup().(*Stable)
	require.True(t, isStable)

	for i := uint32(0); i < 200; i++ {
		require.NoError(t, sslbf.Insert(&model.Data{ID: i}))
		ok, err := sslbf.Query(&model.Data{ID: i})
		require.NoError(t, err)
		require.True(t, ok, "just inserted %d", i)
	}

	st := sslbf.Stats()
	require.Equal(t, uint64(199), st.BackupInserts)
	require.Equal(t, uint64(1), st.ModelAccepts)
	require.Equal(t, uint64(4096), st.Counters)
	require.Equal(t, 0.5, sslbf.Tau())

	sslbf.Release()
}
