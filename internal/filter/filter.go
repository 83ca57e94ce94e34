// Package filter implements the approximate membership filters: the standard
// Bloom filter, the stable (decaying) Bloom filter, and the learned variants
// that consult a scoring model before falling back to one of them.
//
// Filters are single-threaded: no locks, no atomics. Callers that share an
// instance across goroutines must serialize access (see internal/guard).
package filter

import (
	"fmt"

	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/Borislavv/go-ash-bloom/model"
)

// KeyFilter is a filter over raw byte keys.
type KeyFilter interface {
	Insert(key []byte)
	Query(key []byte) bool
	Stats() Stats
	Release()
}

// DataFilter is a filter over records. Only learned filters can fail, and only
// when the scorer does.
type DataFilter interface {
	Insert(data *model.Data) error
	Query(data *model.Data) (bool, error)
	Stats() Stats
	Release()
}

// ByID exposes a KeyFilter as a DataFilter keyed by the record identifier.
func ByID(f KeyFilter) DataFilter {
	return byID{f: f}
}

type byID struct {
	f KeyFilter
}

func (b byID) Insert(data *model.Data) error {
	b.f.Insert(data.IDBytes())
	return nil
}

func (b byID) Query(data *model.Data) (bool, error) {
	return b.f.Query(data.IDBytes()), nil
}

func (b byID) Stats() Stats { return b.f.Stats() }
func (b byID) Release()     { b.f.Release() }

func checkProbes(k, m uint32) error {
	if k == 0 {
		return fmt.Errorf("%w: k must be positive", errs.ErrConfiguration)
	}
	if m == 0 {
		return fmt.Errorf("%w: m must be positive", errs.ErrConfiguration)
	}
	return nil
}
