package guard

import (
	"sync"

	"github.com/Borislavv/go-ash-bloom/internal/filter"
	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/Borislavv/go-ash-bloom/model"
)

// Locked serializes every call to one filter. Queries mutate scratch buffers
// and counters, so reads take the same lock as writes. After Release, Insert
// and Query fail with errs.ErrReleased instead of touching freed storage.
type Locked struct {
	mu       sync.Mutex
	f        filter.DataFilter
	released bool
}

func NewLocked(f filter.DataFilter) *Locked {
	return &Locked{f: f}
}

func (l *Locked) Insert(data *model.Data) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return errs.ErrReleased
	}
	return l.f.Insert(data)
}

func (l *Locked) Query(data *model.Data) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return false, errs.ErrReleased
	}
	return l.f.Query(data)
}

func (l *Locked) Stats() filter.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Stats()
}

func (l *Locked) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return
	}
	l.released = true
	l.f.Release()
}

// Unwrap returns the guarded filter. Callers must not use it concurrently.
func (l *Locked) Unwrap() filter.DataFilter { return l.f }
