package guard

import (
	"context"
	"fmt"
	"runtime"

	"github.com/Borislavv/go-ash-bloom/internal/filter"
	"github.com/Borislavv/go-ash-bloom/internal/shared/errs"
	"github.com/Borislavv/go-ash-bloom/model"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// Sharded spreads records over n independent filters by identifier, each
// behind its own lock, so batches can be applied in parallel.
//
// A record always lands in the same shard; shards never exchange state, so
// each behaves as a filter of 1/n of the stream.
type Sharded struct {
	shards []*Locked
}

// NewSharded builds n shards with build(i). If any build fails the ones
// already built are released.
func NewSharded(n int, build func(i int) (filter.DataFilter, error)) (*Sharded, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: shards must be positive, %d provided", errs.ErrConfiguration, n)
	}
	s := &Sharded{shards: make([]*Locked, 0, n)}
	for i := 0; i < n; i++ {
		f, err := build(i)
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("shard %d: %w", i, err)
		}
		s.shards = append(s.shards, NewLocked(f))
	}
	return s, nil
}

func (s *Sharded) shardOf(data *model.Data) int {
	return int(xxh3.Hash(data.IDBytes()) % uint64(len(s.shards)))
}

func (s *Sharded) Insert(data *model.Data) error {
	return s.shards[s.shardOf(data)].Insert(data)
}

func (s *Sharded) Query(data *model.Data) (bool, error) {
	return s.shards[s.shardOf(data)].Query(data)
}

// partition groups item positions by shard, keeping their order.
func (s *Sharded) partition(items []*model.Data) [][]int {
	parts := make([][]int, len(s.shards))
	for i, data := range items {
		idx := s.shardOf(data)
		parts[idx] = append(parts[idx], i)
	}
	return parts
}

// InsertBatch inserts items, shards in parallel. It stops at the first error
// or when ctx is done; items already inserted stay inserted.
func (s *Sharded) InsertBatch(ctx context.Context, items []*model.Data) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for idx, part := range s.partition(items) {
		if len(part) == 0 {
			continue
		}
		shard := s.shards[idx]
		g.Go(func() error {
			for _, i := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := shard.Insert(items[i]); err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// QueryBatch answers items in input order, shards in parallel.
func (s *Sharded) QueryBatch(ctx context.Context, items []*model.Data) ([]bool, error) {
	out := make([]bool, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for idx, part := range s.partition(items) {
		if len(part) == 0 {
			continue
		}
		shard := s.shards[idx]
		g.Go(func() error {
			for _, i := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				ok, err := shard.Query(items[i])
				if err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				out[i] = ok
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats sums all shards.
func (s *Sharded) Stats() filter.Stats {
	var st filter.Stats
	for _, shard := range s.shards {
		st = st.Add(shard.Stats())
	}
	return st
}

func (s *Sharded) NumShards() int { return len(s.shards) }

// Shard returns shard i, still guarded by its lock.
func (s *Sharded) Shard(i int) *Locked { return s.shards[i] }

func (s *Sharded) Release() {
	for _, shard := range s.shards {
		shard.Release()
	}
}
