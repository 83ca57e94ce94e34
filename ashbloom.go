// Package ashbloom is a family of approximate membership filters: the standard
// Bloom filter, the stable Bloom filter, and learned variants that put a
// scoring model in front of them.
//
// The filter types (BF, SBF, LBF, GSLBF) are single-threaded. Filter, built by
// New from a config, adds sharding, locking, telemetry and metrics on top.
package ashbloom

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Borislavv/go-ash-bloom/config"
	"github.com/Borislavv/go-ash-bloom/internal/filter"
	"github.com/Borislavv/go-ash-bloom/internal/guard"
	"github.com/Borislavv/go-ash-bloom/internal/hasher"
	"github.com/Borislavv/go-ash-bloom/internal/metrics"
	"github.com/Borislavv/go-ash-bloom/internal/scorer"
	"github.com/Borislavv/go-ash-bloom/internal/shared/bytes"
	"github.com/Borislavv/go-ash-bloom/internal/shared/random"
	"github.com/Borislavv/go-ash-bloom/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type AshBloom interface {
	Insert(data *Data) error
	Query(data *Data) (bool, error)
	InsertBatch(ctx context.Context, items []*Data) error
	QueryBatch(ctx context.Context, items []*Data) ([]bool, error)
	Stats() Stats
	telemetry.Logger
	io.Closer
}

// Filter is a config-built filter, safe for concurrent use. Calls racing with
// or following Close fail with ErrReleased.
type Filter struct {
	telemetry.Logger

	shards *guard.Sharded
	kind   config.Kind
	once   sync.Once
}

var _ AshBloom = (*Filter)(nil)

// New builds the filter described by cfg. cfg is adjusted and validated in place.
//
// s is required for learned kinds and ignored otherwise; with more than one
// shard it is called concurrently. reg may be nil; metrics are only exported
// when telemetry is enabled, since the reporter is what samples them.
// The reporter logs through the zerolog logger carried by ctx
// (zerolog.Logger.WithContext), or the global zerolog logger if ctx has none.
func New(ctx context.Context, cfg *config.Filter, s Scorer, logger *slog.Logger, reg prometheus.Registerer) (*Filter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrConfiguration)
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg.AdjustConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.IsLearned() {
		if s == nil {
			return nil, ErrScorerRequired
		}
		s = scorer.NewThrottled(s, cfg.ScorerRate)
	}

	h, err := hasher.New(cfg.Hashing)
	if err != nil {
		return nil, err
	}
	sharded, err := guard.NewSharded(cfg.Shards, func(int) (filter.DataFilter, error) {
		return build(cfg, s, h)
	})
	if err != nil {
		return nil, err
	}

	var observer metrics.Observer = metrics.NoOp{}
	if reg != nil && cfg.Telemetry.Enabled() {
		m, err := metrics.New(reg, cfg.Telemetry.Name)
		if err != nil {
			sharded.Release()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		observer = m
	}

	st := sharded.Stats()
	logger.Info("filter_created",
		"kind", string(cfg.Kind),
		"shards", cfg.Shards,
		"hash", string(cfg.Hashing.Algorithm),
		"counters", st.Counters,
		"mem", bytes.FmtMem(st.MemBytes),
	)

	reporter := telemetry.New(ctx, cfg.Telemetry,
		reporterLogger(ctx).With().Str("component", "telemetry").Logger(),
		sharded.Stats, observer,
	)
	return &Filter{Logger: reporter, shards: sharded, kind: cfg.Kind}, nil
}

// reporterLogger falls back to log.Logger when zerolog.Ctx hands out its
// shared disabled logger, which means ctx carries none.
func reporterLogger(ctx context.Context) zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if zerolog.DefaultContextLogger == nil && l == zerolog.Ctx(context.Background()) {
		return log.Logger
	}
	return *l
}

// build makes one shard. Every shard gets its own decay source with the same seed.
func build(cfg *config.Filter, s Scorer, h *hasher.Hasher) (filter.DataFilter, error) {
	switch cfg.Kind {
	case config.KindBloom:
		bf, err := filter.NewBloom(cfg.Bloom.K, cfg.Bloom.M, h)
		if err != nil {
			return nil, err
		}
		return filter.ByID(bf), nil

	case config.KindStable:
		sbf, err := newStable(cfg.Stable, h, cfg.Random)
		if err != nil {
			return nil, err
		}
		return filter.ByID(sbf), nil

	case config.KindLearned:
		return filter.NewLBF(s, cfg.Bloom.K, cfg.Bloom.M, cfg.Learned.Tau, h)

	case config.KindStableLearned:
		sbf, err := newStable(cfg.Stable, h, cfg.Random)
		if err != nil {
			return nil, err
		}
		return filter.NewLearned(s, cfg.Learned.Tau, sbf)

	case config.KindGrouped:
		groups := make([]filter.StableParams, len(cfg.Grouped.Groups))
		for i, g := range cfg.Grouped.Groups {
			groups[i] = filter.StableParams{P: g.P, K: g.K, M: g.M, BitsPerCounter: g.BitsPerCounter}
		}
		return filter.NewGrouped(s, groups, cfg.Grouped.Thresholds, h, cfg.Random)

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, cfg.Kind)
	}
}

func newStable(c *config.StableCfg, h *hasher.Hasher, rcfg config.RandomCfg) (*filter.Stable, error) {
	src, err := random.New(rcfg)
	if err != nil {
		return nil, err
	}
	return filter.NewStable(c.P, c.K, c.M, c.BitsPerCounter, h, src)
}

func (f *Filter) Insert(data *Data) error {
	return f.shards.Insert(data)
}

func (f *Filter) Query(data *Data) (bool, error) {
	return f.shards.Query(data)
}

// InsertBatch inserts items with the shards working in parallel. It stops at
// the first error or when ctx is done.
func (f *Filter) InsertBatch(ctx context.Context, items []*Data) error {
	return f.shards.InsertBatch(ctx, items)
}

// QueryBatch answers items in input order.
func (f *Filter) QueryBatch(ctx context.Context, items []*Data) ([]bool, error) {
	return f.shards.QueryBatch(ctx, items)
}

// Stats sums all shards.
func (f *Filter) Stats() Stats {
	return f.shards.Stats()
}

func (f *Filter) Kind() config.Kind { return f.kind }

func (f *Filter) NumShards() int { return f.shards.NumShards() }

// Close stops telemetry and releases every shard. It is idempotent.
func (f *Filter) Close() error {
	var err error
	f.once.Do(func() {
		err = f.Logger.Close()
		f.shards.Release()
	})
	return err
}
