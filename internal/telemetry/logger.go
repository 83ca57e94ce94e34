package telemetry

import (
	"context"
	"time"

	"github.com/Borislavv/go-ash-bloom/config"
	"github.com/Borislavv/go-ash-bloom/internal/filter"
	"github.com/Borislavv/go-ash-bloom/internal/metrics"
	"github.com/Borislavv/go-ash-bloom/internal/shared/bytes"
	"github.com/rs/zerolog"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

// Logs samples a filter every interval, logs the per-interval activity and
// feeds the same sample to the metrics observer.
type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	name     string
	interval time.Duration
	logger   zerolog.Logger
	sampler  sampler
	observer metrics.Observer
}

// New starts the reporter. stats must be safe to call from another goroutine.
// A nil cfg disables telemetry and returns NoOp.
func New(
	ctx context.Context,
	cfg *config.TelemetryCfg,
	logger zerolog.Logger,
	stats func() filter.Stats,
	observer metrics.Observer,
) Logger {
	if !cfg.Enabled() {
		return NoOp{}
	}
	l := newLogs(ctx, cfg, logger, stats, observer)
	go l.loop()
	return l
}

func newLogs(
	ctx context.Context,
	cfg *config.TelemetryCfg,
	logger zerolog.Logger,
	stats func() filter.Stats,
	observer metrics.Observer,
) *Logs {
	if observer == nil {
		observer = metrics.NoOp{}
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Logs{
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		name:     cfg.Name,
		interval: cfg.Interval,
		logger:   logger,
		sampler:  newSampler(stats),
		observer: observer,
	}
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

// Close stops the reporter and waits for the loop to exit.
func (l *Logs) Close() error {
	l.cancel()
	<-l.done
	return nil
}

func (l *Logs) loop() {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	// counts are cumulative since the filter was built
	var prev filter.Stats
	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			prev = l.report(prev)
		}
	}
}

// report emits one sample and returns it as the base of the next delta.
func (l *Logs) report(prev filter.Stats) filter.Stats {
	cur := l.sampler.snapshot()
	d := deltaSnapshot(prev, cur)

	l.observer.Observe(d, cur)

	l.logger.Info().
		Str("filter", l.name).
		Str("interval", l.interval.String()).
		Uint64("inserts", d.Inserts).
		Uint64("queries", d.Queries).
		Uint64("positives", d.Positives).
		Uint64("backup_inserts", d.BackupInserts).
		Uint64("model_accepts", d.ModelAccepts).
		Uint64("counters", cur.Counters).
		Float64("zero_ratio", cur.ZeroRatio()).
		Str("mem", bytes.FmtMem(cur.MemBytes)).
		Msg("filter_occupancy")

	if d.ScorerErrors > 0 {
		l.logger.Warn().
			Str("filter", l.name).
			Uint64("scorer_errors", d.ScorerErrors).
			Msg("scorer_failures")
	}
	return cur
}
