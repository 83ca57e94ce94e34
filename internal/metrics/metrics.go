package metrics

import (
	"github.com/Borislavv/go-ash-bloom/internal/filter"
	"github.com/prometheus/client_golang/prometheus"
)

// Observer receives one sample per telemetry interval: delta holds the
// operation counts since the previous sample, cur the current occupancy.
type Observer interface {
	Observe(delta, cur filter.Stats)
}

// Prometheus exports filter activity, labelled with the filter name.
type Prometheus struct {
	inserts       prometheus.Counter
	queries       prometheus.Counter
	positives     prometheus.Counter
	backupInserts prometheus.Counter
	modelAccepts  prometheus.Counter
	scorerErrors  prometheus.Counter

	counters  prometheus.Gauge
	zeroRatio prometheus.Gauge
	memBytes  prometheus.Gauge
}

// New registers the collectors on reg. Registering the same name twice on
// one registry fails and registers nothing.
func New(reg prometheus.Registerer, name string) (*Prometheus, error) {
	labels := prometheus.Labels{"filter": name}
	counter := func(metric, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ashbloom_" + metric,
			Help:        help,
			ConstLabels: labels,
		})
	}
	gauge := func(metric, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ashbloom_" + metric,
			Help:        help,
			ConstLabels: labels,
		})
	}

	m := &Prometheus{
		inserts:       counter("inserts_total", "Total number of Insert operations"),
		queries:       counter("queries_total", "Total number of Query operations"),
		positives:     counter("positives_total", "Total number of queries answered true"),
		backupInserts: counter("backup_inserts_total", "Inserts stored in a backup filter or group"),
		modelAccepts:  counter("model_accepts_total", "Queries answered by the scoring model alone"),
		scorerErrors:  counter("scorer_errors_total", "Total number of failed predictions"),

		counters:  gauge("counters", "Number of counters in the filter storage"),
		zeroRatio: gauge("zero_ratio", "Fraction of counters that are zero"),
		memBytes:  gauge("memory_bytes", "Bytes held by counter storage"),
	}

	collectors := []prometheus.Collector{
		m.inserts, m.queries, m.positives,
		m.backupInserts, m.modelAccepts, m.scorerErrors,
		m.counters, m.zeroRatio, m.memBytes,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			// leave reg as it was, so the name can be registered again
			for _, done := range collectors[:i] {
				reg.Unregister(done)
			}
			return nil, err
		}
	}
	return m, nil
}

func (m *Prometheus) Observe(delta, cur filter.Stats) {
	m.inserts.Add(float64(delta.Inserts))
	m.queries.Add(float64(delta.Queries))
	m.positives.Add(float64(delta.Positives))
	m.backupInserts.Add(float64(delta.BackupInserts))
	m.modelAccepts.Add(float64(delta.ModelAccepts))
	m.scorerErrors.Add(float64(delta.ScorerErrors))

	m.counters.Set(float64(cur.Counters))
	m.zeroRatio.Set(cur.ZeroRatio())
	m.memBytes.Set(float64(cur.MemBytes))
}

// NoOp discards samples. It is used when no registry is given.
type NoOp struct{}

func (NoOp) Observe(filter.Stats, filter.Stats) {}
