// Package metrics records tagging cycle outcomes with prometheus collectors.
package metrics

import (
	"sort"
	"strings"

	"github.com/bastiangx/tagjump/pkg/tagger"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "tagjump"

// Recorder implements tagger.Observer on a private registry.
type Recorder struct {
	registry  *prometheus.Registry
	cycles    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	discarded prometheus.Counter
	exhausted prometheus.Counter
	tagged    prometheus.Gauge
}

// NewRecorder creates and registers the cycle collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tagger",
			Name:      "cycles_total",
		}, []string{"mode", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tagger",
			Name:      "cycle_duration_seconds",
			Buckets:   []float64{.00005, .0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"mode"}),
		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tagger",
			Name:      "discarded_matches_total",
		}),
		exhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tagger",
			Name:      "alphabet_exhausted_total",
		}),
		tagged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tagger",
			Name:      "tagged_matches",
		}),
	}
	r.registry.MustRegister(r.cycles, r.duration, r.discarded, r.exhausted, r.tagged)
	return r
}

// ObserveCycle implements tagger.Observer.
func (r *Recorder) ObserveCycle(s tagger.CycleStats) {
	mode := "literal"
	if s.Regex {
		mode = "regex"
	}
	outcome := "marked"
	switch {
	case s.Jumped:
		outcome = "jumped"
	case s.Scrolled:
		outcome = "scrolled"
	case s.Tagged == 0:
		outcome = "empty"
	}

	r.cycles.WithLabelValues(mode, outcome).Inc()
	r.duration.WithLabelValues(mode).Observe(s.Duration.Seconds())
	r.discarded.Add(float64(s.Discarded))
	if !s.Full {
		r.exhausted.Inc()
	}
	r.tagged.Set(float64(s.Tagged))
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Sample is one flattened metric value.
type Sample struct {
	Name  string
	Value float64
}

// Snapshot gathers every metric as name/value pairs sorted by name.
// Histograms contribute their _count and _sum.
func (r *Recorder) Snapshot() ([]Sample, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, errors.Annotate(err, "metrics: gather")
	}
	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName() + labels(m)
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out = append(out, Sample{name, m.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				out = append(out, Sample{name, m.GetGauge().GetValue()})
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				out = append(out,
					Sample{mf.GetName() + "_count" + labels(m), float64(h.GetSampleCount())},
					Sample{mf.GetName() + "_sum" + labels(m), h.GetSampleSum()})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func labels(m *dto.Metric) string {
	pairs := m.GetLabel()
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.GetName() + "=" + p.GetValue()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
