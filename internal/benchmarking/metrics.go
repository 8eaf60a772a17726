package benchmarking

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "bridgebench"

// Metrics counts generated proofs. A nil *Metrics records nothing.
type Metrics struct {
	proofsBuilt *prometheus.CounterVec
	proofItems  *prometheus.HistogramVec
	proofBytes  *prometheus.HistogramVec
}

// NewMetrics registers the proof metrics on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		proofsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "proofs",
			Name:      "built_total",
			Help:      "Number of generated proofs.",
		}, []string{"kind", "scheme"}),
		proofItems: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "proofs",
			Name:      "items",
			Help:      "Number of trie items in generated storage proofs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"kind"}),
		proofBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "proofs",
			Name:      "size_bytes",
			Help:      "Total size of generated storage proofs.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.proofsBuilt, m.proofItems, m.proofBytes} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register proof metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observe(kind ProofKind, scheme string, items, size int) {
	if m == nil {
		return
	}
	m.proofsBuilt.WithLabelValues(kind.String(), scheme).Inc()
	m.proofItems.WithLabelValues(kind.String()).Observe(float64(items))
	m.proofBytes.WithLabelValues(kind.String()).Observe(float64(size))
}
