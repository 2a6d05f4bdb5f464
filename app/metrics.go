package app

import (
	"strconv"
	"time"

	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects transaction statistics of the environment.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer leaves the collectors unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "total",
			Help:      "Total executed transactions segmented by contract, operation and result code.",
		}, []string{"contract", "operation", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Transaction execution time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"contract", "operation"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.txs, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "register metrics: %s", err)
		}
	}
	return m, nil
}

// Observe records the result of a single transaction.
func (m *Metrics) Observe(contract, operation string, err error, took time.Duration) {
	if m == nil {
		return
	}
	code := strconv.FormatUint(uint64(errors.Code(err)), 10)
	m.txs.WithLabelValues(contract, operation, code).Inc()
	m.duration.WithLabelValues(contract, operation).Observe(took.Seconds())
}
