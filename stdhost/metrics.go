package stdhost

import (
	"strconv"
	"time"

	"github.com/advdv/bhost"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

// newMetrics inits the host metrics. A nil registerer keeps them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)

	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bhost",
			Name:      "requests_total",
			Help:      "Requests served by the host, by handler result.",
		}, []string{"result"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bhost",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving a request, hooks and finalization included.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func resultLabel(rc bhost.Result) string {
	switch rc {
	case bhost.Declined:
		return "declined"
	case bhost.OK:
		return "ok"
	default:
		return strconv.Itoa(int(rc))
	}
}

func (m *metrics) observe(rc bhost.Result, took time.Duration) {
	m.requests.WithLabelValues(resultLabel(rc)).Inc()
	m.duration.Observe(took.Seconds())
}
