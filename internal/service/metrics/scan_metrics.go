package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ScanLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tradeyodha",
			Subsystem: "scan",
			Name:      "latency_seconds",
			Help:      "Latency of full ticker scans",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	ScanErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradeyodha",
			Subsystem: "scan",
			Name:      "errors_total",
			Help:      "Errors by scan stage",
		},
		[]string{"stage"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ScanLatency, ScanErrors)
	})
}
