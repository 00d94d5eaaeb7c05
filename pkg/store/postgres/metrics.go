package postgres

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wattline/emporia/pkg/emporia"
)

var (
	storeOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emporia_store_operations_total",
			Help: "Total number of store operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	storeOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emporia_store_operation_duration_seconds",
			Help:    "Store operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observeOp(op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, emporia.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	storeOpsTotal.WithLabelValues(op, outcome).Inc()
	storeOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
