package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PgErrCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meetings",
		Subsystem: "pg",
		Name:      "pg_err_count",
	}, []string{"method"})
	PgDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "meetings",
		Subsystem: "pg",
		Name:      "pg_duration",
	}, []string{"method"})
	ResolverDegraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meetings",
		Subsystem: "resolver",
		Name:      "degraded_count",
	}, []string{"collection"})
)
