package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	InsightQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refineryiq_insight_queries_total",
			Help: "Insight queries by outcome (ok, fallback, config_error)",
		},
		[]string{"outcome"},
	)

	InsightDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refineryiq_insight_duration_seconds",
			Help:    "End-to-end insight query duration",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	InsightCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "refineryiq_insight_cache_hits_total",
			Help: "Insight response cache hits",
		},
	)

	InsightCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "refineryiq_insight_cache_misses_total",
			Help: "Insight response cache misses",
		},
	)

	AlertAcknowledgements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refineryiq_alert_acknowledgements_total",
			Help: "Alert acknowledgement attempts by result",
		},
		[]string{"result"},
	)

	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refineryiq_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)
)

func Init() {
	prometheus.MustRegister(InsightQueries)
	prometheus.MustRegister(InsightDuration)
	prometheus.MustRegister(InsightCacheHits)
	prometheus.MustRegister(InsightCacheMisses)
	prometheus.MustRegister(AlertAcknowledgements)
	prometheus.MustRegister(Logins)
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
