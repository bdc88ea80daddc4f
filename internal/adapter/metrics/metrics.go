package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saveher_queries_total",
		Help: "Presence queries served, by query kind",
	}, []string{"query"})
	QueryDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "saveher_query_duration_ms",
		Help:    "Presence query duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"query"})
	SnapshotFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saveher_snapshot_failures_total",
		Help: "Snapshot loads that failed, by query kind",
	}, []string{"query"})
	NearbyResultSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "saveher_nearby_result_size",
		Help:    "Number of users returned by nearby queries",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})
	ConnectedSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "saveher_connected_sessions",
		Help: "Websocket sessions currently registered with the hub",
	})
)

func init() {
	prometheus.MustRegister(
		QueriesTotal,
		QueryDurationMs,
		SnapshotFailuresTotal,
		NearbyResultSize,
		ConnectedSessions,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
