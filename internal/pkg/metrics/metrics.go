package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stayhub", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stayhub", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ReservationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stayhub", Name: "reservation_transitions_total", Help: "Reservation lifecycle transitions."},
		[]string{"to", "outcome"}, // outcome: ok|rejected|error
	)
	SweepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stayhub", Name: "sweep_runs_total", Help: "Completion sweeper passes."},
		[]string{"outcome"},
	)
	SweepTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stayhub", Name: "sweep_transitions_total", Help: "Reservations advanced by the sweeper."},
		[]string{"kind", "outcome"}, // kind: complete|expire
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stayhub", Name: "cache_events_total", Help: "Catalog cache hits/misses/sets."},
		[]string{"cache", "event"},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ReservationTransitions, SweepRuns, SweepTransitions, CacheEvents)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveTransition(to string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	ReservationTransitions.WithLabelValues(to, outcome).Inc()
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}
