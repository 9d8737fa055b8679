package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "diabetes_api_http_requests_total",
		Help: "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "diabetes_api_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"route"})

	artifactLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "diabetes_api_artifact_loads_total",
		Help: "Artifact load attempts by artifact and result",
	}, []string{"artifact", "result"})

	gateDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "diabetes_api_gate_decisions_total",
		Help: "Medical-question gate decisions (in_scope, out_of_scope, fail_open, fail_closed)",
	}, []string{"decision"})

	remoteCalls = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "diabetes_api_remote_call_duration_seconds",
		Help:    "Latency of calls to hosted model services by provider, operation and result",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"provider", "operation", "result"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpLatency, artifactLoads, gateDecisions, remoteCalls)
	})
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	ensureRegistered()
	return promhttp.Handler()
}

// ObserveHTTP records one served request. route is the chi route pattern, not the raw path.
func ObserveHTTP(route, method string, status int, start time.Time) {
	ensureRegistered()
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func ArtifactLoad(artifact string, err error) {
	ensureRegistered()
	artifactLoads.WithLabelValues(artifact, result(err)).Inc()
}

func GateDecision(decision string) {
	ensureRegistered()
	gateDecisions.WithLabelValues(decision).Inc()
}

func RemoteCall(provider, operation string, start time.Time, err error) {
	ensureRegistered()
	remoteCalls.WithLabelValues(provider, operation, result(err)).Observe(time.Since(start).Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
