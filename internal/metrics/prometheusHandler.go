package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var chunksProduced = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chunks_produced_total",
	Help: "Number of chunks produced, labelled by strategy",
}, []string{"strategy"})

var docsSynced = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_synced_total",
	Help: "Number of doc-sync runs, labelled by outcome",
}, []string{"outcome"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) CaptureWriteHeaderMetrics(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// WriteHeader makes the recorder an http.ResponseWriter that captures the
// status a handler writes.
func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.CaptureWriteHeaderMetrics(code)
}

func IncrementChunksProduced(strategy string, count int) {
	chunksProduced.WithLabelValues(strategy).Add(float64(count))
}

func RecordDocSyncOutcome(outcome string) {
	docsSynced.WithLabelValues(outcome).Inc()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "request_duration_seconds",
	Help:    "Total time spent handling a request, labelled by route.",
	Buckets: []float64{.05, .1, .5, 1, 2, 5, 10, 30},
}, []string{"route"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureRequestMetrics(route string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(route).Observe(timeElapsed.Seconds())
}
