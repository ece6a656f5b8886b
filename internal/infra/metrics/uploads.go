package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		imageUploadsTotal,
		imageUploadLatencyMs,
		imageUploadBytes,
	)
}

var (
	imageUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imgbb_uploads_total",
			Help: "Image uploads by attachment kind, detected format and result.",
		},
		[]string{"kind", "format", "result"},
	)

	imageUploadLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imgbb_upload_latency_ms",
			Help:    "Image host upload latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2000, 4000, 8000, 15000, 30000},
		},
		[]string{"host", "result"},
	)

	imageUploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "imgbb_upload_bytes",
			Help:    "Size of uploaded image payloads before encoding.",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 12), // 16KiB .. 32MiB
		},
	)
)

// ObserveUpload records the outcome of a single upload attempt.
func ObserveUpload(host, kind, format string, size int, elapsed time.Duration, ok bool) {
	result := boolLabel(ok)
	imageUploadsTotal.WithLabelValues(norm(kind), norm(format), result).Inc()
	imageUploadLatencyMs.WithLabelValues(norm(host), result).Observe(float64(elapsed.Milliseconds()))
	if ok {
		imageUploadBytes.Observe(float64(size))
	}
}

// IncRejected counts images refused before reaching the host (unsupported or not an image).
func IncRejected(kind, reason string) {
	imageUploadsTotal.WithLabelValues(norm(kind), norm(reason), "rejected").Inc()
}
