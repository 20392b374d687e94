// src/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Decode results used as the "result" label.
const (
	ResultOK       = "ok"
	ResultEmpty    = "empty"
	ResultNotText  = "not_text"
	ResultError    = "error"
	ResultCacheHit = "cache_hit"
)

// Metrics holds the collectors observed by the reading service.
type Metrics struct {
	decodes          *prometheus.CounterVec
	decodeDuration   prometheus.Histogram
	readingsStored   *prometheus.CounterVec
	duplicateUploads prometheus.Counter
	cacheHits        prometheus.Counter
}

// New creates the collectors and registers them on reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendingreader_decodes_total",
			Help: "EVA-DTS decode attempts by result.",
		}, []string{"result"}),
		decodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vendingreader_decode_duration_seconds",
			Help:    "Time spent decoding one EVA-DTS file.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		readingsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendingreader_readings_stored_total",
			Help: "Readings persisted, by source.",
		}, []string{"source"}),
		duplicateUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vendingreader_duplicate_uploads_total",
			Help: "Uploads rejected because the same file was already stored.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vendingreader_decode_cache_hits_total",
			Help: "Decodes served from the fingerprint cache.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.decodes, m.decodeDuration, m.readingsStored, m.duplicateUploads, m.cacheHits)
	}
	return m
}

// ObserveDecode records one decode attempt. Safe on a nil receiver.
func (m *Metrics) ObserveDecode(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.decodes.WithLabelValues(result).Inc()
	m.decodeDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
	m.decodes.WithLabelValues(ResultCacheHit).Inc()
}

func (m *Metrics) ReadingStored(source string) {
	if m == nil {
		return
	}
	m.readingsStored.WithLabelValues(source).Inc()
}

func (m *Metrics) DuplicateUpload() {
	if m == nil {
		return
	}
	m.duplicateUploads.Inc()
}
