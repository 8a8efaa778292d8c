// Package prometheus implements xdr/metrics.StreamMetrics using
// github.com/prometheus/client_golang, registering collectors with
// promauto.With against an explicit registry.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ATECoder/go-xdr/metrics"
)

func init() {
	metrics.RegisterConstructor(newStreamMetrics)
}

type streamMetrics struct {
	encodeOps      *prometheus.CounterVec
	encodeDuration *prometheus.HistogramVec
	encodeBytes    *prometheus.HistogramVec
	decodeOps      *prometheus.CounterVec
	decodeDuration *prometheus.HistogramVec
	decodeBytes    *prometheus.HistogramVec
	fragments      *prometheus.HistogramVec
	errors         *prometheus.CounterVec
}

func newStreamMetrics(reg *prometheus.Registry) metrics.StreamMetrics {
	sizeBuckets := []float64{64, 256, 1024, 4096, 16384, 65536, 262144}

	return &streamMetrics{
		encodeOps: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "xdr_stream_encode_operations_total",
				Help: "Total number of stream encode flushes, by backing.",
			},
			[]string{"backing"},
		),
		encodeDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xdr_stream_encode_duration_milliseconds",
				Help:    "Duration of stream encode flushes, by backing.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backing"},
		),
		encodeBytes: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xdr_stream_encode_bytes",
				Help:    "Distribution of octets written per encode flush, by backing.",
				Buckets: sizeBuckets,
			},
			[]string{"backing"},
		),
		decodeOps: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "xdr_stream_decode_operations_total",
				Help: "Total number of stream decode fills, by backing.",
			},
			[]string{"backing"},
		),
		decodeDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xdr_stream_decode_duration_milliseconds",
				Help:    "Duration of stream decode fills, by backing.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backing"},
		),
		decodeBytes: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xdr_stream_decode_bytes",
				Help:    "Distribution of octets read per decode fill, by backing.",
				Buckets: sizeBuckets,
			},
			[]string{"backing"},
		),
		fragments: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xdr_stream_tcp_fragment_bytes",
				Help:    "Distribution of RFC 1831 fragment lengths written or read by the tcp backing.",
				Buckets: sizeBuckets,
			},
			[]string{"backing"},
		),
		errors: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "xdr_stream_errors_total",
				Help: "Total number of stream operations that returned an error, by backing and Kind.",
			},
			[]string{"backing", "kind"},
		),
	}
}

func (m *streamMetrics) ObserveEncode(backing string, bytes int, d time.Duration) {
	if m == nil {
		return
	}
	m.encodeOps.WithLabelValues(backing).Inc()
	m.encodeDuration.WithLabelValues(backing).Observe(float64(d.Microseconds()) / 1000.0)
	m.encodeBytes.WithLabelValues(backing).Observe(float64(bytes))
}

func (m *streamMetrics) ObserveDecode(backing string, bytes int, d time.Duration) {
	if m == nil {
		return
	}
	m.decodeOps.WithLabelValues(backing).Inc()
	m.decodeDuration.WithLabelValues(backing).Observe(float64(d.Microseconds()) / 1000.0)
	m.decodeBytes.WithLabelValues(backing).Observe(float64(bytes))
}

func (m *streamMetrics) RecordFragment(backing string, bytes int) {
	if m == nil {
		return
	}
	m.fragments.WithLabelValues(backing).Observe(float64(bytes))
}

func (m *streamMetrics) RecordError(backing string, kind string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(backing, kind).Inc()
}
