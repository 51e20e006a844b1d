// Package arthurmetrics provides optional Prometheus instrumentation for
// pkg/arthur's Writer and Reader. It is injected via functional options
// (arthur.WithWriterMetrics / arthur.WithReaderMetrics); callers that don't want Prometheus simply don't
// construct a Recorder and get pkg/arthur's built-in Stats() instead.
package arthurmetrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder is the instrumentation hook Writer/Reader call into. A nil
// Recorder is valid and treated as a no-op by callers in pkg/arthur.
type Recorder interface {
	FrameWritten(frameType string, bytes int)
	FrameRead(frameType string, bytes int)
	OverflowRecovered()
	CorruptStreamAbort()
}

// PromRecorder is the default Recorder, backed by prometheus/client_golang
// counters in the "arthur" namespace.
type PromRecorder struct {
	FramesWritten      *prometheus.CounterVec
	BytesWritten       *prometheus.CounterVec
	FramesRead         *prometheus.CounterVec
	BytesRead          *prometheus.CounterVec
	OverflowRecoveries prometheus.Counter
	CorruptAborts      prometheus.Counter
}

// NewPromRecorder builds a PromRecorder with fresh, unregistered metrics.
// Call MustRegister to add them to a registry.
func NewPromRecorder() *PromRecorder {
	return &PromRecorder{
		FramesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arthur",
				Name:      "frames_written_total",
				Help:      "Total number of ARTHUR frames written, by frame type.",
			},
			[]string{"type"},
		),
		BytesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arthur",
				Name:      "bytes_written_total",
				Help:      "Total number of frame bytes written, by frame type.",
			},
			[]string{"type"},
		),
		FramesRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arthur",
				Name:      "frames_read_total",
				Help:      "Total number of ARTHUR frames read, by frame type.",
			},
			[]string{"type"},
		),
		BytesRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arthur",
				Name:      "bytes_read_total",
				Help:      "Total number of frame bytes read, by frame type.",
			},
			[]string{"type"},
		),
		OverflowRecoveries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "arthur",
				Name:      "overflow_recoveries_total",
				Help:      "Total number of in-line snapshot recoveries triggered by overflow.",
			},
		),
		CorruptAborts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "arthur",
				Name:      "corrupt_stream_aborts_total",
				Help:      "Total number of reads aborted due to a corrupt stream.",
			},
		),
	}
}

// MustRegister registers all of r's metrics with the default registry.
func (r *PromRecorder) MustRegister() {
	prometheus.MustRegister(
		r.FramesWritten, r.BytesWritten, r.FramesRead, r.BytesRead,
		r.OverflowRecoveries, r.CorruptAborts,
	)
}

func (r *PromRecorder) FrameWritten(frameType string, bytes int) {
	r.FramesWritten.WithLabelValues(frameType).Inc()
	r.BytesWritten.WithLabelValues(frameType).Add(float64(bytes))
}

func (r *PromRecorder) FrameRead(frameType string, bytes int) {
	r.FramesRead.WithLabelValues(frameType).Inc()
	r.BytesRead.WithLabelValues(frameType).Add(float64(bytes))
}

func (r *PromRecorder) OverflowRecovered() { r.OverflowRecoveries.Inc() }

func (r *PromRecorder) CorruptStreamAbort() { r.CorruptAborts.Inc() }
