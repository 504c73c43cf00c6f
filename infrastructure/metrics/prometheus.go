// Package metrics holds the Prometheus collectors for tool calls.
package metrics

import (
	"time"

	"video-frame-analyzer/domain/tool"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vfa_tool_calls_total",
		Help: "Total number of tool calls, by tool, status and error kind",
	}, []string{"tool", "status", "kind"})

	ToolCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vfa_tool_call_duration_seconds",
		Help:    "Duration of tool calls",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"tool"})

	FramesExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vfa_frames_extracted_total",
		Help: "Total number of frames written as artifacts",
	})
)

// Recorder records tool call outcomes into the package collectors
type Recorder struct{}

// NewRecorder creates a Prometheus-backed recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Preregister creates zero-valued call series for every tool and error kind
// so dashboards see the full label set before the first call.
func (r *Recorder) Preregister(tools ...string) {
	for _, name := range tools {
		ToolCallsTotal.WithLabelValues(name, string(tool.StatusSuccess), "")
		for _, kind := range tool.Kinds {
			ToolCallsTotal.WithLabelValues(name, string(tool.StatusError), string(kind))
		}
	}
}

// ObserveToolCall records one finished call
func (r *Recorder) ObserveToolCall(name string, result tool.Result, elapsed time.Duration) {
	ToolCallsTotal.WithLabelValues(name, string(result.Status), string(result.Kind)).Inc()
	ToolCallDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if result.OK() && result.ImagePath != "" {
		FramesExtractedTotal.Inc()
	}
}
