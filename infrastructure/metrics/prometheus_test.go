package metrics

import (
	"errors"
	"testing"
	"time"

	"video-frame-analyzer/domain/tool"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_ObserveToolCall(t *testing.T) {
	r := NewRecorder()
	failed := tool.Failure(tool.Rangef("Frame number %d exceeds total frames %d", 400, 300), "")

	before := testutil.ToFloat64(ToolCallsTotal.WithLabelValues("extract_frame", "error", "RangeError"))
	r.ObserveToolCall("extract_frame", failed, 20*time.Millisecond)
	r.ObserveToolCall("extract_frame", failed, 30*time.Millisecond)
	after := testutil.ToFloat64(ToolCallsTotal.WithLabelValues("extract_frame", "error", "RangeError"))

	if after-before != 2 {
		t.Errorf("counter delta = %v, want 2", after-before)
	}
	if n := testutil.CollectAndCount(ToolCallDuration, "vfa_tool_call_duration_seconds"); n == 0 {
		t.Error("expected histogram series to be collected")
	}
}

func TestRecorder_FramesExtracted(t *testing.T) {
	r := NewRecorder()
	before := testutil.ToFloat64(FramesExtractedTotal)

	r.ObserveToolCall("extract_frame", tool.Success("ok", "/tmp/frame_1.png"), time.Millisecond)
	r.ObserveToolCall("detect_text", tool.Success("No text detected in the image.", ""), time.Millisecond)
	r.ObserveToolCall("extract_frame", tool.Failure(errors.New("boom"), "Error extracting frame"), time.Millisecond)

	if got := testutil.ToFloat64(FramesExtractedTotal) - before; got != 1 {
		t.Errorf("frames delta = %v, want 1", got)
	}
}

func TestRecorder_Preregister(t *testing.T) {
	r := NewRecorder()
	before := testutil.CollectAndCount(ToolCallsTotal, "vfa_tool_calls_total")

	r.Preregister("crop_frame", "scale_frame")

	want := 2 * (1 + len(tool.Kinds))
	if got := testutil.CollectAndCount(ToolCallsTotal, "vfa_tool_calls_total") - before; got != want {
		t.Errorf("new series = %d, want %d", got, want)
	}
	if v := testutil.ToFloat64(ToolCallsTotal.WithLabelValues("crop_frame", "error", "DecodeError")); v != 0 {
		t.Errorf("preregistered counter = %v, want 0", v)
	}
}
