package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"video-frame-analyzer/application/agent"
	"video-frame-analyzer/domain/tool"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFrames struct{}

func (stubFrames) ExtractByIndex(ctx context.Context, frameNumber int) tool.Result {
	if frameNumber >= 300 {
		return tool.Failure(tool.Rangef("Frame number %d exceeds total frames %d", frameNumber, 300), "")
	}
	return tool.Success("Frame extracted", "/tmp/frame_1.png")
}

func (stubFrames) ExtractAt(ctx context.Context, seconds float64) tool.Result {
	return tool.Success("Frame at", "/tmp/frame_1s.png")
}

type stubText struct{}

func (stubText) Detect(ctx context.Context, imagePath string) tool.Result {
	return tool.Success("No text detected in the image.", "")
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := agent.NewRegistry()
	require.NoError(t, agent.RegisterBuiltins(reg, stubFrames{}, stubText{}))
	return NewServer(":0", reg, agent.NewManifest("", "", reg), nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UP", decode(t, w)["status"])
}

func TestGetManifest(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/v1/agent", "")
	require.Equal(t, http.StatusOK, w.Code)

	out := decode(t, w)
	assert.Equal(t, agent.DefaultName, out["name"])
	assert.Equal(t, agent.DefaultModel, out["model"])
	assert.Len(t, out["tools"], 3)
}

func TestListTools(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/v1/tools", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"extract_frame_at"`)
}

func TestCallTool(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantCode   int
		wantStatus string
		wantKey    string
	}{
		{"success", "/v1/tools/extract_frame", `{"frame_number": 10}`, http.StatusOK, "success", "image_path"},
		{"tool error", "/v1/tools/extract_frame", `{"frame_number": 400}`, http.StatusOK, "error", "error_message"},
		{"invalid args", "/v1/tools/detect_text", `{}`, http.StatusOK, "error", "error_message"},
		{"unknown tool", "/v1/tools/blur_frame", `{}`, http.StatusNotFound, "error", "error_message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestServer(t), http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())

			out := decode(t, w)
			assert.Equal(t, tt.wantStatus, out["status"])
			assert.Contains(t, out, tt.wantKey)
		})
	}
}

func TestCallTool_RangeMessage(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/v1/tools/extract_frame", `{"frame_number": 400}`)
	out := decode(t, w)
	assert.Equal(t, "Frame number 400 exceeds total frames 300", out["error_message"])
	assert.NotContains(t, out, "report")
}

func TestMetricsEndpoint(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := agent.NewRegistry()
	s := NewServer("127.0.0.1:0", reg, agent.NewManifest("", "", reg), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}
