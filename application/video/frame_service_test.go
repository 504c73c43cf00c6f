package video

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"strings"
	"testing"

	"video-frame-analyzer/domain/tool"
	"video-frame-analyzer/domain/video"
	"video-frame-analyzer/infrastructure/imaging"
)

// --- Mock implementations for testing ---

// mockSource implements video.Source for testing
type mockSource struct {
	info    video.SourceInfo
	readErr error
	reads   []int
	closed  bool
}

func (m *mockSource) Info() video.SourceInfo { return m.info }

func (m *mockSource) ReadFrame(ctx context.Context, index int) (video.Frame, error) {
	m.reads = append(m.reads, index)
	if m.readErr != nil {
		return video.Frame{}, m.readErr
	}
	if index >= m.info.FrameCount {
		return video.Frame{}, errors.New("end of stream")
	}
	img := image.NewRGBA(image.Rect(0, 0, m.info.Width, m.info.Height))
	return video.Frame{Index: index, Image: img}, nil
}

func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

// mockOpener implements video.Opener for testing
type mockOpener struct {
	source  *mockSource
	openErr error
	opened  []string
}

func (m *mockOpener) Open(ctx context.Context, path string) (video.Source, error) {
	m.opened = append(m.opened, path)
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.source, nil
}

// mockFileChecker implements video.FileChecker for testing
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// mockWriter implements video.ArtifactWriter for testing
type mockWriter struct {
	names    []string
	writeErr error
}

func (m *mockWriter) Write(name string, frame video.Frame) (string, error) {
	if m.writeErr != nil {
		return "", m.writeErr
	}
	m.names = append(m.names, name)
	return filepath.Join("/tmp", name), nil
}

const testVideoPath = "media/clip.mp4"

func newTestService(src *mockSource, files map[string]bool) (*FrameService, *mockOpener, *mockWriter) {
	opener := &mockOpener{source: src}
	writer := &mockWriter{}
	svc := NewFrameService(opener, &mockFileChecker{existingFiles: files}, writer,
		SourceConfig{BaseDirectory: "media", FileName: "clip.mp4"}, nil)
	return svc, opener, writer
}

func defaultSource() *mockSource {
	return &mockSource{info: video.SourceInfo{FrameRate: 30, FrameCount: 300, Width: 640, Height: 360}}
}

func TestFrameService_ExtractByIndex(t *testing.T) {
	src := defaultSource()
	svc, opener, writer := newTestService(src, map[string]bool{testVideoPath: true})

	result := svc.ExtractByIndex(context.Background(), 42)

	if !result.OK() {
		t.Fatalf("expected success, got %+v", result)
	}
	want := "Frame 42 extracted successfully from media/clip.mp4. Dimensions: 640x360. Saved to: /tmp/frame_42.png"
	if result.Report != want {
		t.Errorf("report = %q, want %q", result.Report, want)
	}
	if result.ImagePath != "/tmp/frame_42.png" {
		t.Errorf("image path = %q", result.ImagePath)
	}
	if len(opener.opened) != 1 || opener.opened[0] != testVideoPath {
		t.Errorf("opened = %v, want [%s]", opener.opened, testVideoPath)
	}
	if len(writer.names) != 1 || writer.names[0] != "frame_42.png" {
		t.Errorf("written = %v", writer.names)
	}
	if !src.closed {
		t.Error("expected source to be closed")
	}
}

func TestFrameService_ExtractAt(t *testing.T) {
	src := defaultSource()
	svc, _, writer := newTestService(src, map[string]bool{testVideoPath: true})

	result := svc.ExtractAt(context.Background(), 2.5)

	if !result.OK() {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(src.reads) != 1 || src.reads[0] != 75 {
		t.Errorf("reads = %v, want [75]", src.reads)
	}
	want := "Frame at 2.5s (frame #75) extracted successfully from media/clip.mp4. Dimensions: 640x360. Saved to: /tmp/frame_2.5s.png"
	if result.Report != want {
		t.Errorf("report = %q, want %q", result.Report, want)
	}
	if writer.names[0] != "frame_2.5s.png" {
		t.Errorf("artifact name = %q", writer.names[0])
	}
}

func TestFrameService_Errors(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		files       map[string]bool
		openErr     error
		readErr     error
		writeErr    error
		seek        video.Seek
		wantKind    tool.Kind
		wantMessage string
	}{
		{
			name:        "missing video name",
			fileName:    "",
			files:       map[string]bool{},
			seek:        video.ByIndex{Frame: 0},
			wantKind:    tool.KindConfig,
			wantMessage: "VIDEO_FILE_NAME not found in environment variables",
		},
		{
			name:        "video missing on disk",
			fileName:    "clip.mp4",
			files:       map[string]bool{},
			seek:        video.ByIndex{Frame: 0},
			wantKind:    tool.KindNotFound,
			wantMessage: "Video file not found at: media/clip.mp4",
		},
		{
			name:        "unreadable video",
			fileName:    "clip.mp4",
			files:       map[string]bool{testVideoPath: true},
			openErr:     errors.New("moov atom not found"),
			seek:        video.ByIndex{Frame: 0},
			wantKind:    tool.KindDecode,
			wantMessage: "Failed to open video: media/clip.mp4",
		},
		{
			name:        "frame out of range",
			fileName:    "clip.mp4",
			files:       map[string]bool{testVideoPath: true},
			seek:        video.ByIndex{Frame: 300},
			wantKind:    tool.KindRange,
			wantMessage: "Frame number 300 exceeds total frames 300",
		},
		{
			name:        "timestamp out of range",
			fileName:    "clip.mp4",
			files:       map[string]bool{testVideoPath: true},
			seek:        video.ByTimestamp{Seconds: 12},
			wantKind:    tool.KindRange,
			wantMessage: "Timestamp 12.0s is outside video duration of 10.00s",
		},
		{
			name:        "decode failure",
			fileName:    "clip.mp4",
			files:       map[string]bool{testVideoPath: true},
			readErr:     errors.New("corrupt packet"),
			seek:        video.ByIndex{Frame: 3},
			wantKind:    tool.KindDecode,
			wantMessage: "Failed to extract frame 3",
		},
		{
			name:        "timestamp at end of video fails to decode",
			fileName:    "clip.mp4",
			files:       map[string]bool{testVideoPath: true},
			seek:        video.ByTimestamp{Seconds: 10},
			wantKind:    tool.KindDecode,
			wantMessage: "Failed to extract frame at timestamp 10.0s",
		},
		{
			name:        "write failure is unknown",
			fileName:    "clip.mp4",
			files:       map[string]bool{testVideoPath: true},
			writeErr:    errors.New("no space left on device"),
			seek:        video.ByIndex{Frame: 1},
			wantKind:    tool.KindUnknown,
			wantMessage: "Error extracting frame: no space left on device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := defaultSource()
			src.readErr = tt.readErr
			opener := &mockOpener{source: src, openErr: tt.openErr}
			writer := &mockWriter{writeErr: tt.writeErr}
			svc := NewFrameService(opener, &mockFileChecker{existingFiles: tt.files}, writer,
				SourceConfig{BaseDirectory: "media", FileName: tt.fileName}, nil)

			result := svc.Extract(context.Background(), tt.seek)

			if result.OK() {
				t.Fatalf("expected error result, got %+v", result)
			}
			if result.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", result.Kind, tt.wantKind)
			}
			if result.ErrorMessage != tt.wantMessage {
				t.Errorf("message = %q, want %q", result.ErrorMessage, tt.wantMessage)
			}
			if result.ImagePath != "" {
				t.Errorf("expected no image path on error, got %q", result.ImagePath)
			}
		})
	}
}

func TestFrameService_ZeroFrameRate(t *testing.T) {
	src := &mockSource{info: video.SourceInfo{FrameRate: 0, FrameCount: 10, Width: 8, Height: 8}}
	svc, _, writer := newTestService(src, map[string]bool{testVideoPath: true})

	result := svc.ExtractAt(context.Background(), 0)

	if result.Kind != tool.KindDecode {
		t.Fatalf("kind = %q, want %q", result.Kind, tool.KindDecode)
	}
	if result.ErrorMessage != "Failed to open video: media/clip.mp4" {
		t.Errorf("message = %q", result.ErrorMessage)
	}
	if !src.closed {
		t.Error("source should be closed")
	}
	if len(writer.names) != 0 {
		t.Errorf("nothing should be written, got %v", writer.names)
	}
}

func TestFrameService_CheckOrder(t *testing.T) {
	// Config is checked before existence, existence before decode
	opener := &mockOpener{openErr: errors.New("should not be called")}
	svc := NewFrameService(opener, &mockFileChecker{}, &mockWriter{}, SourceConfig{}, nil)

	result := svc.ExtractByIndex(context.Background(), 0)
	if result.Kind != tool.KindConfig {
		t.Errorf("kind = %q, want %q", result.Kind, tool.KindConfig)
	}

	svc = NewFrameService(opener, &mockFileChecker{}, &mockWriter{}, SourceConfig{FileName: "x.mp4"}, nil)
	result = svc.ExtractByIndex(context.Background(), 0)
	if result.Kind != tool.KindNotFound {
		t.Errorf("kind = %q, want %q", result.Kind, tool.KindNotFound)
	}
	if len(opener.opened) != 0 {
		t.Errorf("opener should not be called before existence check, got %v", opener.opened)
	}
}

func TestFrameService_CancelledContext(t *testing.T) {
	src := defaultSource()
	src.readErr = context.Canceled
	svc, _, _ := newTestService(src, map[string]bool{testVideoPath: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := svc.ExtractByIndex(ctx, 1)
	if result.Kind != tool.KindUnknown {
		t.Errorf("kind = %q, want %q", result.Kind, tool.KindUnknown)
	}
	if !strings.Contains(result.ErrorMessage, "context canceled") {
		t.Errorf("message = %q", result.ErrorMessage)
	}
}

func TestFrameService_ArtifactMatchesSourceDimensions(t *testing.T) {
	dir := t.TempDir()
	src := &mockSource{info: video.SourceInfo{FrameRate: 25, FrameCount: 50, Width: 96, Height: 54}}
	svc := NewFrameService(&mockOpener{source: src},
		&mockFileChecker{existingFiles: map[string]bool{testVideoPath: true}},
		imaging.NewPNGWriter(dir),
		SourceConfig{BaseDirectory: "media", FileName: "clip.mp4"}, nil)

	for _, n := range []int{0, 1, 24, 49} {
		result := svc.ExtractByIndex(context.Background(), n)
		if !result.OK() {
			t.Fatalf("frame %d: expected success, got %+v", n, result)
		}

		img, err := imaging.NewLoader().Load(result.ImagePath)
		if err != nil {
			t.Fatalf("frame %d: load artifact: %v", n, err)
		}
		if img.Bounds().Dx() != 96 || img.Bounds().Dy() != 54 {
			t.Errorf("frame %d: artifact is %dx%d, want 96x54", n, img.Bounds().Dx(), img.Bounds().Dy())
		}
	}
}
