package video

import (
	"errors"
	"image"
	"math"
	"testing"

	"video-frame-analyzer/domain/tool"
)

// 10 seconds at 30 fps, 640x360
var testInfo = SourceInfo{FrameRate: 30, FrameCount: 300, Width: 640, Height: 360}

func kindOf(err error) tool.Kind {
	var te *tool.Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

func TestByIndex_FrameIndex(t *testing.T) {
	tests := []struct {
		name        string
		frame       int
		want        int
		wantErr     bool
		errContains string
	}{
		{name: "first frame", frame: 0, want: 0},
		{name: "middle frame", frame: 150, want: 150},
		{name: "last frame", frame: 299, want: 299},
		{
			name:        "equal to total",
			frame:       300,
			wantErr:     true,
			errContains: "Frame number 300 exceeds total frames 300",
		},
		{
			name:        "beyond total",
			frame:       1000,
			wantErr:     true,
			errContains: "Frame number 1000 exceeds total frames 300",
		},
		{
			name:        "saturated maximum",
			frame:       math.MaxInt,
			wantErr:     true,
			errContains: "exceeds total frames 300",
		},
		{
			name:        "saturated minimum",
			frame:       math.MinInt,
			wantErr:     true,
			errContains: "is negative",
		},
		{
			name:        "negative",
			frame:       -1,
			wantErr:     true,
			errContains: "Frame number -1 is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByIndex{Frame: tt.frame}.FrameIndex(testInfo)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("FrameIndex() expected error, got %d", got)
				}
				if kindOf(err) != tool.KindRange {
					t.Errorf("FrameIndex() error kind = %q, want %q", kindOf(err), tool.KindRange)
				}
				if !contains(err.Error(), tt.errContains) {
					t.Errorf("FrameIndex() error = %v, want containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("FrameIndex() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FrameIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestByTimestamp_FrameIndex(t *testing.T) {
	tests := []struct {
		name        string
		seconds     float64
		want        int
		wantErr     bool
		errContains string
	}{
		{name: "start", seconds: 0, want: 0},
		{name: "two and a half seconds", seconds: 2.5, want: 75},
		{name: "fraction truncates", seconds: 1.99, want: 59},
		{name: "exactly at duration is accepted", seconds: 10, want: 300},
		{
			name:        "negative",
			seconds:     -0.5,
			wantErr:     true,
			errContains: "Timestamp -0.5s is outside video duration of 10.00s",
		},
		{
			name:        "past duration",
			seconds:     10.01,
			wantErr:     true,
			errContains: "Timestamp 10.01s is outside video duration of 10.00s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByTimestamp{Seconds: tt.seconds}.FrameIndex(testInfo)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("FrameIndex() expected error, got %d", got)
				}
				if kindOf(err) != tool.KindRange {
					t.Errorf("FrameIndex() error kind = %q, want %q", kindOf(err), tool.KindRange)
				}
				if !contains(err.Error(), tt.errContains) {
					t.Errorf("FrameIndex() error = %v, want containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("FrameIndex() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FrameIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFrameIndexAt(t *testing.T) {
	tests := []struct {
		seconds   float64
		frameRate float64
		want      int
	}{
		{2.5, 30, 75},
		{0, 25, 0},
		{1, 29.97, 29},
		{3.2, 24, 76},
		{0.04, 25, 1},
		{59.999, 60, 3599},
	}

	for _, tt := range tests {
		if got := FrameIndexAt(tt.seconds, tt.frameRate); got != tt.want {
			t.Errorf("FrameIndexAt(%v, %v) = %d, want %d", tt.seconds, tt.frameRate, got, tt.want)
		}
	}
}

func TestSeek_ArtifactName(t *testing.T) {
	tests := []struct {
		seek Seek
		want string
	}{
		{ByIndex{Frame: 0}, "frame_0.png"},
		{ByIndex{Frame: 42}, "frame_42.png"},
		{ByTimestamp{Seconds: 2.5}, "frame_2.5s.png"},
		{ByTimestamp{Seconds: 3}, "frame_3.0s.png"},
		{ByTimestamp{Seconds: 0.125}, "frame_0.125s.png"},
		{ByTimestamp{Seconds: 0}, "frame_0.0s.png"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.seek.ArtifactName(); got != tt.want {
				t.Errorf("ArtifactName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSeek_Report(t *testing.T) {
	frame := Frame{Index: 75, Image: image.NewRGBA(image.Rect(0, 0, 640, 360))}

	t.Run("by index", func(t *testing.T) {
		got := ByIndex{Frame: 75}.Report(frame, "media/clip.mp4", "/tmp/frame_75.png")
		want := "Frame 75 extracted successfully from media/clip.mp4. Dimensions: 640x360. Saved to: /tmp/frame_75.png"
		if got != want {
			t.Errorf("Report() = %q, want %q", got, want)
		}
	})

	t.Run("by timestamp", func(t *testing.T) {
		got := ByTimestamp{Seconds: 2.5}.Report(frame, "media/clip.mp4", "/tmp/frame_2.5s.png")
		want := "Frame at 2.5s (frame #75) extracted successfully from media/clip.mp4. Dimensions: 640x360. Saved to: /tmp/frame_2.5s.png"
		if got != want {
			t.Errorf("Report() = %q, want %q", got, want)
		}
	})
}

func TestSeek_DecodeFailure(t *testing.T) {
	if got := (ByIndex{Frame: 7}).DecodeFailure(); got != "Failed to extract frame 7" {
		t.Errorf("ByIndex.DecodeFailure() = %q", got)
	}
	if got := (ByTimestamp{Seconds: 1.5}).DecodeFailure(); got != "Failed to extract frame at timestamp 1.5s" {
		t.Errorf("ByTimestamp.DecodeFailure() = %q", got)
	}
}

func TestSourceInfo_Duration(t *testing.T) {
	if got := testInfo.Duration(); got != 10 {
		t.Errorf("Duration() = %v, want 10", got)
	}
	if got := (SourceInfo{FrameCount: 10}).Duration(); got != 0 {
		t.Errorf("Duration() with zero frame rate = %v, want 0", got)
	}
}

func TestFrame_Dimensions(t *testing.T) {
	f := Frame{Image: image.NewRGBA(image.Rect(0, 0, 32, 16))}
	if f.Width() != 32 || f.Height() != 16 {
		t.Errorf("got %dx%d, want 32x16", f.Width(), f.Height())
	}
	if (Frame{}).Width() != 0 {
		t.Error("expected zero width for empty frame")
	}
}
