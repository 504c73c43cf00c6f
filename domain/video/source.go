package video

import (
	"context"
	"image"
)

// SourceInfo describes an opened video source
type SourceInfo struct {
	// FrameRate is the number of frames per second
	FrameRate float64

	// FrameCount is the total number of frames reported by the container
	FrameCount int

	// Width and Height are the decoded frame dimensions in pixels
	Width  int
	Height int
}

// Duration returns the video length in seconds (FrameCount / FrameRate)
func (i SourceInfo) Duration() float64 {
	if i.FrameRate <= 0 {
		return 0
	}
	return float64(i.FrameCount) / i.FrameRate
}

// Frame is one decoded video frame
type Frame struct {
	Index int
	Image image.Image
}

// Width returns the frame width in pixels
func (f Frame) Width() int {
	if f.Image == nil {
		return 0
	}
	return f.Image.Bounds().Dx()
}

// Height returns the frame height in pixels
func (f Frame) Height() int {
	if f.Image == nil {
		return 0
	}
	return f.Image.Bounds().Dy()
}

// Opener opens video files for frame access.
// This is a port implemented by the ffmpeg and OpenCV adapters.
type Opener interface {
	// Open opens the video at path. A file that cannot be parsed as video is an error.
	Open(ctx context.Context, path string) (Source, error)
}

// Source is an opened video. It is used for a single call and then closed.
type Source interface {
	// Info returns frame rate, frame count and dimensions
	Info() SourceInfo

	// ReadFrame seeks to the 0-based index and decodes one frame
	ReadFrame(ctx context.Context, index int) (Frame, error)

	// Close releases the underlying handle
	Close() error
}

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// ArtifactWriter persists a frame as an image file
type ArtifactWriter interface {
	// Write stores the frame under name, replacing any existing file, and returns its path
	Write(name string, frame Frame) (string, error)
}
