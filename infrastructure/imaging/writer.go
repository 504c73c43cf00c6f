package imaging

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"video-frame-analyzer/domain/video"
)

// PNGWriter implements video.ArtifactWriter by encoding frames as PNG files
// in a shared directory. Names are caller-chosen, so equal names overwrite.
type PNGWriter struct {
	dir     string
	encoder png.Encoder
}

// PNGWriterOption is a functional option for configuring PNGWriter
type PNGWriterOption func(*PNGWriter)

// WithCompression sets the PNG compression level
func WithCompression(level png.CompressionLevel) PNGWriterOption {
	return func(w *PNGWriter) {
		w.encoder.CompressionLevel = level
	}
}

// NewPNGWriter creates a writer rooted at dir. An empty dir means os.TempDir().
func NewPNGWriter(dir string, opts ...PNGWriterOption) *PNGWriter {
	if dir == "" {
		dir = os.TempDir()
	}
	w := &PNGWriter{
		dir:     dir,
		encoder: png.Encoder{CompressionLevel: png.DefaultCompression},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Dir returns the artifact directory
func (w *PNGWriter) Dir() string {
	return w.dir
}

// Write implements video.ArtifactWriter
func (w *PNGWriter) Write(name string, frame video.Frame) (string, error) {
	if frame.Image == nil {
		return "", fmt.Errorf("frame %d has no image data", frame.Index)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	path := filepath.Join(w.dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := w.encoder.Encode(f, frame.Image); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode png: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

// Ensure PNGWriter implements video.ArtifactWriter
var _ video.ArtifactWriter = (*PNGWriter)(nil)
