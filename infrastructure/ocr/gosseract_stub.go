//go:build !vision

package ocr

import (
	"context"
	"errors"
	"image"

	"video-frame-analyzer/domain/detection"
)

// ErrVisionUnavailable is returned when the binary was built without cgo vision support
var ErrVisionUnavailable = errors.New("gosseract backend not available: build with '-tags=vision' and install tesseract development headers")

// Gosseract is a stub when the tesseract C API is not available
type Gosseract struct{}

// NewGosseract returns an error indicating gosseract is not available
func NewGosseract(languages ...string) (*Gosseract, error) {
	return nil, ErrVisionUnavailable
}

// Recognize returns an error indicating gosseract is not available
func (g *Gosseract) Recognize(ctx context.Context, img image.Image) ([]detection.TextSpan, error) {
	return nil, ErrVisionUnavailable
}

// Close is a no-op in stub mode
func (g *Gosseract) Close() error { return nil }

// Ensure Gosseract implements detection.Recognizer
var _ detection.Recognizer = (*Gosseract)(nil)
