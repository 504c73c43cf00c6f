//go:build !vision

package opencv

import (
	"context"
	"errors"
	"image"

	"video-frame-analyzer/domain/detection"
	"video-frame-analyzer/domain/video"
)

// ErrVisionUnavailable is returned when the binary was built without OpenCV
var ErrVisionUnavailable = errors.New("opencv backend not available: build with '-tags=vision' and install OpenCV/GoCV")

// Opener is a stub when GoCV/OpenCV is not available
type Opener struct{}

// NewOpener returns an error indicating OpenCV is not available
func NewOpener() (*Opener, error) {
	return nil, ErrVisionUnavailable
}

// Open returns an error indicating OpenCV is not available
func (o *Opener) Open(ctx context.Context, path string) (video.Source, error) {
	return nil, ErrVisionUnavailable
}

// ImageLoader is a stub when GoCV/OpenCV is not available
type ImageLoader struct{}

// NewImageLoader returns an error indicating OpenCV is not available
func NewImageLoader() (*ImageLoader, error) {
	return nil, ErrVisionUnavailable
}

// Load returns an error indicating OpenCV is not available
func (l *ImageLoader) Load(path string) (image.Image, error) {
	return nil, ErrVisionUnavailable
}

// Ensure stubs implement their ports
var (
	_ video.Opener          = (*Opener)(nil)
	_ detection.ImageLoader = (*ImageLoader)(nil)
)
