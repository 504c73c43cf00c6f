package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"video-frame-analyzer/domain/detection"
)

// Loader implements detection.ImageLoader with the pure-Go decoders.
// Go decoders already yield RGB(A) ordered pixels, so no channel swap is needed.
type Loader struct{}

// NewLoader creates a new image loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements detection.ImageLoader
func (l *Loader) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}

// Ensure Loader implements detection.ImageLoader
var _ detection.ImageLoader = (*Loader)(nil)
