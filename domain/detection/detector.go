package detection

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// NoTextReport is returned when the OCR engine finds nothing
const NoTextReport = "No text detected in the image."

// Point is an image coordinate. OCR engines may report sub-pixel positions.
type Point struct {
	X float64
	Y float64
}

// TextSpan is one piece of text found by the OCR engine
type TextSpan struct {
	// Text is the recognized string
	Text string

	// Confidence is the engine score (0.0-1.0)
	Confidence float64

	// Box holds the four corners clockwise from top-left
	Box [4]Point
}

// RectBox builds a span box from an axis-aligned rectangle
func RectBox(r image.Rectangle) [4]Point {
	return [4]Point{
		{X: float64(r.Min.X), Y: float64(r.Min.Y)},
		{X: float64(r.Max.X), Y: float64(r.Min.Y)},
		{X: float64(r.Max.X), Y: float64(r.Max.Y)},
		{X: float64(r.Min.X), Y: float64(r.Max.Y)},
	}
}

// Line renders the span as a report line using the top-left and bottom-right corners
func (s TextSpan) Line() string {
	return fmt.Sprintf("'%s' (Confidence: %.2f%%, Location: (%d, %d) to (%d, %d))",
		s.Text, s.Confidence*100,
		int(s.Box[0].X), int(s.Box[0].Y),
		int(s.Box[2].X), int(s.Box[2].Y))
}

// Report renders every span in engine order, with no filtering
func Report(spans []TextSpan) string {
	if len(spans) == 0 {
		return NoTextReport
	}

	lines := make([]string, 0, len(spans)+1)
	lines = append(lines, "Detected text:")
	for _, s := range spans {
		lines = append(lines, s.Line())
	}
	return strings.Join(lines, "\n")
}

// ImageLoader decodes raster images from disk
type ImageLoader interface {
	// Load returns the image with pixels in RGB channel order
	Load(path string) (image.Image, error)
}

// Recognizer is a pre-trained OCR engine. It is created once per process with
// a fixed language set and passed to whoever needs it.
type Recognizer interface {
	// Recognize runs one full-image pass and returns spans in engine scan order
	Recognize(ctx context.Context, img image.Image) ([]TextSpan, error)

	// Close releases engine resources
	Close() error
}
