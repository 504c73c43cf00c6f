//go:build vision

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"video-frame-analyzer/domain/detection"

	"github.com/otiai10/gosseract/v2"
)

// Gosseract implements detection.Recognizer through the tesseract C API.
// One client is shared by all calls and guarded by mu.
type Gosseract struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewGosseract creates a recognizer loaded with the given languages
func NewGosseract(languages ...string) (*Gosseract, error) {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR languages %v: %w", languages, err)
	}

	return &Gosseract{client: client}, nil
}

// Recognize implements detection.Recognizer using text-line bounding boxes
func (g *Gosseract) Recognize(ctx context.Context, img image.Image) ([]detection.TextSpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set OCR image: %w", err)
	}
	boxes, err := g.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("failed to get text boxes: %w", err)
	}

	spans := make([]detection.TextSpan, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		spans = append(spans, detection.TextSpan{
			Text:       text,
			Confidence: b.Confidence / 100,
			Box:        detection.RectBox(b.Box),
		})
	}
	return spans, nil
}

// Close releases the tesseract client
func (g *Gosseract) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.client.Close()
}

// Ensure Gosseract implements detection.Recognizer
var _ detection.Recognizer = (*Gosseract)(nil)
