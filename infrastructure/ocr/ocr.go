// Package ocr provides text recognizers backed by Tesseract.
package ocr

import (
	"fmt"

	"video-frame-analyzer/domain/detection"
)

// Backend names accepted by New
const (
	BackendTesseract = "tesseract"
	BackendGosseract = "gosseract"
)

// New builds the recognizer for the named backend
func New(backend, tesseractPath string, languages []string) (detection.Recognizer, error) {
	switch backend {
	case "", BackendTesseract:
		return NewTesseract(WithTesseractPath(tesseractPath), WithLanguages(languages...)), nil
	case BackendGosseract:
		g, err := NewGosseract(languages...)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown OCR backend %q (expected %s or %s)", backend, BackendTesseract, BackendGosseract)
	}
}
