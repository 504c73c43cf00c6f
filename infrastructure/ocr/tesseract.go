package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strings"

	"video-frame-analyzer/domain/detection"
)

// DefaultLanguages are the tesseract codes for English and Romanian
var DefaultLanguages = []string{"eng", "ron"}

// Tesseract implements detection.Recognizer by running the tesseract CLI.
// The image is piped as PNG on stdin and TSV is read from stdout.
type Tesseract struct {
	path      string
	languages []string
	runner    CommandRunner
}

// TesseractOption is a functional option for configuring Tesseract
type TesseractOption func(*Tesseract)

// WithTesseractPath sets a custom tesseract executable path
func WithTesseractPath(path string) TesseractOption {
	return func(t *Tesseract) {
		if path != "" {
			t.path = path
		}
	}
}

// WithLanguages sets the recognition languages
func WithLanguages(langs ...string) TesseractOption {
	return func(t *Tesseract) {
		if len(langs) > 0 {
			t.languages = langs
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TesseractOption {
	return func(t *Tesseract) {
		t.runner = runner
	}
}

// NewTesseract creates a tesseract CLI recognizer
func NewTesseract(opts ...TesseractOption) *Tesseract {
	t := &Tesseract{
		path:      "tesseract",
		languages: DefaultLanguages,
		runner:    &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Languages returns the configured language codes
func (t *Tesseract) Languages() []string {
	return t.languages
}

// Recognize implements detection.Recognizer
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]detection.TextSpan, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for tesseract: %w", err)
	}

	args := []string{"stdin", "stdout", "-l", strings.Join(t.languages, "+"), "tsv"}
	out, err := t.runner.Run(ctx, buf.Bytes(), t.path, args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("tesseract failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("tesseract failed: %w", err)
	}

	return ParseTSV(out)
}

// VerifyInstalled checks if tesseract is available
func (t *Tesseract) VerifyInstalled(ctx context.Context) error {
	if _, err := t.runner.Run(ctx, nil, t.path, "--version"); err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w", err)
	}
	return nil
}

// Close implements detection.Recognizer; the CLI holds no resources
func (t *Tesseract) Close() error {
	return nil
}

// Ensure Tesseract implements detection.Recognizer
var _ detection.Recognizer = (*Tesseract)(nil)
