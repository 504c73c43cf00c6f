package imaging

import (
	"fmt"

	"github.com/corona10/goimagehash"
)

// Fingerprint returns the perceptual hash of the image at path in the
// "p:<16 hex digits>" form. Frames that look alike differ in few bits.
func (l *Loader) Fingerprint(path string) (string, error) {
	img, err := l.Load(path)
	if err != nil {
		return "", err
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return "", fmt.Errorf("failed to calculate perceptual hash: %w", err)
	}

	return hash.ToString(), nil
}
