package video

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"video-frame-analyzer/domain/tool"
)

// Seek selects which frame an extraction reads and how the outcome is reported.
// ByIndex and ByTimestamp share the same open/seek/decode/write skeleton.
type Seek interface {
	// FrameIndex validates the request against the source and returns the 0-based frame index
	FrameIndex(info SourceInfo) (int, error)

	// ArtifactName returns the deterministic file name for the extracted frame
	ArtifactName() string

	// DecodeFailure returns the message used when the frame cannot be decoded
	DecodeFailure() string

	// Report describes a successful extraction
	Report(frame Frame, videoPath, artifactPath string) string
}

// ByIndex seeks to an absolute frame number
type ByIndex struct {
	Frame int
}

// FrameIndex implements Seek
func (s ByIndex) FrameIndex(info SourceInfo) (int, error) {
	if s.Frame < 0 {
		return 0, tool.Rangef("Frame number %d is negative", s.Frame)
	}
	if s.Frame >= info.FrameCount {
		return 0, tool.Rangef("Frame number %d exceeds total frames %d", s.Frame, info.FrameCount)
	}
	return s.Frame, nil
}

// ArtifactName implements Seek
func (s ByIndex) ArtifactName() string {
	return fmt.Sprintf("frame_%d.png", s.Frame)
}

// DecodeFailure implements Seek
func (s ByIndex) DecodeFailure() string {
	return fmt.Sprintf("Failed to extract frame %d", s.Frame)
}

// Report implements Seek
func (s ByIndex) Report(frame Frame, videoPath, artifactPath string) string {
	return fmt.Sprintf("Frame %d extracted successfully from %s. Dimensions: %dx%d. Saved to: %s",
		s.Frame, videoPath, frame.Width(), frame.Height(), artifactPath)
}

// ByTimestamp seeks to the frame shown at a time offset in seconds
type ByTimestamp struct {
	Seconds float64
}

// FrameIndex implements Seek.
// The upper bound is inclusive, so a timestamp equal to the duration passes
// validation even though its index can be past the last frame; the decode
// step reports that case.
func (s ByTimestamp) FrameIndex(info SourceInfo) (int, error) {
	duration := info.Duration()
	if s.Seconds < 0 || s.Seconds > duration {
		return 0, tool.Rangef("Timestamp %ss is outside video duration of %.2fs", s.label(), duration)
	}
	return FrameIndexAt(s.Seconds, info.FrameRate), nil
}

// ArtifactName implements Seek
func (s ByTimestamp) ArtifactName() string {
	return fmt.Sprintf("frame_%ss.png", s.label())
}

// DecodeFailure implements Seek
func (s ByTimestamp) DecodeFailure() string {
	return fmt.Sprintf("Failed to extract frame at timestamp %ss", s.label())
}

// Report implements Seek
func (s ByTimestamp) Report(frame Frame, videoPath, artifactPath string) string {
	return fmt.Sprintf("Frame at %ss (frame #%d) extracted successfully from %s. Dimensions: %dx%d. Saved to: %s",
		s.label(), frame.Index, videoPath, frame.Width(), frame.Height(), artifactPath)
}

// label formats the timestamp as a float literal in its shortest decimal
// form. Whole values keep one fractional digit (2.5 -> "2.5", 3 -> "3.0").
func (s ByTimestamp) label() string {
	v := strconv.FormatFloat(s.Seconds, 'f', -1, 64)
	if !strings.Contains(v, ".") {
		v += ".0"
	}
	return v
}

// FrameIndexAt converts a timestamp to a frame index: floor(seconds * frameRate)
func FrameIndexAt(seconds, frameRate float64) int {
	return int(math.Floor(seconds * frameRate))
}

// Ensure both strategies implement Seek
var (
	_ Seek = ByIndex{}
	_ Seek = ByTimestamp{}
)
