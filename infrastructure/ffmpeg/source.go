package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os/exec"
	"strconv"
	"strings"

	"video-frame-analyzer/domain/video"
)

// Opener implements video.Opener with ffprobe for metadata and ffmpeg for decoding.
// It needs no cgo, only the two executables on PATH.
type Opener struct {
	ffmpegPath  string
	ffprobePath string
	runner      CommandRunner
}

// OpenerOption is a functional option for configuring Opener
type OpenerOption func(*Opener)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) OpenerOption {
	return func(o *Opener) {
		if path != "" {
			o.ffmpegPath = path
		}
	}
}

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) OpenerOption {
	return func(o *Opener) {
		if path != "" {
			o.ffprobePath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) OpenerOption {
	return func(o *Opener) {
		o.runner = runner
	}
}

// NewOpener creates a new FFmpeg-based video opener
func NewOpener(opts ...OpenerOption) *Opener {
	o := &Opener{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Open implements video.Opener by probing the first video stream
func (o *Opener) Open(ctx context.Context, path string) (video.Source, error) {
	out, err := o.runner.Output(ctx, o.ffprobePath, probeArgs(path)...)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", withStderr(err))
	}

	info, err := parseProbe(out)
	if err != nil {
		return nil, err
	}

	return &Source{path: path, info: info, opener: o}, nil
}

// VerifyInstalled checks that ffmpeg and ffprobe are available
func (o *Opener) VerifyInstalled(ctx context.Context) error {
	if _, err := o.runner.Output(ctx, o.ffmpegPath, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	if _, err := o.runner.Output(ctx, o.ffprobePath, "-version"); err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

// Source is a probed video file. Frames are decoded by separate ffmpeg runs.
type Source struct {
	path   string
	info   video.SourceInfo
	opener *Opener
}

// Info implements video.Source
func (s *Source) Info() video.SourceInfo {
	return s.info
}

// ReadFrame implements video.Source by selecting frame n and piping it out as PNG
func (s *Source) ReadFrame(ctx context.Context, index int) (video.Frame, error) {
	out, err := s.opener.runner.Output(ctx, s.opener.ffmpegPath, frameArgs(s.path, index)...)
	if err != nil {
		return video.Frame{}, fmt.Errorf("ffmpeg frame extraction failed: %w", withStderr(err))
	}
	if len(out) == 0 {
		return video.Frame{}, fmt.Errorf("no frame decoded at index %d", index)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return video.Frame{}, fmt.Errorf("failed to decode frame %d: %w", index, err)
	}

	return video.Frame{Index: index, Image: img}, nil
}

// Close implements video.Source. No process outlives a call, so there is nothing to release.
func (s *Source) Close() error {
	return nil
}

// frameArgs returns ffmpeg arguments that decode exactly frame n to PNG on stdout
func frameArgs(path string, index int) []string {
	return []string{
		"-v", "error",
		"-i", path,
		"-vf", "select=eq(n\\," + strconv.Itoa(index) + ")",
		"-vsync", "0",
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}
}

// withStderr appends captured stderr to exec errors
func withStderr(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return err
}

// Ensure Opener implements video.Opener
var (
	_ video.Opener = (*Opener)(nil)
	_ video.Source = (*Source)(nil)
)
