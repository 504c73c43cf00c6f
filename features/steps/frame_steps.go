//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"video-frame-analyzer/application/agent"
	appdetection "video-frame-analyzer/application/detection"
	appvideo "video-frame-analyzer/application/video"
	"video-frame-analyzer/cmd"
	"video-frame-analyzer/domain/detection"
	"video-frame-analyzer/domain/tool"
	"video-frame-analyzer/domain/video"
	"video-frame-analyzer/infrastructure/imaging"

	"github.com/cucumber/godog"
)

// mockFileChecker simulates file existence
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// fakeOpener serves a synthetic video whose frames are solid colors
type fakeOpener struct {
	info       video.SourceInfo
	openErr    error
	undecoded  map[int]bool
	openedPath string
}

func (o *fakeOpener) Open(ctx context.Context, path string) (video.Source, error) {
	o.openedPath = path
	if o.openErr != nil {
		return nil, o.openErr
	}
	return &fakeSource{opener: o}, nil
}

type fakeSource struct {
	opener *fakeOpener
}

func (s *fakeSource) Info() video.SourceInfo { return s.opener.info }

func (s *fakeSource) ReadFrame(ctx context.Context, index int) (video.Frame, error) {
	if index >= s.opener.info.FrameCount || s.opener.undecoded[index] {
		return video.Frame{}, fmt.Errorf("no frame decoded at index %d", index)
	}
	img := image.NewRGBA(image.Rect(0, 0, s.opener.info.Width, s.opener.info.Height))
	shade := uint8(index % 256)
	for y := 0; y < s.opener.info.Height; y++ {
		for x := 0; x < s.opener.info.Width; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}
	return video.Frame{Index: index, Image: img}, nil
}

func (s *fakeSource) Close() error { return nil }

// scriptedRecognizer returns the spans configured by the scenario
type scriptedRecognizer struct {
	spans []detection.TextSpan
	err   error
}

func (r *scriptedRecognizer) Recognize(ctx context.Context, img image.Image) ([]detection.TextSpan, error) {
	return r.spans, r.err
}

func (r *scriptedRecognizer) Close() error { return nil }

type frameContext struct {
	tempDir    string
	artifacts  string
	source     appvideo.SourceConfig
	opener     *fakeOpener
	checker    *mockFileChecker
	recognizer *scriptedRecognizer
	output     *bytes.Buffer
	result     tool.Result
	err        error
}

// SharedFrameContext is reset before each scenario
var SharedFrameContext = &frameContext{}

func InitializeFrameScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedFrameContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "frame-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.artifacts = filepath.Join(tempDir, "artifacts")
		testCtx.source = appvideo.SourceConfig{BaseDirectory: filepath.Join(tempDir, "videos")}
		testCtx.opener = &fakeOpener{undecoded: make(map[int]bool)}
		testCtx.checker = &mockFileChecker{existingFiles: make(map[string]bool)}
		testCtx.recognizer = &scriptedRecognizer{}
		testCtx.output = &bytes.Buffer{}
		testCtx.result = tool.Result{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	// Video fixtures
	ctx.Step(`^the video file name is "([^"]*)"$`, testCtx.theVideoFileNameIs)
	ctx.Step(`^no video file name is configured$`, testCtx.noVideoFileNameIsConfigured)
	ctx.Step(`^the video exists with (\d+) frames at ([\d.]+) fps and size (\d+)x(\d+)$`, testCtx.theVideoExistsWith)
	ctx.Step(`^the video file does not exist$`, testCtx.theVideoFileDoesNotExist)
	ctx.Step(`^the video cannot be opened$`, testCtx.theVideoCannotBeOpened)
	ctx.Step(`^frame (\d+) cannot be decoded$`, testCtx.frameCannotBeDecoded)

	// OCR fixtures
	ctx.Step(`^an image exists at "([^"]*)"$`, testCtx.anImageExistsAt)
	ctx.Step(`^the OCR engine finds no text$`, testCtx.theOCREngineFindsNoText)
	ctx.Step(`^the OCR engine finds:$`, testCtx.theOCREngineFinds)

	// Actions
	ctx.Step(`^I extract frame (-?\d+)$`, testCtx.iExtractFrame)
	ctx.Step(`^I extract the frame at "([^"]*)"$`, testCtx.iExtractTheFrameAt)
	ctx.Step(`^I detect text in "([^"]*)"$`, testCtx.iDetectTextIn)
	ctx.Step(`^I detect text in the extracted frame$`, testCtx.iDetectTextInTheExtractedFrame)
	ctx.Step(`^I call the tool "([^"]*)" with arguments '([^']*)'$`, testCtx.iCallTheToolWithArguments)

	// Assertions
	ctx.Step(`^the result status should be "([^"]*)"$`, testCtx.theResultStatusShouldBe)
	ctx.Step(`^the report should be "([^"]*)"$`, testCtx.theReportShouldBe)
	ctx.Step(`^the report should contain "([^"]*)"$`, testCtx.theReportShouldContain)
	ctx.Step(`^the report should be:$`, testCtx.theReportShouldBeDocString)
	ctx.Step(`^the error message should be "([^"]*)"$`, testCtx.theErrorMessageShouldBe)
	ctx.Step(`^the error message should start with "([^"]*)"$`, testCtx.theErrorMessageShouldStartWith)
	ctx.Step(`^the image "([^"]*)" should be written with size (\d+)x(\d+)$`, testCtx.theImageShouldBeWrittenWithSize)
	ctx.Step(`^the result should have no image path$`, testCtx.theResultShouldHaveNoImagePath)
	ctx.Step(`^the video should not have been opened$`, testCtx.theVideoShouldNotHaveBeenOpened)
}

func (f *frameContext) videoPath() string {
	return filepath.Join(f.source.BaseDirectory, f.source.FileName)
}

func (f *frameContext) frameService() *appvideo.FrameService {
	return appvideo.NewFrameService(f.opener, f.checker, imaging.NewPNGWriter(f.artifacts), f.source, nil)
}

func (f *frameContext) detectService() *appdetection.Service {
	return appdetection.NewService(imaging.NewLoader(), f.recognizer, f.checker, nil)
}

func (f *frameContext) theVideoFileNameIs(name string) error {
	f.source.FileName = name
	return nil
}

func (f *frameContext) noVideoFileNameIsConfigured() error {
	f.source.FileName = ""
	return nil
}

func (f *frameContext) theVideoExistsWith(frames int, fps float64, width, height int) error {
	f.opener.info = video.SourceInfo{FrameRate: fps, FrameCount: frames, Width: width, Height: height}
	f.checker.existingFiles[f.videoPath()] = true
	return nil
}

func (f *frameContext) theVideoFileDoesNotExist() error {
	delete(f.checker.existingFiles, f.videoPath())
	return nil
}

func (f *frameContext) theVideoCannotBeOpened() error {
	f.checker.existingFiles[f.videoPath()] = true
	f.opener.openErr = fmt.Errorf("invalid data found when processing input")
	return nil
}

func (f *frameContext) frameCannotBeDecoded(index int) error {
	f.opener.undecoded[index] = true
	return nil
}

func (f *frameContext) anImageExistsAt(name string) error {
	path := filepath.Join(f.tempDir, name)
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	writer := imaging.NewPNGWriter(f.tempDir)
	if _, err := writer.Write(name, video.Frame{Image: img}); err != nil {
		return fmt.Errorf("failed to write fixture image: %w", err)
	}
	f.checker.existingFiles[path] = true
	return nil
}

func (f *frameContext) theOCREngineFindsNoText() error {
	f.recognizer.spans = nil
	return nil
}

func (f *frameContext) theOCREngineFinds(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		confidence, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return fmt.Errorf("invalid confidence %q: %w", row.Cells[1].Value, err)
		}
		var coords [4]int
		for j := range coords {
			if coords[j], err = strconv.Atoi(row.Cells[2+j].Value); err != nil {
				return fmt.Errorf("invalid coordinate %q: %w", row.Cells[2+j].Value, err)
			}
		}
		f.recognizer.spans = append(f.recognizer.spans, detection.TextSpan{
			Text:       row.Cells[0].Value,
			Confidence: confidence,
			Box:        detection.RectBox(image.Rect(coords[0], coords[1], coords[2], coords[3])),
		})
	}
	return nil
}

func (f *frameContext) run(fn func() error) error {
	f.output.Reset()
	f.err = fn()
	if f.err != nil && !errors.Is(f.err, cmd.ErrToolFailed) {
		return fmt.Errorf("command failed: %w", f.err)
	}
	f.result = tool.Result{}
	if err := json.Unmarshal(f.output.Bytes(), &f.result); err != nil {
		return fmt.Errorf("failed to decode result %q: %w", f.output.String(), err)
	}
	return nil
}

func (f *frameContext) iExtractFrame(frame int) error {
	return f.run(func() error {
		req := cmd.FrameRequest{Frame: frame}
		return cmd.RunExtractFrameWithDependencies(context.Background(), f.frameService(), req, true, f.output)
	})
}

func (f *frameContext) iExtractTheFrameAt(at string) error {
	return f.run(func() error {
		req := cmd.FrameRequest{At: at, ByTime: true}
		return cmd.RunExtractFrameWithDependencies(context.Background(), f.frameService(), req, true, f.output)
	})
}

func (f *frameContext) iDetectTextIn(name string) error {
	path := filepath.Join(f.tempDir, name)
	return f.run(func() error {
		return cmd.RunDetectTextWithDependencies(context.Background(), f.detectService(), path, true, f.output)
	})
}

func (f *frameContext) iDetectTextInTheExtractedFrame() error {
	path := f.result.ImagePath
	if path == "" {
		return fmt.Errorf("no frame has been extracted")
	}
	f.checker.existingFiles[path] = true
	return f.run(func() error {
		return cmd.RunDetectTextWithDependencies(context.Background(), f.detectService(), path, true, f.output)
	})
}

func (f *frameContext) iCallTheToolWithArguments(name, args string) error {
	registry := agent.NewRegistry()
	if err := agent.RegisterBuiltins(registry, f.frameService(), f.detectService()); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	args = f.expand(args)
	return f.run(func() error {
		return cmd.RunToolsCallWithDependencies(context.Background(), registry, name, args, f.output)
	})
}

func (f *frameContext) theResultStatusShouldBe(expected string) error {
	if string(f.result.Status) != expected {
		return fmt.Errorf("expected status %q, got %q (error: %q)", expected, f.result.Status, f.result.ErrorMessage)
	}
	return nil
}

func (f *frameContext) expand(s string) string {
	s = strings.ReplaceAll(s, "$VIDEO", f.videoPath())
	s = strings.ReplaceAll(s, "$ARTIFACTS", f.artifacts)
	return strings.ReplaceAll(s, "$TMP", f.tempDir)
}

func (f *frameContext) theReportShouldBe(expected string) error {
	expected = f.expand(expected)
	if f.result.Report != expected {
		return fmt.Errorf("expected report %q, got %q", expected, f.result.Report)
	}
	return nil
}

func (f *frameContext) theReportShouldBeDocString(doc *godog.DocString) error {
	return f.theReportShouldBe(doc.Content)
}

func (f *frameContext) theReportShouldContain(expected string) error {
	expected = f.expand(expected)
	if !strings.Contains(f.result.Report, expected) {
		return fmt.Errorf("expected report to contain %q, got %q", expected, f.result.Report)
	}
	return nil
}

func (f *frameContext) theErrorMessageShouldBe(expected string) error {
	expected = f.expand(expected)
	if f.result.ErrorMessage != expected {
		return fmt.Errorf("expected error message %q, got %q", expected, f.result.ErrorMessage)
	}
	return nil
}

func (f *frameContext) theErrorMessageShouldStartWith(prefix string) error {
	prefix = f.expand(prefix)
	if !strings.HasPrefix(f.result.ErrorMessage, prefix) {
		return fmt.Errorf("expected error message starting with %q, got %q", prefix, f.result.ErrorMessage)
	}
	return nil
}

func (f *frameContext) theImageShouldBeWrittenWithSize(name string, width, height int) error {
	expected := filepath.Join(f.artifacts, name)
	if f.result.ImagePath != expected {
		return fmt.Errorf("expected image path %q, got %q", expected, f.result.ImagePath)
	}
	img, err := imaging.NewLoader().Load(expected)
	if err != nil {
		return fmt.Errorf("failed to read extracted frame: %w", err)
	}
	if got := img.Bounds().Size(); got.X != width || got.Y != height {
		return fmt.Errorf("expected %dx%d image, got %dx%d", width, height, got.X, got.Y)
	}
	return nil
}

func (f *frameContext) theResultShouldHaveNoImagePath() error {
	if f.result.ImagePath != "" {
		return fmt.Errorf("expected no image path, got %q", f.result.ImagePath)
	}
	return nil
}

func (f *frameContext) theVideoShouldNotHaveBeenOpened() error {
	if f.opener.openedPath != "" {
		return fmt.Errorf("expected video not to be opened, but %q was opened", f.opener.openedPath)
	}
	return nil
}
