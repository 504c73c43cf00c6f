package video

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"video-frame-analyzer/domain/tool"
	"video-frame-analyzer/domain/video"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// unknownPrefix is prepended to unclassified extraction errors
const unknownPrefix = "Error extracting frame"

// SourceConfig names the video the extractor works on
type SourceConfig struct {
	// BaseDirectory is joined with FileName to locate the video
	BaseDirectory string

	// FileName is the configured video file name (VIDEO_FILE_NAME)
	FileName string
}

// FrameService extracts single frames from the configured video.
// Every call opens and closes its own source handle.
type FrameService struct {
	opener  video.Opener
	checker video.FileChecker
	writer  video.ArtifactWriter
	source  SourceConfig
	logger  *zap.Logger
}

// NewFrameService creates a new FrameService
func NewFrameService(opener video.Opener, checker video.FileChecker, writer video.ArtifactWriter, source SourceConfig, logger *zap.Logger) *FrameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FrameService{
		opener:  opener,
		checker: checker,
		writer:  writer,
		source:  source,
		logger:  logger,
	}
}

// ExtractByIndex extracts the frame with the given 0-based number
func (s *FrameService) ExtractByIndex(ctx context.Context, frameNumber int) tool.Result {
	return s.Extract(ctx, video.ByIndex{Frame: frameNumber})
}

// ExtractAt extracts the frame shown at the given time in seconds
func (s *FrameService) ExtractAt(ctx context.Context, seconds float64) tool.Result {
	return s.Extract(ctx, video.ByTimestamp{Seconds: seconds})
}

// Extract runs the open/seek/decode/write sequence for a seek strategy.
// It never returns an error: every failure becomes an error result.
func (s *FrameService) Extract(ctx context.Context, seek video.Seek) tool.Result {
	tracer := otel.Tracer("application/video")
	ctx, span := tracer.Start(ctx, "FrameService.Extract")
	defer span.End()

	started := time.Now()
	log := s.logger.With(zap.String("artifact", seek.ArtifactName()))

	report, artifactPath, err := s.extract(ctx, seek)
	if err != nil {
		result := tool.Failure(err, unknownPrefix)
		span.SetStatus(codes.Error, result.ErrorMessage)
		span.SetAttributes(attribute.String("error.kind", string(result.Kind)))
		log.Warn("frame extraction failed",
			zap.String("kind", string(result.Kind)),
			zap.Error(err),
			zap.Duration("duration", time.Since(started)),
		)
		return result
	}

	span.SetAttributes(attribute.String("artifact.path", artifactPath))
	log.Info("frame extracted",
		zap.String("path", artifactPath),
		zap.Duration("duration", time.Since(started)),
	)
	return tool.Success(report, artifactPath)
}

// VideoPath resolves the configured video path, failing with ConfigError when unset
func (s *FrameService) VideoPath() (string, error) {
	if s.source.FileName == "" {
		return "", tool.Configf("VIDEO_FILE_NAME not found in environment variables")
	}
	return filepath.Join(s.source.BaseDirectory, s.source.FileName), nil
}

func (s *FrameService) extract(ctx context.Context, seek video.Seek) (string, string, error) {
	videoPath, err := s.VideoPath()
	if err != nil {
		return "", "", err
	}

	if !s.checker.Exists(videoPath) {
		return "", "", tool.NotFoundf("Video file not found at: %s", videoPath)
	}

	src, err := s.opener.Open(ctx, videoPath)
	if err != nil {
		return "", "", tool.Wrap(tool.Decodef("Failed to open video: %s", videoPath), err)
	}
	defer src.Close()

	info := src.Info()
	if info.FrameRate <= 0 {
		return "", "", tool.Wrap(tool.Decodef("Failed to open video: %s", videoPath),
			fmt.Errorf("invalid frame rate %v", info.FrameRate))
	}
	s.logger.Debug("video opened",
		zap.String("path", videoPath),
		zap.Float64("fps", info.FrameRate),
		zap.Int("frames", info.FrameCount),
	)

	index, err := seek.FrameIndex(info)
	if err != nil {
		return "", "", err
	}

	frame, err := src.ReadFrame(ctx, index)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", "", ctxErr
		}
		return "", "", tool.Wrap(tool.Decodef("%s", seek.DecodeFailure()), err)
	}
	frame.Index = index

	artifactPath, err := s.writer.Write(seek.ArtifactName(), frame)
	if err != nil {
		return "", "", err
	}

	return seek.Report(frame, videoPath, artifactPath), artifactPath, nil
}
