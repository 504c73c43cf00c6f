package detection

import (
	"context"
	"time"

	"video-frame-analyzer/domain/detection"
	"video-frame-analyzer/domain/tool"
	"video-frame-analyzer/domain/video"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// unknownPrefix is prepended to unclassified detection errors
const unknownPrefix = "Error detecting text"

// Service runs OCR over images on disk
type Service struct {
	loader     detection.ImageLoader
	recognizer detection.Recognizer
	checker    video.FileChecker
	logger     *zap.Logger
}

// NewService creates a new detection service around an initialized recognizer
func NewService(loader detection.ImageLoader, recognizer detection.Recognizer, checker video.FileChecker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		loader:     loader,
		recognizer: recognizer,
		checker:    checker,
		logger:     logger,
	}
}

// Detect recognizes every text span in the image at imagePath.
// Spans of any confidence are reported; an empty image is a success.
func (s *Service) Detect(ctx context.Context, imagePath string) tool.Result {
	tracer := otel.Tracer("application/detection")
	ctx, span := tracer.Start(ctx, "Service.Detect")
	defer span.End()

	started := time.Now()
	log := s.logger.With(zap.String("image", imagePath))

	spans, err := s.detect(ctx, imagePath)
	if err != nil {
		result := tool.Failure(err, unknownPrefix)
		span.SetStatus(codes.Error, result.ErrorMessage)
		span.SetAttributes(attribute.String("error.kind", string(result.Kind)))
		log.Warn("text detection failed",
			zap.String("kind", string(result.Kind)),
			zap.Error(err),
			zap.Duration("duration", time.Since(started)),
		)
		return result
	}

	span.SetAttributes(attribute.Int("spans", len(spans)))
	log.Info("text detected",
		zap.Int("spans", len(spans)),
		zap.Duration("duration", time.Since(started)),
	)
	return tool.Success(detection.Report(spans), "")
}

func (s *Service) detect(ctx context.Context, imagePath string) ([]detection.TextSpan, error) {
	if !s.checker.Exists(imagePath) {
		return nil, tool.NotFoundf("Image file not found at: %s", imagePath)
	}

	img, err := s.loader.Load(imagePath)
	if err != nil {
		return nil, tool.Wrap(tool.Decodef("Failed to read image: %s", imagePath), err)
	}

	return s.recognizer.Recognize(ctx, img)
}
