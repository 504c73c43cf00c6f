package cmd

import (
	"fmt"
	"image/png"

	"video-frame-analyzer/application/agent"
	appdetection "video-frame-analyzer/application/detection"
	appvideo "video-frame-analyzer/application/video"
	"video-frame-analyzer/domain/detection"
	"video-frame-analyzer/domain/video"
	"video-frame-analyzer/infrastructure/config"
	"video-frame-analyzer/infrastructure/ffmpeg"
	"video-frame-analyzer/infrastructure/filesystem"
	"video-frame-analyzer/infrastructure/imaging"
	"video-frame-analyzer/infrastructure/metrics"
	"video-frame-analyzer/infrastructure/ocr"
	"video-frame-analyzer/infrastructure/opencv"

	"go.uber.org/zap"
)

// newOpener returns the video decoder selected by video.backend
func newOpener(cfg *config.Config) (video.Opener, error) {
	switch cfg.Video.Backend {
	case "", config.DefaultVideoBackend:
		return ffmpeg.NewOpener(
			ffmpeg.WithFFmpegPath(cfg.Video.FFmpegPath),
			ffmpeg.WithFFprobePath(cfg.Video.FFprobePath),
		), nil
	case "opencv":
		o, err := opencv.NewOpener()
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unknown video backend %q", cfg.Video.Backend)
	}
}

// newImageLoader uses OpenCV's reader when OpenCV decodes video, the Go decoders otherwise
func newImageLoader(cfg *config.Config) (detection.ImageLoader, error) {
	if cfg.Video.Backend == "opencv" {
		l, err := opencv.NewImageLoader()
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return imaging.NewLoader(), nil
}

// newFrameService wires the frame extractor from config
func newFrameService(cfg *config.Config, logger *zap.Logger) (*appvideo.FrameService, error) {
	opener, err := newOpener(cfg)
	if err != nil {
		return nil, err
	}

	writer := imaging.NewPNGWriter(cfg.Artifacts.Directory, imaging.WithCompression(png.BestSpeed))
	source := appvideo.SourceConfig{
		BaseDirectory: cfg.Video.BaseDirectory,
		FileName:      cfg.Video.FileName,
	}
	return appvideo.NewFrameService(opener, filesystem.NewChecker(), writer, source, logger), nil
}

// newDetectService wires the OCR service. The caller closes the returned recognizer.
func newDetectService(cfg *config.Config, logger *zap.Logger) (*appdetection.Service, detection.Recognizer, error) {
	loader, err := newImageLoader(cfg)
	if err != nil {
		return nil, nil, err
	}

	recognizer, err := ocr.New(cfg.OCR.Backend, cfg.OCR.TesseractPath, cfg.OCR.Languages)
	if err != nil {
		return nil, nil, err
	}

	return appdetection.NewService(loader, recognizer, filesystem.NewChecker(), logger), recognizer, nil
}

// newRegistry wires every built-in tool into a registry.
// The returned close func releases the OCR engine.
func newRegistry(cfg *config.Config, logger *zap.Logger) (*agent.Registry, func() error, error) {
	frames, err := newFrameService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	text, recognizer, err := newDetectService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	recorder := metrics.NewRecorder()
	registry := agent.NewRegistry(
		agent.WithRecorder(recorder),
		agent.WithLogger(logger),
	)
	if err := agent.RegisterBuiltins(registry, frames, text); err != nil {
		recognizer.Close()
		return nil, nil, err
	}

	names := make([]string, 0, len(registry.List()))
	for _, d := range registry.List() {
		names = append(names, d.Name)
	}
	recorder.Preregister(names...)

	return registry, recognizer.Close, nil
}
