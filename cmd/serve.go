package cmd

import (
	"context"
	"time"

	"video-frame-analyzer/application/agent"
	"video-frame-analyzer/infrastructure/config"
	"video-frame-analyzer/infrastructure/ffmpeg"
	"video-frame-analyzer/infrastructure/httpapi"
	"video-frame-analyzer/infrastructure/ocr"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the agent tools over HTTP",
	Long: `Start an HTTP server exposing the agent manifest and tools.

Routes:
  GET  /v1/agent          agent manifest
  GET  /v1/tools          tool descriptors
  POST /v1/tools/:name    call a tool with a JSON body
  GET  /healthz           liveness
  GET  /metrics           Prometheus metrics

Example:
  video-frame-analyzer serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	log := GetLogger()
	registry, closeFn, err := newRegistry(cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	verifyBackends(cmd.Context(), cfg, log)

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Address
	}

	gin.SetMode(gin.ReleaseMode)
	manifest := agent.NewManifest(cfg.Agent.Name, cfg.Agent.Model, registry)
	server := httpapi.NewServer(addr, registry, manifest, log)

	return RunServeWithDependencies(cmd.Context(), server)
}

// Runner is a blocking server that stops when ctx ends
type Runner interface {
	Run(ctx context.Context) error
}

// RunServeWithDependencies runs the server until ctx is cancelled (for testing)
func RunServeWithDependencies(ctx context.Context, server Runner) error {
	return server.Run(ctx)
}

// verifyBackends warns at startup about missing executables. Calls would
// still fail individually with their own error results.
func verifyBackends(ctx context.Context, cfg *config.Config, log *zap.Logger) {
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if cfg.Video.Backend == "" || cfg.Video.Backend == config.DefaultVideoBackend {
		opener := ffmpeg.NewOpener(
			ffmpeg.WithFFmpegPath(cfg.Video.FFmpegPath),
			ffmpeg.WithFFprobePath(cfg.Video.FFprobePath),
		)
		if err := opener.VerifyInstalled(verifyCtx); err != nil {
			log.Warn("video backend not ready", zap.Error(err))
		}
	}

	if cfg.OCR.Backend == "" || cfg.OCR.Backend == ocr.BackendTesseract {
		tess := ocr.NewTesseract(
			ocr.WithTesseractPath(cfg.OCR.TesseractPath),
			ocr.WithLanguages(cfg.OCR.Languages...),
		)
		if err := tess.VerifyInstalled(verifyCtx); err != nil {
			log.Warn("OCR backend not ready", zap.Error(err))
		} else {
			log.Info("OCR backend ready", zap.Strings("languages", tess.Languages()))
		}
	}
}
