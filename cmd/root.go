package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"video-frame-analyzer/infrastructure/config"
	"video-frame-analyzer/infrastructure/logging"
	"video-frame-analyzer/infrastructure/tracing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	cfgErr   error
	logger   *zap.Logger

	shutdownTracing tracing.Shutdown
)

var rootCmd = &cobra.Command{
	Use:   "video-frame-analyzer",
	Short: "Extract frames from a video and detect text in them",
	Long: `video-frame-analyzer gives an LLM agent three tools:

  - Extract a frame by its frame number
  - Extract the frame shown at a timestamp
  - Detect text in an image with OCR

Every tool returns a result with a status and either a report or an error message.

Example:
  VIDEO_FILE_NAME=lecture.mp4 video-frame-analyzer analyze --at 00:01:30`,
	SilenceUsage:       true,
	PersistentPreRunE:  initRuntime,
	PersistentPostRunE: shutdownRuntime,
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	// A missing file means defaults; only a malformed one is an error,
	// reported by the commands that need config.
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
	if cfgErr != nil {
		cfg = nil
		return
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}

func initRuntime(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" && cfg != nil {
		level = cfg.Logging.Level
	}

	var err error
	logger, err = logging.New(level)
	if err != nil {
		return err
	}

	endpoint := ""
	if cfg != nil {
		endpoint = cfg.Tracing.Endpoint
	}
	shutdownTracing, err = tracing.Init(cmd.Context(), endpoint)
	if err != nil {
		// non-fatal: commands still work without an exporter
		logger.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		shutdownTracing = nil
	}
	return nil
}

func shutdownRuntime(cmd *cobra.Command, args []string) error {
	if shutdownTracing != nil {
		if err := shutdownTracing(context.Background()); err != nil {
			GetLogger().Warn("tracing shutdown failed", zap.Error(err))
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return nil
}

// GetConfig returns the loaded configuration, or nil when the file is malformed
func GetConfig() *config.Config {
	return cfg
}

// requireConfig returns the configuration or the reason it is unavailable
func requireConfig() (*config.Config, error) {
	if cfg == nil {
		if cfgErr != nil {
			return nil, fmt.Errorf("configuration not loaded: %w", cfgErr)
		}
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// GetLogger returns the process logger, or a no-op logger before initialization
func GetLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
