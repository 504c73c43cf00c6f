package cmd

import (
	"context"
	"fmt"

	"video-frame-analyzer/application/agent"
	"video-frame-analyzer/domain/tool"
	"video-frame-analyzer/infrastructure/imaging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzeFrameNumber int
	analyzeAt          string
	analyzeJSON        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract a frame and detect text in it",
	Long: `Extract one frame from the configured video, then run OCR over the
saved image. This is the two-step composition the agent performs.

Examples:
  video-frame-analyzer analyze --frame 120
  video-frame-analyzer analyze --at 00:00:04.5 --json`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&analyzeFrameNumber, "frame", 0, "Frame number to analyze (0-based)")
	analyzeCmd.Flags().StringVar(&analyzeAt, "at", "", "Timestamp in seconds or HH:MM:SS[.fff]")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print both result mappings as JSON")
	analyzeCmd.MarkFlagsMutuallyExclusive("frame", "at")
	analyzeCmd.MarkFlagsOneRequired("frame", "at")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	frames, err := newFrameService(cfg, GetLogger())
	if err != nil {
		return err
	}
	text, recognizer, err := newDetectService(cfg, GetLogger())
	if err != nil {
		return err
	}
	defer recognizer.Close()

	req := FrameRequest{Frame: analyzeFrameNumber, At: analyzeAt, ByTime: cmd.Flags().Changed("at")}
	GetLogger().Debug("analyzing frame", zap.Stringer("request", req))
	return RunAnalyzeWithDependencies(cmd.Context(), frames, text, imaging.NewLoader(), req, analyzeJSON, DefaultOutput)
}

// Fingerprinter computes a perceptual hash of an image file
type Fingerprinter interface {
	Fingerprint(path string) (string, error)
}

// AnalyzeResult pairs the extraction result with the detection result.
// Text is nil when extraction failed. Fingerprint is empty when the frame
// could not be hashed.
type AnalyzeResult struct {
	Frame       tool.Result  `json:"frame"`
	Fingerprint string       `json:"fingerprint,omitempty"`
	Text        *tool.Result `json:"text,omitempty"`
}

// RunAnalyzeWithDependencies runs the analyze command with injected dependencies (for testing)
func RunAnalyzeWithDependencies(
	ctx context.Context,
	extractor agent.FrameExtractor,
	detector agent.TextDetector,
	fingerprinter Fingerprinter,
	req FrameRequest,
	jsonOut bool,
	output OutputWriter,
) error {
	var result AnalyzeResult
	result.Frame = req.extract(ctx, extractor)
	if result.Frame.OK() {
		if fingerprinter != nil {
			result.Fingerprint, _ = fingerprinter.Fingerprint(result.Frame.ImagePath)
		}
		text := detector.Detect(ctx, result.Frame.ImagePath)
		result.Text = &text
	}

	if jsonOut {
		if err := writeJSON(output, result); err != nil {
			return err
		}
		if !result.Frame.OK() || !result.Text.OK() {
			return ErrToolFailed
		}
		return nil
	}

	if err := writeResult(output, result.Frame, false); err != nil {
		return err
	}
	if result.Fingerprint != "" {
		fmt.Fprintf(output, "Fingerprint: %s\n", result.Fingerprint)
	}
	fmt.Fprintln(output)
	return writeResult(output, *result.Text, false)
}
