package cmd

import (
	"context"

	"video-frame-analyzer/application/agent"

	"github.com/spf13/cobra"
)

var (
	detectImagePath string
	detectJSON      bool
)

var detectTextCmd = &cobra.Command{
	Use:   "detect-text",
	Short: "Detect text in an image with OCR",
	Long: `Run OCR over an image and print every text span with its confidence
and location. Spans of any confidence are reported.

Examples:
  video-frame-analyzer detect-text --image /tmp/frame_42.png
  video-frame-analyzer detect-text --image slide.jpg --json`,
	RunE: runDetectText,
}

func init() {
	rootCmd.AddCommand(detectTextCmd)
	detectTextCmd.Flags().StringVar(&detectImagePath, "image", "", "Path to the image (required)")
	detectTextCmd.Flags().BoolVar(&detectJSON, "json", false, "Print the result mapping as JSON")
	detectTextCmd.MarkFlagRequired("image")
}

func runDetectText(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	service, recognizer, err := newDetectService(cfg, GetLogger())
	if err != nil {
		return err
	}
	defer recognizer.Close()

	return RunDetectTextWithDependencies(cmd.Context(), service, detectImagePath, detectJSON, DefaultOutput)
}

// RunDetectTextWithDependencies runs the detect-text command with injected dependencies (for testing)
func RunDetectTextWithDependencies(
	ctx context.Context,
	detector agent.TextDetector,
	imagePath string,
	jsonOut bool,
	output OutputWriter,
) error {
	return writeResult(output, detector.Detect(ctx, imagePath), jsonOut)
}
