package cmd

import (
	"context"
	"fmt"

	"video-frame-analyzer/application/agent"
	"video-frame-analyzer/domain/tool"
	"video-frame-analyzer/domain/video"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	extractFrameNumber int
	extractAt          string
	extractJSON        bool
)

var extractFrameCmd = &cobra.Command{
	Use:   "extract-frame",
	Short: "Extract one frame from the configured video",
	Long: `Extract a single frame from the configured video and save it as a PNG.

The video is VIDEO_FILE_NAME (or video.file_name) inside video.base_directory.
Select the frame by number (0-based) or by timestamp in seconds or HH:MM:SS.

Examples:
  video-frame-analyzer extract-frame --frame 42
  video-frame-analyzer extract-frame --at 2.5
  video-frame-analyzer extract-frame --at 00:01:30 --json`,
	RunE: runExtractFrame,
}

func init() {
	rootCmd.AddCommand(extractFrameCmd)
	extractFrameCmd.Flags().IntVar(&extractFrameNumber, "frame", 0, "Frame number to extract (0-based)")
	extractFrameCmd.Flags().StringVar(&extractAt, "at", "", "Timestamp in seconds or HH:MM:SS[.fff]")
	extractFrameCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the result mapping as JSON")
	extractFrameCmd.MarkFlagsMutuallyExclusive("frame", "at")
	extractFrameCmd.MarkFlagsOneRequired("frame", "at")
}

func runExtractFrame(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	service, err := newFrameService(cfg, GetLogger())
	if err != nil {
		return err
	}

	req := FrameRequest{Frame: extractFrameNumber, At: extractAt, ByTime: cmd.Flags().Changed("at")}
	GetLogger().Debug("extracting frame", zap.Stringer("request", req))
	return RunExtractFrameWithDependencies(cmd.Context(), service, req, extractJSON, DefaultOutput)
}

// FrameRequest selects a frame by number or by timestamp
type FrameRequest struct {
	Frame  int
	At     string
	ByTime bool
}

// String describes the requested position for logging. Clock timestamps
// are normalized, so "00:01:05.50" reads as "00:01:05.5".
func (r FrameRequest) String() string {
	if r.ByTime {
		if ts, err := video.ParseTimestamp(r.At); err == nil {
			return "at " + ts.String()
		}
		return "at " + r.At
	}
	return fmt.Sprintf("#%d", r.Frame)
}

// extract dispatches to the matching extractor operation.
// An unparseable timestamp fails like any other unclassified error.
func (r FrameRequest) extract(ctx context.Context, extractor agent.FrameExtractor) tool.Result {
	if !r.ByTime {
		return extractor.ExtractByIndex(ctx, r.Frame)
	}

	seconds, err := video.ParseSeconds(r.At)
	if err != nil {
		return tool.Failure(err, "Error extracting frame")
	}
	return extractor.ExtractAt(ctx, seconds)
}

// RunExtractFrameWithDependencies runs the extract-frame command with injected dependencies (for testing)
func RunExtractFrameWithDependencies(
	ctx context.Context,
	extractor agent.FrameExtractor,
	req FrameRequest,
	jsonOut bool,
	output OutputWriter,
) error {
	return writeResult(output, req.extract(ctx, extractor), jsonOut)
}
