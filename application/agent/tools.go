package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"video-frame-analyzer/domain/tool"
	"video-frame-analyzer/domain/video"
)

// Built-in tool names
const (
	ToolExtractFrame   = "extract_frame"
	ToolExtractFrameAt = "extract_frame_at"
	ToolDetectText     = "detect_text"
)

// FrameExtractor extracts frames from the configured video
type FrameExtractor interface {
	ExtractByIndex(ctx context.Context, frameNumber int) tool.Result
	ExtractAt(ctx context.Context, seconds float64) tool.Result
}

// TextDetector runs OCR over an image file
type TextDetector interface {
	Detect(ctx context.Context, imagePath string) tool.Result
}

var (
	extractFrameSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "frame_number": {"type": "integer", "description": "Zero-based index of the frame to extract"}
  },
  "required": ["frame_number"],
  "additionalProperties": false
}`)

	extractFrameAtSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "timestamp": {
      "type": ["number", "string"],
      "description": "Position in seconds, or HH:MM:SS[.fff]"
    }
  },
  "required": ["timestamp"],
  "additionalProperties": false
}`)

	detectTextSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "image_path": {"type": "string", "description": "Path of the image to analyze"}
  },
  "required": ["image_path"],
  "additionalProperties": false
}`)
)

// RegisterBuiltins adds the frame extraction and text detection tools
func RegisterBuiltins(r *Registry, frames FrameExtractor, text TextDetector) error {
	builtins := []struct {
		descriptor ToolDescriptor
		handler    Handler
	}{
		{
			descriptor: ToolDescriptor{
				Name:        ToolExtractFrame,
				Description: "Extract a specific frame from the video by its frame number and save it as an image.",
				InputSchema: extractFrameSchema,
			},
			handler: extractFrameHandler(frames),
		},
		{
			descriptor: ToolDescriptor{
				Name:        ToolExtractFrameAt,
				Description: "Extract the frame shown at a timestamp (in seconds) from the video and save it as an image.",
				InputSchema: extractFrameAtSchema,
			},
			handler: extractFrameAtHandler(frames),
		},
		{
			descriptor: ToolDescriptor{
				Name:        ToolDetectText,
				Description: "Detect text in an image using OCR and report each span with its confidence and location.",
				InputSchema: detectTextSchema,
			},
			handler: detectTextHandler(text),
		},
	}

	for _, b := range builtins {
		if err := r.Register(b.descriptor, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func extractFrameHandler(frames FrameExtractor) Handler {
	return func(ctx context.Context, args json.RawMessage) tool.Result {
		var in struct {
			FrameNumber json.Number `json:"frame_number"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return tool.Failure(err, "Error extracting frame")
		}

		frameNumber, err := frameNumberArg(in.FrameNumber)
		if err != nil {
			return tool.Failure(err, "Error extracting frame")
		}
		return frames.ExtractByIndex(ctx, frameNumber)
	}
}

func extractFrameAtHandler(frames FrameExtractor) Handler {
	return func(ctx context.Context, args json.RawMessage) tool.Result {
		var in struct {
			Timestamp json.RawMessage `json:"timestamp"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return tool.Failure(err, "Error extracting frame")
		}

		seconds, err := timestampArg(in.Timestamp)
		if err != nil {
			return tool.Failure(err, "Error extracting frame")
		}
		return frames.ExtractAt(ctx, seconds)
	}
}

func detectTextHandler(text TextDetector) Handler {
	return func(ctx context.Context, args json.RawMessage) tool.Result {
		var in struct {
			ImagePath string `json:"image_path"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return tool.Failure(err, "Error detecting text")
		}
		return text.Detect(ctx, in.ImagePath)
	}
}

// frameNumberArg converts a schema-valid integer literal to an int.
// Literals outside the int range saturate at math.MinInt or math.MaxInt, so
// they still fail the range check on the correct side.
func frameNumberArg(n json.Number) (int, error) {
	if v, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		if v > math.MaxInt {
			return math.MaxInt, nil
		}
		if v < math.MinInt {
			return math.MinInt, nil
		}
		return int(v), nil
	}

	// exponent forms such as 1e3 or 5.0, and integers beyond int64
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("invalid frame_number %q", n.String())
	}
	switch {
	case f >= float64(math.MaxInt):
		return math.MaxInt, nil
	case f <= float64(math.MinInt):
		return math.MinInt, nil
	default:
		return int(f), nil
	}
}

// timestampArg accepts a JSON number of seconds or a timestamp string
func timestampArg(raw json.RawMessage) (float64, error) {
	var seconds float64
	if err := json.Unmarshal(raw, &seconds); err == nil {
		return seconds, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("timestamp must be a number or string")
	}
	return video.ParseSeconds(s)
}
