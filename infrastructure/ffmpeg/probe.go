package ffmpeg

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"video-frame-analyzer/domain/video"
)

// probeOutput is the subset of `ffprobe -of json` output we read
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
}

// probeArgs returns the ffprobe arguments that describe the first video stream
func probeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate,r_frame_rate,nb_frames,duration:format=duration",
		"-of", "json",
		path,
	}
}

// parseProbe converts ffprobe JSON into SourceInfo.
// Containers without nb_frames get a count derived from duration * fps.
func parseProbe(data []byte) (video.SourceInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return video.SourceInfo{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return video.SourceInfo{}, errors.New("no video stream found")
	}

	st := out.Streams[0]
	fps, err := parseRate(st.AvgFrameRate)
	if err != nil || fps <= 0 {
		fps, err = parseRate(st.RFrameRate)
		if err != nil {
			return video.SourceInfo{}, fmt.Errorf("invalid frame rate: %w", err)
		}
	}
	if fps <= 0 {
		return video.SourceInfo{}, errors.New("video stream reports no frame rate")
	}

	count, err := strconv.Atoi(st.NbFrames)
	if err != nil || count <= 0 {
		duration := parseDuration(st.Duration)
		if duration <= 0 {
			duration = parseDuration(out.Format.Duration)
		}
		count = int(math.Floor(duration*fps + 0.5))
	}

	return video.SourceInfo{
		FrameRate:  fps,
		FrameCount: count,
		Width:      st.Width,
		Height:     st.Height,
	}, nil
}

// parseRate parses an ffprobe rational such as "30000/1001"
func parseRate(s string) (float64, error) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	if d == 0 {
		return 0, nil
	}
	return n / d, nil
}

func parseDuration(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
