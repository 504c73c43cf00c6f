package video

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Timestamp represents a video position in HH:MM:SS[.fff] format
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds float64
}

// timestampRegex matches HH:MM:SS with optional fractional seconds
var timestampRegex = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}(?:\.\d+)?)$`)

// ParseTimestamp parses a timestamp string in HH:MM:SS[.fff] format
func ParseTimestamp(s string) (Timestamp, error) {
	matches := timestampRegex.FindStringSubmatch(s)
	if matches == nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp format %q: expected HH:MM:SS", s)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.ParseFloat(matches[3], 64)

	if minutes > 59 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: minutes must be 0-59", s)
	}
	if seconds >= 60 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: seconds must be 0-59", s)
	}

	return Timestamp{
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
	}, nil
}

// ParseSeconds accepts either a plain number of seconds ("2.5", "-1")
// or an HH:MM:SS[.fff] timestamp and returns seconds.
// Range checks are left to the extractor so they surface as RangeError.
func ParseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("timestamp is required")
	}

	if !strings.Contains(s, ":") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: expected seconds or HH:MM:SS", s)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid timestamp %q: must be a finite number", s)
		}
		return v, nil
	}

	ts, err := ParseTimestamp(s)
	if err != nil {
		return 0, err
	}
	return ts.TotalSeconds(), nil
}

// String returns the timestamp in HH:MM:SS format, with a fraction when present
func (t Timestamp) String() string {
	whole := int(t.Seconds)
	frac := t.Seconds - float64(whole)
	if frac == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, whole)
	}
	fraction := strings.TrimPrefix(strconv.FormatFloat(frac, 'f', -1, 64), "0")
	return fmt.Sprintf("%02d:%02d:%02d%s", t.Hours, t.Minutes, whole, fraction)
}

// TotalSeconds returns the timestamp as total seconds
func (t Timestamp) TotalSeconds() float64 {
	return float64(t.Hours*3600+t.Minutes*60) + t.Seconds
}
