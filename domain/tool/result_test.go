package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		prefix   string
		wantKind Kind
		wantMsg  string
	}{
		{
			name:     "config error keeps message",
			err:      Configf("VIDEO_FILE_NAME not found in environment variables"),
			prefix:   "Error extracting frame",
			wantKind: KindConfig,
			wantMsg:  "VIDEO_FILE_NAME not found in environment variables",
		},
		{
			name:     "wrapped range error is found",
			err:      fmt.Errorf("seek: %w", Rangef("Frame number %d exceeds total frames %d", 10, 5)),
			prefix:   "Error extracting frame",
			wantKind: KindRange,
			wantMsg:  "Frame number 10 exceeds total frames 5",
		},
		{
			name:     "decode error with cause keeps message only",
			err:      Wrap(Decodef("Failed to read image: %s", "/tmp/x.png"), errors.New("png: invalid format")),
			wantKind: KindDecode,
			wantMsg:  "Failed to read image: /tmp/x.png",
		},
		{
			name:     "plain error becomes unknown with prefix",
			err:      errors.New("disk full"),
			prefix:   "Error extracting frame",
			wantKind: KindUnknown,
			wantMsg:  "Error extracting frame: disk full",
		},
		{
			name:     "plain error without prefix",
			err:      errors.New("boom"),
			wantKind: KindUnknown,
			wantMsg:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Failure(tt.err, tt.prefix)
			if got.Status != StatusError {
				t.Errorf("Failure() status = %q, want %q", got.Status, StatusError)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Failure() kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if got.ErrorMessage != tt.wantMsg {
				t.Errorf("Failure() message = %q, want %q", got.ErrorMessage, tt.wantMsg)
			}
			if got.OK() {
				t.Error("Failure() result should not be OK")
			}
		})
	}
}

func TestResult_JSON(t *testing.T) {
	t.Run("success with image path", func(t *testing.T) {
		data, err := json.Marshal(Success("done", "/tmp/frame_3.png"))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		want := `{"status":"success","report":"done","image_path":"/tmp/frame_3.png"}`
		if string(data) != want {
			t.Errorf("got %s, want %s", data, want)
		}
	})

	t.Run("error omits report and kind", func(t *testing.T) {
		data, err := json.Marshal(Failure(NotFoundf("Image file not found at: %s", "a.png"), ""))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		want := `{"status":"error","error_message":"Image file not found at: a.png"}`
		if string(data) != want {
			t.Errorf("got %s, want %s", data, want)
		}
	})
}

func TestResult_Message(t *testing.T) {
	if got := Success("report", "").Message(); got != "report" {
		t.Errorf("Message() = %q, want %q", got, "report")
	}
	if got := Failure(errors.New("x"), "").Message(); got != "x" {
		t.Errorf("Message() = %q, want %q", got, "x")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(Decodef("bad"), cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Error() != "DecodeError: bad: cause" {
		t.Errorf("Error() = %q", err.Error())
	}
}
