package detection

import (
	"image"
	"strings"
	"testing"
)

func TestTextSpan_Line(t *testing.T) {
	tests := []struct {
		name string
		span TextSpan
		want string
	}{
		{
			name: "exit sign",
			span: TextSpan{Text: "EXIT", Confidence: 0.91, Box: RectBox(image.Rect(10, 20, 110, 60))},
			want: "'EXIT' (Confidence: 91.00%, Location: (10, 20) to (110, 60))",
		},
		{
			name: "fractional coordinates truncate",
			span: TextSpan{
				Text:       "Ieșire",
				Confidence: 0.4567,
				Box: [4]Point{
					{X: 5.9, Y: 7.2}, {X: 50.1, Y: 7.2}, {X: 50.8, Y: 19.99}, {X: 5.9, Y: 19.99},
				},
			},
			want: "'Ieșire' (Confidence: 45.67%, Location: (5, 7) to (50, 19))",
		},
		{
			name: "low confidence is still rendered",
			span: TextSpan{Text: "x", Confidence: 0.05, Box: RectBox(image.Rect(0, 0, 1, 1))},
			want: "'x' (Confidence: 5.00%, Location: (0, 0) to (1, 1))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Line(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	t.Run("no spans", func(t *testing.T) {
		if got := Report(nil); got != NoTextReport {
			t.Errorf("Report(nil) = %q, want %q", got, NoTextReport)
		}
	})

	t.Run("keeps engine order and count", func(t *testing.T) {
		spans := []TextSpan{
			{Text: "B", Confidence: 0.3, Box: RectBox(image.Rect(50, 50, 60, 60))},
			{Text: "A", Confidence: 0.99, Box: RectBox(image.Rect(0, 0, 10, 10))},
			{Text: "C", Confidence: 0.6, Box: RectBox(image.Rect(20, 0, 30, 10))},
		}

		got := Report(spans)
		lines := strings.Split(got, "\n")
		if lines[0] != "Detected text:" {
			t.Errorf("first line = %q, want header", lines[0])
		}
		if len(lines) != len(spans)+1 {
			t.Fatalf("got %d lines, want %d", len(lines), len(spans)+1)
		}
		for i, span := range spans {
			if lines[i+1] != span.Line() {
				t.Errorf("line %d = %q, want %q", i+1, lines[i+1], span.Line())
			}
		}
	})
}

func TestRectBox(t *testing.T) {
	box := RectBox(image.Rect(1, 2, 3, 4))
	want := [4]Point{{1, 2}, {3, 2}, {3, 4}, {1, 4}}
	if box != want {
		t.Errorf("RectBox() = %v, want %v", box, want)
	}
}
