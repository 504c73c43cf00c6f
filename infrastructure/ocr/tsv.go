package ocr

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"strconv"
	"strings"

	"video-frame-analyzer/domain/detection"
)

// TSV levels emitted by tesseract
const (
	levelLine = 4
	levelWord = 5
)

type lineKey struct {
	page, block, par, line int
}

type lineAcc struct {
	box     image.Rectangle
	hasBox  bool
	words   []string
	confSum float64
}

// ParseTSV groups tesseract TSV word rows into line-level spans.
// Line order follows the engine. Confidence is the mean word confidence scaled to 0..1.
func ParseTSV(data []byte) ([]detection.TextSpan, error) {
	var order []lineKey
	lines := make(map[lineKey]*lineAcc)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	header := true
	for scanner.Scan() {
		row := scanner.Text()
		if header {
			header = false
			if strings.HasPrefix(row, "level") {
				continue
			}
		}
		if strings.TrimSpace(row) == "" {
			continue
		}

		fields := strings.Split(row, "\t")
		if len(fields) < 11 {
			return nil, fmt.Errorf("malformed tsv row: %q", row)
		}
		nums := make([]int, 10)
		for i := 0; i < 10; i++ {
			n, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, fmt.Errorf("malformed tsv row: %q", row)
			}
			nums[i] = n
		}
		level := nums[0]
		if level != levelLine && level != levelWord {
			continue
		}

		key := lineKey{page: nums[1], block: nums[2], par: nums[3], line: nums[4]}
		acc, ok := lines[key]
		if !ok {
			acc = &lineAcc{}
			lines[key] = acc
			order = append(order, key)
		}

		rect := image.Rect(nums[6], nums[7], nums[6]+nums[8], nums[7]+nums[9])
		if level == levelLine {
			acc.box = rect
			acc.hasBox = true
			continue
		}

		text := ""
		if len(fields) > 11 {
			text = strings.TrimSpace(fields[11])
		}
		if text == "" {
			continue
		}
		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed tsv confidence: %q", fields[10])
		}
		acc.words = append(acc.words, text)
		acc.confSum += conf
		if !acc.hasBox {
			acc.box = acc.box.Union(rect)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tsv: %w", err)
	}

	var spans []detection.TextSpan
	for _, key := range order {
		acc := lines[key]
		if len(acc.words) == 0 {
			continue
		}
		spans = append(spans, detection.TextSpan{
			Text:       strings.Join(acc.words, " "),
			Confidence: acc.confSum / float64(len(acc.words)) / 100,
			Box:        detection.RectBox(acc.box),
		})
	}
	return spans, nil
}
