//go:build vision

package opencv

import (
	"context"
	"fmt"
	"image"

	"video-frame-analyzer/domain/detection"
	"video-frame-analyzer/domain/video"

	"gocv.io/x/gocv"
)

// Opener implements video.Opener using GoCV video capture
type Opener struct{}

// NewOpener creates a GoCV-backed video opener
func NewOpener() (*Opener, error) {
	return &Opener{}, nil
}

// Open implements video.Opener
func (o *Opener) Open(ctx context.Context, path string) (video.Source, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video capture: %w", err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("video capture did not open: %s", path)
	}

	info := video.SourceInfo{
		FrameRate:  vc.Get(gocv.VideoCaptureFPS),
		FrameCount: int(vc.Get(gocv.VideoCaptureFrameCount)),
		Width:      int(vc.Get(gocv.VideoCaptureFrameWidth)),
		Height:     int(vc.Get(gocv.VideoCaptureFrameHeight)),
	}

	return &Source{capture: vc, info: info}, nil
}

// Source wraps an open capture handle. It is released by Close.
type Source struct {
	capture *gocv.VideoCapture
	info    video.SourceInfo
}

// Info implements video.Source
func (s *Source) Info() video.SourceInfo {
	return s.info
}

// ReadFrame implements video.Source by seeking to the frame position and decoding one frame
func (s *Source) ReadFrame(ctx context.Context, index int) (video.Frame, error) {
	if err := ctx.Err(); err != nil {
		return video.Frame{}, err
	}

	s.capture.Set(gocv.VideoCapturePosFrames, float64(index))

	mat := gocv.NewMat()
	defer mat.Close()
	if ok := s.capture.Read(&mat); !ok || mat.Empty() {
		return video.Frame{}, fmt.Errorf("no frame decoded at index %d", index)
	}

	img, err := bgrToImage(mat)
	if err != nil {
		return video.Frame{}, err
	}
	return video.Frame{Index: index, Image: img}, nil
}

// Close implements video.Source
func (s *Source) Close() error {
	return s.capture.Close()
}

// ImageLoader implements detection.ImageLoader using IMRead
type ImageLoader struct{}

// NewImageLoader creates a GoCV-backed image loader
func NewImageLoader() (*ImageLoader, error) {
	return &ImageLoader{}, nil
}

// Load implements detection.ImageLoader
func (l *ImageLoader) Load(path string) (image.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to load image: %s", path)
	}
	return bgrToImage(mat)
}

// bgrToImage permutes an 8-bit BGR mat into an RGBA image
func bgrToImage(mat gocv.Mat) (image.Image, error) {
	if mat.Channels() != 3 {
		return nil, fmt.Errorf("unsupported channel count %d", mat.Channels())
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(mat, &rgb, gocv.ColorBGRToRGB)

	w, h := rgb.Cols(), rgb.Rows()
	data := rgb.ToBytes()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, j := 0, 0; i+2 < len(data) && j+3 < len(img.Pix); i, j = i+3, j+4 {
		img.Pix[j] = data[i]
		img.Pix[j+1] = data[i+1]
		img.Pix[j+2] = data[i+2]
		img.Pix[j+3] = 0xff
	}
	return img, nil
}

// Ensure adapters implement their ports
var (
	_ video.Opener          = (*Opener)(nil)
	_ video.Source          = (*Source)(nil)
	_ detection.ImageLoader = (*ImageLoader)(nil)
)
