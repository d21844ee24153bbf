package check

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // DecodeConfig in CheckDeps
	"runtime"

	"github.com/disintegration/imaging"

	"github.com/backmassage/imgconvert/internal/codec"
	"github.com/backmassage/imgconvert/internal/config"
)

// ErrCodecUnusable is returned by CheckDeps when the round trip fails.
var ErrCodecUnusable = errors.New("JPEG codec self-test failed")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: runtime, worker count,
// recognized extensions, and a codec round trip. It reports false when the
// codec is unusable.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	log.Info("Go: %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	log.Info("Workers: %d (CPUs: %d)", cfg.Workers, runtime.NumCPU())
	log.Info("Inputs: .png .jpg .jpeg (any case)")
	log.Info("Output: %s at JPEG quality %d", config.OutputExtension, cfg.JPEGQuality)

	if err := CheckDeps(cfg); err != nil {
		log.Error("%v", err)
		return false
	}
	log.Success("JPEG codec works (PNG -> JPEG round trip, transparency flattened)")
	return true
}

// CheckDeps encodes a small translucent test image through the same codec
// the pipeline uses, in memory, and verifies the result decodes as JPEG of
// the same size. It never touches the filesystem.
func CheckDeps(cfg *config.Config) error {
	var buf bytes.Buffer
	if err := codec.NewJPEG(cfg.JPEGQuality).Write(&buf, testImage()); err != nil {
		return fmt.Errorf("%w: %v", ErrCodecUnusable, err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil || format != "jpeg" {
		return fmt.Errorf("%w: output is not JPEG", ErrCodecUnusable)
	}
	img, err := imaging.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCodecUnusable, err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		return fmt.Errorf("%w: round trip changed size to %dx%d", ErrCodecUnusable, b.Dx(), b.Dy())
	}
	return nil
}

// testImage is a 16x16 gradient with a half-transparent lower half.
func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		alpha := uint8(255)
		if y >= 8 {
			alpha = 128
		}
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 96, A: alpha})
		}
	}
	return img
}
