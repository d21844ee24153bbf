// Package codec decodes source images and re-encodes them as JPEG using
// disintegration/imaging.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// Sentinel errors wrapped by [JPEG.Decode] and [JPEG.Encode].
var (
	ErrDecode = errors.New("decode failed")
	ErrEncode = errors.New("encode failed")
)

// JPEG decodes any format registered with the image package and writes
// baseline JPEG at a fixed quality. Images with transparency are flattened
// onto Background first, since JPEG has no alpha channel.
type JPEG struct {
	Quality    int
	Background color.Color
}

// NewJPEG returns a JPEG codec at quality with a white background.
func NewJPEG(quality int) JPEG {
	return JPEG{Quality: quality, Background: color.White}
}

// Decode reads and decodes the image at path, applying any EXIF orientation
// so the re-encoded pixels display the same way.
func (c JPEG) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

// Encode writes img to dst as JPEG, truncating any existing file. On
// failure the partial file is removed.
func (c JPEG) Encode(img image.Image, dst string) (err error) {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrEncode, cerr)
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	return c.Write(f, img)
}

// Write encodes img as JPEG onto w.
func (c JPEG) Write(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, c.flatten(img), imaging.JPEG, imaging.JPEGQuality(c.Quality)); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// flatten composites img over the background when it is not fully opaque.
func (c JPEG) flatten(img image.Image) image.Image {
	o, ok := img.(interface{ Opaque() bool })
	if !ok || o.Opaque() {
		return img
	}
	bg := c.Background
	if bg == nil {
		bg = color.White
	}
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
