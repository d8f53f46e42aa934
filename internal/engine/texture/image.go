// Package texture decodes image files into tightly packed RGB buffers ready
// for OpenGL upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	// Registered decoders.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

var (
	ErrEmptyImage        = errors.New("image has no pixels")
	ErrShortPixels       = errors.New("pixel buffer shorter than width*height*3")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Image is an 8-bit RGB image. Rows are stored bottom row first, the order
// glTexImage2D expects, with no padding between rows.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// Validate reports whether the buffer can back a Width x Height RGB texture.
func (img *Image) Validate() error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return ErrEmptyImage
	}
	if need := img.Width * img.Height * 3; len(img.Pix) < need {
		return fmt.Errorf("%dx%d needs %d bytes, have %d: %w", img.Width, img.Height, need, len(img.Pix), ErrShortPixels)
	}
	return nil
}

// RGB returns the color at x, y where y=0 is the bottom row.
func (img *Image) RGB(x, y int) (r, g, b uint8) {
	i := (y*img.Width + x) * 3
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// Decode decodes BMP, PNG, JPEG or TGA data. The name is used only to detect
// TGA, which has no magic number, and to label errors.
func Decode(data []byte, name string) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode %s: %w", name, ErrEmptyImage)
	}

	var (
		src image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		src, err = DecodeTGA(data)
	} else {
		src, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	img := FromImage(src)
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// FromImage converts any image to RGB, flipping it so the bottom row comes first.
// Alpha is dropped.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img := &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]byte, b.Dx()*b.Dy()*3),
	}

	i := 0
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			img.Pix[i] = uint8(r >> 8)
			img.Pix[i+1] = uint8(g >> 8)
			img.Pix[i+2] = uint8(bl >> 8)
			i += 3
		}
	}
	return img
}

// Solid returns a width x height image filled with one color. Used for
// placeholder material textures.
func Solid(width, height int, r, g, b uint8) *Image {
	img := &Image{Width: width, Height: height, Pix: make([]byte, width*height*3)}
	for i := 0; i < len(img.Pix); i += 3 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
	}
	return img
}
