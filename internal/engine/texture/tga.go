package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

const tgaHeaderSize = 18

// DecodeTGA decodes an uncompressed or RLE true-color TGA file (24 or 32 bpp).
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("tga: %d bytes is shorter than the header", len(data))
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	switch {
	case colorMapType != 0:
		return nil, fmt.Errorf("tga: color-mapped images: %w", ErrUnsupportedFormat)
	case imageType != TGATypeUncompressed && imageType != TGATypeRLE:
		return nil, fmt.Errorf("tga: image type %d: %w", imageType, ErrUnsupportedFormat)
	case bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("tga: %d bits per pixel: %w", bpp, ErrUnsupportedFormat)
	case width == 0 || height == 0:
		return nil, fmt.Errorf("tga: %dx%d: %w", width, height, ErrEmptyImage)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga: id field truncated: %w", ErrShortPixels)
	}

	d := &tgaDecoder{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		bpp:         bpp / 8,
		topToBottom: topToBottom,
	}
	var err error
	if imageType == TGATypeUncompressed {
		err = d.raw()
	} else {
		err = d.rle()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.NRGBA
	src         []byte
	pos         int
	bpp         int
	topToBottom bool
	next        int
}

// pixel reads one BGR(A) value.
func (d *tgaDecoder) pixel() (color.NRGBA, bool) {
	if d.pos+d.bpp > len(d.src) {
		return color.NRGBA{}, false
	}
	p := d.src[d.pos : d.pos+d.bpp]
	d.pos += d.bpp
	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bpp == 4 {
		c.A = p[3]
	}
	return c, true
}

// put stores c at the next pixel in file order. TGA rows are bottom-up unless
// the descriptor says otherwise.
func (d *tgaDecoder) put(c color.NRGBA) {
	w := d.img.Rect.Dx()
	h := d.img.Rect.Dy()
	x, y := d.next%w, d.next/w
	if !d.topToBottom {
		y = h - 1 - y
	}
	d.img.SetNRGBA(x, y, c)
	d.next++
}

func (d *tgaDecoder) total() int {
	return d.img.Rect.Dx() * d.img.Rect.Dy()
}

func (d *tgaDecoder) raw() error {
	for d.next < d.total() {
		c, ok := d.pixel()
		if !ok {
			return fmt.Errorf("tga: pixel %d of %d: %w", d.next, d.total(), ErrShortPixels)
		}
		d.put(c)
	}
	return nil
}

func (d *tgaDecoder) rle() error {
	for d.next < d.total() {
		if d.pos >= len(d.src) {
			return fmt.Errorf("tga: rle stream ends at pixel %d of %d: %w", d.next, d.total(), ErrShortPixels)
		}
		header := d.src[d.pos]
		d.pos++
		count := min(int(header&0x7F)+1, d.total()-d.next)

		if header&0x80 != 0 {
			c, ok := d.pixel()
			if !ok {
				return fmt.Errorf("tga: run packet truncated: %w", ErrShortPixels)
			}
			for range count {
				d.put(c)
			}
			continue
		}
		for range count {
			c, ok := d.pixel()
			if !ok {
				return fmt.Errorf("tga: raw packet truncated: %w", ErrShortPixels)
			}
			d.put(c)
		}
	}
	return nil
}
