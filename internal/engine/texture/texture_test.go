package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

// testPattern is 2x2 with a distinct color per pixel. Top row: red, green.
// Bottom row: blue, white.
func testPattern() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 255, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 255})
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})
	return img
}

func checkPattern(t *testing.T, img *Image) {
	t.Helper()
	if img.Width != 2 || img.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", img.Width, img.Height)
	}
	tests := []struct {
		x, y    int
		r, g, b uint8
	}{
		{0, 0, 0, 0, 255},
		{1, 0, 255, 255, 255},
		{0, 1, 255, 0, 0},
		{1, 1, 0, 255, 0},
	}
	for _, tt := range tests {
		r, g, b := img.RGB(tt.x, tt.y)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("RGB(%d, %d) = (%d, %d, %d), want (%d, %d, %d)", tt.x, tt.y, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testPattern()); err != nil {
		t.Fatal(err)
	}

	img, err := Decode(buf.Bytes(), "pattern.png")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	checkPattern(t, img)
}

func TestDecodeBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, testPattern()); err != nil {
		t.Fatal(err)
	}

	img, err := Decode(buf.Bytes(), "heightmap.bmp")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	checkPattern(t, img)
}

// tgaHeader builds a header for a bottom-up 2x2 image.
func tgaHeader(imageType, bpp byte) []byte {
	h := make([]byte, tgaHeaderSize)
	h[2] = imageType
	h[12] = 2
	h[14] = 2
	h[16] = bpp
	return h
}

func TestDecodeTGA_Uncompressed(t *testing.T) {
	data := tgaHeader(TGATypeUncompressed, 24)
	// Bottom row first, BGR.
	data = append(data,
		255, 0, 0, 255, 255, 255,
		0, 0, 255, 0, 255, 0,
	)

	img, err := Decode(data, "pattern.TGA")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	checkPattern(t, img)
}

func TestDecodeTGA_RLE(t *testing.T) {
	data := tgaHeader(TGATypeRLE, 32)
	data = append(data,
		0x83, 10, 20, 30, 255, // run of 4 pixels
	)

	src, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	img := FromImage(src)
	for y := range 2 {
		for x := range 2 {
			r, g, b := img.RGB(x, y)
			if r != 30 || g != 20 || b != 10 {
				t.Errorf("RGB(%d, %d) = (%d, %d, %d), want (30, 20, 10)", x, y, r, g, b)
			}
		}
	}
}

func TestDecodeTGA_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", []byte{0, 0, 2}, nil},
		{"color mapped", func() []byte { h := tgaHeader(TGATypeUncompressed, 24); h[1] = 1; return h }(), ErrUnsupportedFormat},
		{"grayscale", tgaHeader(3, 8), ErrUnsupportedFormat},
		{"16 bpp", tgaHeader(TGATypeUncompressed, 16), ErrUnsupportedFormat},
		{"truncated pixels", append(tgaHeader(TGATypeUncompressed, 24), 1, 2, 3), ErrShortPixels},
		{"truncated rle", append(tgaHeader(TGATypeRLE, 24), 0x81, 1, 2), ErrShortPixels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTGA(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode(nil, "empty.bmp"); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty data error = %v, want ErrEmptyImage", err)
	}
	if _, err := Decode([]byte("not an image"), "junk.bmp"); err == nil {
		t.Error("expected error for junk data")
	}
}

func TestImageValidate(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
		want error
	}{
		{"nil", nil, ErrEmptyImage},
		{"zero width", &Image{Width: 0, Height: 2, Pix: make([]byte, 12)}, ErrEmptyImage},
		{"short buffer", &Image{Width: 2, Height: 2, Pix: make([]byte, 11)}, ErrShortPixels},
		{"ok", &Image{Width: 2, Height: 2, Pix: make([]byte, 12)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSolid(t *testing.T) {
	img := Solid(3, 2, 1, 2, 3)
	if err := img.Validate(); err != nil {
		t.Fatal(err)
	}
	r, g, b := img.RGB(2, 1)
	if r != 1 || g != 2 || b != 3 {
		t.Errorf("RGB(2, 1) = (%d, %d, %d), want (1, 2, 3)", r, g, b)
	}
}
