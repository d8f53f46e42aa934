package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
)

func packedImage(w, h int, values []uint32) *texture.Image {
	img := &texture.Image{Width: w, Height: h, Pix: make([]byte, w*h*3)}
	for i, v := range values {
		img.Pix[i*3] = uint8(v >> 16)
		img.Pix[i*3+1] = uint8(v >> 8)
		img.Pix[i*3+2] = uint8(v)
	}
	return img
}

func TestFromImage_Encodings(t *testing.T) {
	img := packedImage(2, 1, []uint32{0x010203, 0xFFFFFF})

	packed, err := FromImage(img, EncodingPacked24)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if got := packed.At(0, 0); got != 0x010203 {
		t.Errorf("packed At(0,0) = %v, want %v", got, 0x010203)
	}
	if got := packed.MaxValue(); got != 0xFFFFFF {
		t.Errorf("packed MaxValue = %v, want %v", got, 0xFFFFFF)
	}

	red, err := FromImage(img, EncodingRed)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if got := red.At(0, 0); got != 1 {
		t.Errorf("red At(0,0) = %v, want 1", got)
	}
	if got := red.At(1, 0); got != 255 {
		t.Errorf("red At(1,0) = %v, want 255", got)
	}
}

func TestFromImage_Invalid(t *testing.T) {
	short := &texture.Image{Width: 4, Height: 4, Pix: make([]byte, 10)}
	if _, err := FromImage(short, EncodingPacked24); !errors.Is(err, texture.ErrShortPixels) {
		t.Errorf("short buffer error = %v, want ErrShortPixels", err)
	}
	if _, err := NewHeightField(0, 0, nil, EncodingRed); !errors.Is(err, ErrEmptyHeightField) {
		t.Errorf("empty field error = %v, want ErrEmptyHeightField", err)
	}
	if _, err := NewHeightField(2, 2, []float32{1, 2, 3}, EncodingRed); err == nil {
		t.Error("expected error for sample count mismatch")
	}
}

func TestHeightFieldSample(t *testing.T) {
	// 2x2: bottom row 0, 10; top row 20, 30.
	hf, err := NewHeightField(2, 2, []float32{0, 10, 20, 30}, EncodingRed)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		uv   mgl32.Vec2
		want float32
	}{
		{"texel center 0,0", mgl32.Vec2{0.25, 0.25}, 0},
		{"texel center 1,1", mgl32.Vec2{0.75, 0.75}, 30},
		{"middle", mgl32.Vec2{0.5, 0.5}, 15},
		{"halfway along u", mgl32.Vec2{0.5, 0.25}, 5},
		{"clamped below", mgl32.Vec2{-3, -3}, 0},
		{"clamped above", mgl32.Vec2{4, 4}, 30},
		{"border clamps to edge texel", mgl32.Vec2{1, 0.25}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hf.Sample(tt.uv)
			if math.Abs(float64(got-tt.want)) > 1e-4 {
				t.Errorf("Sample(%v) = %v, want %v", tt.uv, got, tt.want)
			}
		})
	}
}

func TestHeightFieldNormalized(t *testing.T) {
	hf, err := NewHeightField(2, 1, []float32{100, 300}, EncodingRed)
	if err != nil {
		t.Fatal(err)
	}
	if got := hf.Normalized(200); got != 0.5 {
		t.Errorf("Normalized(200) = %v, want 0.5", got)
	}
	if got := hf.Normalized(1000); got != 1 {
		t.Errorf("Normalized(1000) = %v, want 1", got)
	}

	flat, _ := NewHeightField(1, 1, []float32{7}, EncodingRed)
	if got := flat.Normalized(7); got != 0 {
		t.Errorf("flat Normalized = %v, want 0", got)
	}
}

func TestHeightFieldToImage(t *testing.T) {
	src := packedImage(2, 2, []uint32{0, 0x00FF00, 0x123456, 0xFFFFFF})
	hf, err := FromImage(src, EncodingPacked24)
	if err != nil {
		t.Fatal(err)
	}
	out := hf.ToImage()
	if string(out.Pix) != string(src.Pix) {
		t.Errorf("ToImage pixels = %v, want %v", out.Pix, src.Pix)
	}
}

func TestGenerate(t *testing.T) {
	p := GenerateParams{Size: 32, Seed: 7, Octaves: 4, Encoding: EncodingPacked24}
	a, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(p)
	if err != nil {
		t.Fatal(err)
	}

	w, h := a.Size()
	if w != 32 || h != 32 {
		t.Fatalf("size = %dx%d, want 32x32", w, h)
	}
	for y := range h {
		for x := range w {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("sample (%d,%d) differs between runs with the same seed", x, y)
			}
		}
	}
	if a.MinValue() < 0 || a.MaxValue() > EncodingPacked24.FullScale() {
		t.Errorf("range [%v, %v] outside encoding", a.MinValue(), a.MaxValue())
	}
	if a.MaxValue() <= a.MinValue() {
		t.Error("generated field is flat")
	}

	if _, err := Generate(GenerateParams{Size: 1}); !errors.Is(err, ErrEmptyHeightField) {
		t.Errorf("Generate(size 1) error = %v, want ErrEmptyHeightField", err)
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", EncodingPacked24, false},
		{"packed24", EncodingPacked24, false},
		{"red", EncodingRed, false},
		{"green", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEncoding(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEncoding(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
