package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"

	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
)

// Encoding describes how elevation is stored in an RGB height map.
type Encoding int

const (
	// EncodingPacked24 stores elevation as R<<16 | G<<8 | B.
	EncodingPacked24 Encoding = iota
	// EncodingRed stores elevation in the red channel only.
	EncodingRed
)

// ParseEncoding converts a config name to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "", "packed24":
		return EncodingPacked24, nil
	case "red":
		return EncodingRed, nil
	}
	return 0, fmt.Errorf("unknown height encoding %q", name)
}

func (e Encoding) String() string {
	if e == EncodingRed {
		return "red"
	}
	return "packed24"
}

// FullScale returns the largest value the encoding can represent.
func (e Encoding) FullScale() float32 {
	if e == EncodingRed {
		return 255
	}
	return 0xFFFFFF
}

// HeightField is an immutable grid of elevation samples addressed by UV in [0,1]².
// Row 0 is v=0, matching OpenGL texture orientation.
type HeightField struct {
	width    int
	height   int
	samples  []float32
	encoding Encoding
	min, max float32
}

// NewHeightField wraps row-major samples. The slice is copied.
func NewHeightField(width, height int, samples []float32, enc Encoding) (*HeightField, error) {
	if width <= 0 || height <= 0 || len(samples) == 0 {
		return nil, ErrEmptyHeightField
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("height field %dx%d needs %d samples, got %d", width, height, width*height, len(samples))
	}

	hf := &HeightField{
		width:    width,
		height:   height,
		samples:  append([]float32(nil), samples...),
		encoding: enc,
		min:      float32(math.Inf(1)),
		max:      float32(math.Inf(-1)),
	}
	for _, s := range hf.samples {
		hf.min = min(hf.min, s)
		hf.max = max(hf.max, s)
	}
	return hf, nil
}

// FromImage decodes elevation from an RGB image.
func FromImage(img *texture.Image, enc Encoding) (*HeightField, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("height map: %w", err)
	}

	samples := make([]float32, img.Width*img.Height)
	for i := range samples {
		r, g, b := img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2]
		samples[i] = decode(r, g, b, enc)
	}
	return NewHeightField(img.Width, img.Height, samples, enc)
}

func decode(r, g, b uint8, enc Encoding) float32 {
	if enc == EncodingRed {
		return float32(r)
	}
	return float32(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ToImage encodes the field back into RGB for GPU upload.
func (hf *HeightField) ToImage() *texture.Image {
	img := &texture.Image{
		Width:  hf.width,
		Height: hf.height,
		Pix:    make([]byte, hf.width*hf.height*3),
	}
	full := hf.encoding.FullScale()
	for i, s := range hf.samples {
		v := uint32(clampf(float32(math.Round(float64(s))), 0, full))
		if hf.encoding == EncodingRed {
			img.Pix[i*3] = uint8(v)
			continue
		}
		img.Pix[i*3] = uint8(v >> 16)
		img.Pix[i*3+1] = uint8(v >> 8)
		img.Pix[i*3+2] = uint8(v)
	}
	return img
}

// Size returns the sample grid dimensions.
func (hf *HeightField) Size() (int, int) {
	return hf.width, hf.height
}

// Encoding returns the encoding the field was decoded with.
func (hf *HeightField) Encoding() Encoding {
	return hf.encoding
}

// MinValue returns the lowest sample.
func (hf *HeightField) MinValue() float32 {
	return hf.min
}

// MaxValue returns the highest sample.
func (hf *HeightField) MaxValue() float32 {
	return hf.max
}

// TexelSize returns the UV distance between neighboring samples.
func (hf *HeightField) TexelSize() mgl32.Vec2 {
	return mgl32.Vec2{1 / float32(hf.width), 1 / float32(hf.height)}
}

// At returns the sample at integer coordinates, clamped to the edge.
func (hf *HeightField) At(x, y int) float32 {
	x = min(max(x, 0), hf.width-1)
	y = min(max(y, 0), hf.height-1)
	return hf.samples[y*hf.width+x]
}

// Sample returns the bilinearly filtered elevation at uv, clamping to the edge
// like GL_CLAMP_TO_EDGE. Filtering happens after decoding so packed values
// never blend across byte boundaries.
func (hf *HeightField) Sample(uv mgl32.Vec2) float32 {
	x := uv[0]*float32(hf.width) - 0.5
	y := uv[1]*float32(hf.height) - 0.5
	x0 := float32(math.Floor(float64(x)))
	y0 := float32(math.Floor(float64(y)))
	fx, fy := x-x0, y-y0

	ix, iy := int(x0), int(y0)
	h00 := hf.At(ix, iy)
	h10 := hf.At(ix+1, iy)
	h01 := hf.At(ix, iy+1)
	h11 := hf.At(ix+1, iy+1)

	return mixf(mixf(h00, h10, fx), mixf(h01, h11, fx), fy)
}

// Normalized maps a raw sample into [0,1] using the field's own range.
func (hf *HeightField) Normalized(raw float32) float32 {
	span := hf.max - hf.min
	if span <= 0 {
		return 0
	}
	return clampf((raw-hf.min)/span, 0, 1)
}

// GenerateParams configures a procedural height field.
type GenerateParams struct {
	Size     int
	Seed     int64
	Octaves  int
	Encoding Encoding
}

// Generate builds a height field from fractal simplex noise. Values span the
// encoding's full scale so the default height scale gives visible relief.
func Generate(p GenerateParams) (*HeightField, error) {
	if p.Size < 2 {
		return nil, fmt.Errorf("procedural height field size %d: %w", p.Size, ErrEmptyHeightField)
	}
	octaves := max(p.Octaves, 1)
	noise := opensimplex.NewNormalized(p.Seed)

	full := float64(p.Encoding.FullScale())
	samples := make([]float32, p.Size*p.Size)
	for y := range p.Size {
		for x := range p.Size {
			nx := float64(x) / float64(p.Size)
			ny := float64(y) / float64(p.Size)

			var sum, amp, norm float64 = 0, 1, 0
			freq := 3.0
			for range octaves {
				sum += amp * noise.Eval2(nx*freq, ny*freq)
				norm += amp
				amp *= 0.5
				freq *= 2
			}
			v := sum / norm
			// Sharpen peaks so snow bands appear.
			v = v * v
			samples[y*p.Size+x] = float32(math.Round(v * full))
		}
	}
	return NewHeightField(p.Size, p.Size, samples, p.Encoding)
}
