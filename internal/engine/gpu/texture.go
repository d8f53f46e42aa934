package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
)

// Filter selects texture sampling.
type Filter int

const (
	// FilterNearest keeps texels exact. Height maps use it so packed
	// elevations are decoded before any blending.
	FilterNearest Filter = iota
	// FilterMipmap is trilinear filtering with generated mipmaps.
	FilterMipmap
)

// Wrap selects the addressing mode outside [0,1].
type Wrap int

const (
	WrapClamp Wrap = iota
	WrapRepeat
)

// Texture is a 2D GL texture.
type Texture struct {
	id            uint32
	width, height int
}

// NewTexture uploads an RGB image. The image is validated before any GL call.
func NewTexture(img *texture.Image, filter Filter, wrap Wrap) (*Texture, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("texture upload: %w", err)
	}

	t := &Texture{width: img.Width, height: img.Height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	// Rows are tightly packed RGB triples.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB8,
		int32(img.Width), int32(img.Height), 0,
		gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	glWrap := int32(gl.CLAMP_TO_EDGE)
	if wrap == WrapRepeat {
		glWrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap)

	switch filter {
	case FilterMipmap:
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	default:
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// ID returns the GL handle.
func (t *Texture) ID() uint32 { return t.id }

// Size returns the texture dimensions.
func (t *Texture) Size() (int, int) { return t.width, t.height }

// BindUnit binds the texture to a texture unit.
func (t *Texture) BindUnit(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Release deletes the texture.
func (t *Texture) Release() {
	if t == nil || t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
}
