package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Material identifies one of the three surface classes.
type Material int

const (
	Rock Material = iota
	Grass
	Snow
	MaterialCount
)

func (m Material) String() string {
	switch m {
	case Rock:
		return "rock"
	case Grass:
		return "grass"
	case Snow:
		return "snow"
	}
	return fmt.Sprintf("material(%d)", int(m))
}

// Channel is one texture of a material triad.
type Channel int

const (
	Diffuse Channel = iota
	Specular
	NormalMap
	ChannelCount
)

func (c Channel) String() string {
	switch c {
	case Diffuse:
		return "diffuse"
	case Specular:
		return "specular"
	case NormalMap:
		return "normal"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// TextureUnit returns the sampler unit of a material channel. Unit 0 holds the
// height map; materials follow as rock, grass, snow with diffuse, specular,
// normal each.
func TextureUnit(m Material, c Channel) uint32 {
	return 1 + uint32(m)*uint32(ChannelCount) + uint32(c)
}

// HeightMapUnit is the sampler unit of the height map.
const HeightMapUnit uint32 = 0

// BlendParams are the elevation and slope bands of the material blend.
// Elevations are normalized to [0,1]; slope is 1 - normal.y.
type BlendParams struct {
	GrassMax   float32
	SnowMin    float32
	Band       float32
	SlopeStart float32
	SlopeEnd   float32
}

// DefaultBlendParams returns the stock thresholds.
func DefaultBlendParams() BlendParams {
	return BlendParams{
		GrassMax:   0.35,
		SnowMin:    0.70,
		Band:       0.08,
		SlopeStart: 0.25,
		SlopeEnd:   0.55,
	}
}

// Validate rejects overlapping or empty bands.
func (b BlendParams) Validate() error {
	switch {
	case b.Band <= 0:
		return fmt.Errorf("band %v: %w", b.Band, ErrInvalidBlendRange)
	case b.GrassMax+b.Band > b.SnowMin-b.Band:
		return fmt.Errorf("grass band ends at %v after snow band starts at %v: %w",
			b.GrassMax+b.Band, b.SnowMin-b.Band, ErrInvalidBlendRange)
	case b.SlopeEnd <= b.SlopeStart:
		return fmt.Errorf("slope end %v not above start %v: %w", b.SlopeEnd, b.SlopeStart, ErrInvalidBlendRange)
	}
	return nil
}

// Weights are per-material blend factors summing to 1.
type Weights [MaterialCount]float32

// Weights returns the blend of rock, grass and snow at a normalized elevation
// and surface normal. Every band edge goes through smoothstep, so the result is
// continuous in both inputs.
func (b BlendParams) Weights(elevation float32, normal mgl32.Vec3) Weights {
	grass := 1 - smoothstep(b.GrassMax-b.Band, b.GrassMax+b.Band, elevation)
	snow := smoothstep(b.SnowMin-b.Band, b.SnowMin+b.Band, elevation)
	rock := 1 - grass - snow

	slope := 1 - clampf(normal.Y(), 0, 1)
	steep := smoothstep(b.SlopeStart, b.SlopeEnd, slope)

	var w Weights
	w[Grass] = grass * (1 - steep)
	w[Snow] = snow * (1 - steep)
	w[Rock] = rock*(1-steep) + steep
	return w
}

// Dominant returns the material with the largest weight.
func (w Weights) Dominant() Material {
	best := Rock
	for m := Rock; m < MaterialCount; m++ {
		if w[m] > w[best] {
			best = m
		}
	}
	return best
}

// MaterialSample is one fragment's reads from a material triad, in [0,1] per channel.
type MaterialSample struct {
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
	Normal   mgl32.Vec3
}

// FragmentInput is what the fragment stage receives per pixel.
type FragmentInput struct {
	WorldPos  mgl32.Vec3
	Normal    mgl32.Vec3
	Elevation float32
	LightDir  mgl32.Vec3
	ViewPos   mgl32.Vec3
}

// Lighting constants shared with terrain.frag.
const (
	AmbientStrength float32 = 0.25
	SpecularPower   float32 = 32
)

// PerturbNormal applies a tangent-space normal map sample to n. The tangent
// frame follows the grid: X is the tangent, Z the bitangent.
func PerturbNormal(n, sample mgl32.Vec3) mgl32.Vec3 {
	ts := sample.Mul(2).Sub(mgl32.Vec3{1, 1, 1})
	t := mgl32.Vec3{1, 0, 0}
	t = t.Sub(n.Mul(n.Dot(t)))
	if t.Len() < 1e-6 {
		t = mgl32.Vec3{0, 0, 1}.Sub(n.Mul(n.Z()))
	}
	t = t.Normalize()
	bt := n.Cross(t)
	out := t.Mul(ts.X()).Add(bt.Mul(ts.Y())).Add(n.Mul(ts.Z()))
	if out.Len() == 0 {
		return n
	}
	return out.Normalize()
}

// ShadeMaterial lights one material sample with a directional light.
// lightDir points from the light into the scene.
func ShadeMaterial(in FragmentInput, s MaterialSample) mgl32.Vec3 {
	n := PerturbNormal(in.Normal.Normalize(), s.Normal)
	l := in.LightDir.Mul(-1).Normalize()
	v := in.ViewPos.Sub(in.WorldPos)
	if v.Len() > 0 {
		v = v.Normalize()
	}

	diff := max(n.Dot(l), 0)
	var spec float32
	if diff > 0 {
		h := l.Add(v)
		if h.Len() > 0 {
			h = h.Normalize()
			spec = float32(math.Pow(float64(max(n.Dot(h), 0)), float64(SpecularPower)))
		}
	}

	ambient := s.Diffuse.Mul(AmbientStrength)
	diffuse := s.Diffuse.Mul(diff)
	specular := s.Specular.Mul(spec)
	return ambient.Add(diffuse).Add(specular)
}

// Shade blends the lit contribution of all three materials.
func (b BlendParams) Shade(in FragmentInput, samples [MaterialCount]MaterialSample) mgl32.Vec3 {
	w := b.Weights(in.Elevation, in.Normal.Normalize())
	var c mgl32.Vec3
	for m := Rock; m < MaterialCount; m++ {
		c = c.Add(ShadeMaterial(in, samples[m]).Mul(w[m]))
	}
	return c
}
