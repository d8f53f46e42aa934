package shader

import (
	"fmt"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// Uniform is the role of a uniform in the terrain programs. Locations are
// looked up once per program by role.
type Uniform int

const (
	UniformMVP Uniform = iota
	UniformModel
	UniformViewProj
	UniformViewport
	UniformHeightMap
	UniformHeightScale
	UniformHeightEncoding
	UniformHeightRange
	UniformWorldPerUV
	UniformLightDir
	UniformViewPos
	UniformLODMode
	UniformMinTessLevel
	UniformMaxTessLevel
	UniformLODNear
	UniformLODFar
	UniformTargetEdgePixels
	UniformGrassMax
	UniformSnowMin
	UniformBlendBand
	UniformSlopeStart
	UniformSlopeEnd
	UniformMaterialTiling
	UniformRockDiffuse
	UniformRockSpecular
	UniformRockNormal
	UniformGrassDiffuse
	UniformGrassSpecular
	UniformGrassNormal
	UniformSnowDiffuse
	UniformSnowSpecular
	UniformSnowNormal
	UniformCount
)

var uniformNames = [UniformCount]string{
	UniformMVP:              "MVP",
	UniformModel:            "Model",
	UniformViewProj:         "viewProj",
	UniformViewport:         "viewport",
	UniformHeightMap:        "heightMapSampler",
	UniformHeightScale:      "heightMapScale",
	UniformHeightEncoding:   "heightEncoding",
	UniformHeightRange:      "heightRange",
	UniformWorldPerUV:       "worldPerUV",
	UniformLightDir:         "lightDir_wcs",
	UniformViewPos:          "viewPos_wcs",
	UniformLODMode:          "lodMode",
	UniformMinTessLevel:     "minTessLevel",
	UniformMaxTessLevel:     "maxTessLevel",
	UniformLODNear:          "lodNear",
	UniformLODFar:           "lodFar",
	UniformTargetEdgePixels: "targetEdgePixels",
	UniformGrassMax:         "grassMax",
	UniformSnowMin:          "snowMin",
	UniformBlendBand:        "blendBand",
	UniformSlopeStart:       "slopeStart",
	UniformSlopeEnd:         "slopeEnd",
	UniformMaterialTiling:   "materialTiling",
	UniformRockDiffuse:      "rockDiffSampler",
	UniformRockSpecular:     "rockSpecSampler",
	UniformRockNormal:       "rockNormSampler",
	UniformGrassDiffuse:     "grassDiffSampler",
	UniformGrassSpecular:    "grassSpecSampler",
	UniformGrassNormal:      "grassNormSampler",
	UniformSnowDiffuse:      "snowDiffSampler",
	UniformSnowSpecular:     "snowSpecSampler",
	UniformSnowNormal:       "snowNormSampler",
}

// Name returns the GLSL identifier.
func (u Uniform) Name() string {
	if u >= 0 && u < UniformCount {
		return uniformNames[u]
	}
	return ""
}

func (u Uniform) String() string {
	if n := u.Name(); n != "" {
		return n
	}
	return fmt.Sprintf("uniform(%d)", int(u))
}

// MaterialSampler returns the sampler uniform of a material channel.
func MaterialSampler(m terrain.Material, c terrain.Channel) Uniform {
	return UniformRockDiffuse + Uniform(int(m)*int(terrain.ChannelCount)+int(c))
}

// Defines returns the constants shared between Go and GLSL, emitted as
// #define lines into every stage.
func Defines() map[string]string {
	return map[string]string{
		"AMBIENT_STRENGTH": formatFloat(terrain.AmbientStrength),
		"SPECULAR_POWER":   formatFloat(terrain.SpecularPower),
		"LOD_SCREEN_SPACE": fmt.Sprint(int(terrain.LODScreenSpace)),
		"ENCODING_RED":     fmt.Sprint(int(terrain.EncodingRed)),
	}
}

// formatFloat always includes a decimal point so GLSL parses a float literal.
func formatFloat(v float32) string {
	return fmt.Sprintf("%.6f", v)
}
