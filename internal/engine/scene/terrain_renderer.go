package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/control"
	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// MaterialTiling is how often material textures repeat across the terrain.
const MaterialTiling float32 = 8

// Vertex attribute locations shared by terrain.vert and terrain_flat.vert.
const (
	attribPosition = 0
	attribUV       = 1
)

// MaterialImages holds the decoded images of every material channel.
type MaterialImages [terrain.MaterialCount][terrain.ChannelCount]*texture.Image

// Frame is the per-frame camera state.
type Frame struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	Viewport   mgl32.Vec2
}

// TerrainRenderer draws the height-field terrain, tessellated or as a
// displaced triangle strip.
type TerrainRenderer struct {
	grid  *terrain.Grid
	field *terrain.HeightField

	tracker gpu.Tracker

	patchVAO   *gpu.VertexArray
	stripVAO   *gpu.VertexArray
	patchCount int32
	stripCount int32

	heightMap *gpu.Texture
	materials [terrain.MaterialCount][terrain.ChannelCount]*gpu.Texture

	tessellated *gpu.ProgramSlot
	flat        *gpu.ProgramSlot

	log *zap.Logger
}

// NewTerrainRenderer uploads the grid, height map and materials and compiles
// both programs.
func NewTerrainRenderer(grid *terrain.Grid, field *terrain.HeightField, mats MaterialImages, loader *shader.Loader) (*TerrainRenderer, error) {
	tr := &TerrainRenderer{
		grid:  grid,
		field: field,
		log:   logger.Named("terrain"),
	}

	if err := tr.upload(mats); err != nil {
		tr.Release()
		return nil, err
	}

	var err error
	tr.tessellated, err = gpu.NewProgramSlot(loader, shader.TerrainTessellated)
	if err != nil {
		tr.Release()
		return nil, err
	}
	gpu.Track(&tr.tracker, tr.tessellated)

	tr.flat, err = gpu.NewProgramSlot(loader, shader.TerrainFlat)
	if err != nil {
		tr.Release()
		return nil, err
	}
	gpu.Track(&tr.tracker, tr.flat)

	w, h := field.Size()
	tr.log.Info("terrain uploaded",
		zap.Int("grid_points", grid.Points),
		zap.Int("patches", grid.PatchCount()),
		zap.Int("height_width", w),
		zap.Int("height_height", h),
		zap.Stringer("encoding", field.Encoding()),
		zap.Int("gl_objects", tr.tracker.Len()),
	)
	return tr, nil
}

func (tr *TerrainRenderer) upload(mats MaterialImages) error {
	// Both vertex arrays share the vertex buffers and differ in index buffer.
	tr.patchVAO = gpu.Track(&tr.tracker, gpu.NewVertexArray())
	positions := gpu.Track(&tr.tracker, gpu.NewVec3Buffer(tr.grid.Positions))
	uvs := gpu.Track(&tr.tracker, gpu.NewVec2Buffer(tr.grid.UVs))
	tr.patchVAO.Attribute(attribPosition, positions, 3)
	tr.patchVAO.Attribute(attribUV, uvs, 2)
	patchIdx := gpu.Track(&tr.tracker, gpu.NewIndexBuffer(tr.grid.PatchIndices))
	tr.patchCount = int32(patchIdx.Count())

	tr.stripVAO = gpu.Track(&tr.tracker, gpu.NewVertexArray())
	tr.stripVAO.Attribute(attribPosition, positions, 3)
	tr.stripVAO.Attribute(attribUV, uvs, 2)
	stripIdx := gpu.Track(&tr.tracker, gpu.NewIndexBuffer(tr.grid.StripIndices))
	tr.stripCount = int32(stripIdx.Count())
	tr.stripVAO.Unbind()

	hm, err := gpu.NewTexture(tr.field.ToImage(), gpu.FilterNearest, gpu.WrapClamp)
	if err != nil {
		return fmt.Errorf("height map: %w", err)
	}
	tr.heightMap = gpu.Track(&tr.tracker, hm)

	for m := terrain.Rock; m < terrain.MaterialCount; m++ {
		for c := terrain.Diffuse; c < terrain.ChannelCount; c++ {
			tex, err := gpu.NewTexture(mats[m][c], gpu.FilterMipmap, gpu.WrapRepeat)
			if err != nil {
				return fmt.Errorf("%s %s: %w", m, c, err)
			}
			tr.materials[m][c] = gpu.Track(&tr.tracker, tex)
		}
	}
	return nil
}

// Reload recompiles both programs from the shader loader. Programs that fail
// keep their previous version.
func (tr *TerrainRenderer) Reload() error {
	return errors.Join(tr.tessellated.Reload(), tr.flat.Reload())
}

// Render draws the terrain for one frame.
func (tr *TerrainRenderer) Render(rc *control.RenderContext, f Frame) {
	slot, vao := tr.flat, tr.stripVAO
	if rc.Tessellation {
		slot, vao = tr.tessellated, tr.patchVAO
	}
	p := slot.Program()
	p.Use()

	viewProj := f.Projection.Mul4(f.View)
	p.SetMat4(shader.UniformMVP, viewProj.Mul4(f.Model))
	p.SetMat4(shader.UniformModel, f.Model)
	p.SetMat4(shader.UniformViewProj, viewProj)
	p.SetVec2(shader.UniformViewport, f.Viewport)
	p.SetVec3(shader.UniformViewPos, f.Eye)
	p.SetVec3(shader.UniformLightDir, rc.Light.Direction())

	p.SetFloat(shader.UniformHeightScale, rc.HeightScale.Value())
	p.SetInt(shader.UniformHeightEncoding, int32(tr.field.Encoding()))
	p.SetVec2(shader.UniformHeightRange, mgl32.Vec2{tr.field.MinValue(), tr.field.MaxValue()})
	p.SetVec2(shader.UniformWorldPerUV, terrain.WorldPerUV(tr.grid.HalfExtent))

	lod := rc.LOD
	p.SetInt(shader.UniformLODMode, int32(lod.Mode))
	p.SetFloat(shader.UniformMinTessLevel, lod.MinLevel)
	p.SetFloat(shader.UniformMaxTessLevel, lod.MaxLevel)
	p.SetFloat(shader.UniformLODNear, lod.NearDistance)
	p.SetFloat(shader.UniformLODFar, lod.FarDistance)
	p.SetFloat(shader.UniformTargetEdgePixels, lod.TargetEdgePixels)

	b := rc.Blend
	p.SetFloat(shader.UniformGrassMax, b.GrassMax)
	p.SetFloat(shader.UniformSnowMin, b.SnowMin)
	p.SetFloat(shader.UniformBlendBand, b.Band)
	p.SetFloat(shader.UniformSlopeStart, b.SlopeStart)
	p.SetFloat(shader.UniformSlopeEnd, b.SlopeEnd)
	p.SetFloat(shader.UniformMaterialTiling, MaterialTiling)

	tr.heightMap.BindUnit(terrain.HeightMapUnit)
	p.SetInt(shader.UniformHeightMap, int32(terrain.HeightMapUnit))
	for m := terrain.Rock; m < terrain.MaterialCount; m++ {
		for c := terrain.Diffuse; c < terrain.ChannelCount; c++ {
			unit := terrain.TextureUnit(m, c)
			tr.materials[m][c].BindUnit(unit)
			p.SetInt(shader.MaterialSampler(m, c), int32(unit))
		}
	}

	vao.Bind()
	if rc.Tessellation {
		gl.DrawElements(gl.PATCHES, tr.patchCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawElements(gl.TRIANGLE_STRIP, tr.stripCount, gl.UNSIGNED_INT, nil)
	}
	vao.Unbind()
	gl.ActiveTexture(gl.TEXTURE0)
}

// Release deletes every GL object in reverse creation order.
func (tr *TerrainRenderer) Release() {
	tr.tracker.ReleaseAll()
}
