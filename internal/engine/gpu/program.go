package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
)

var glStages = map[shader.Stage]uint32{
	shader.StageVertex:      gl.VERTEX_SHADER,
	shader.StageTessControl: gl.TESS_CONTROL_SHADER,
	shader.StageTessEval:    gl.TESS_EVALUATION_SHADER,
	shader.StageFragment:    gl.FRAGMENT_SHADER,
}

// Program is a linked GL program with uniform locations cached by role.
type Program struct {
	name        string
	id          uint32
	tessellated bool
	locs        [shader.UniformCount]int32
}

// CompileProgram compiles every present stage and links them into a program.
func CompileProgram(name string, src shader.Sources) (*Program, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var shaders []uint32
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, st := range shader.Stages() {
		text := src.Get(st)
		if text == "" {
			continue
		}
		s, err := compileShader(text, glStages[st], st.String())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		shaders = append(shaders, s)
	}

	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("%s: link: %s", name, gl.GoStr(&log[0]))
	}

	for _, s := range shaders {
		gl.DetachShader(program, s)
	}

	p := &Program{name: name, id: program, tessellated: src.Tessellated()}
	for u := shader.Uniform(0); u < shader.UniformCount; u++ {
		p.locs[u] = gl.GetUniformLocation(program, gl.Str(u.Name()+"\x00"))
	}
	return p, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	id := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csource, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(id, logLen, nil, &log[0])
		gl.DeleteShader(id)
		return 0, fmt.Errorf("%s shader: %s", name, gl.GoStr(&log[0]))
	}

	return id, nil
}

// Name returns the program's name.
func (p *Program) Name() string { return p.name }

// ID returns the GL program handle.
func (p *Program) ID() uint32 { return p.id }

// Tessellated reports whether the program expects GL_PATCHES.
func (p *Program) Tessellated() bool { return p.tessellated }

// Use binds the program.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Location returns the cached location of a uniform, -1 if inactive.
func (p *Program) Location(u shader.Uniform) int32 {
	return p.locs[u]
}

// Has reports whether a uniform is active in the program.
func (p *Program) Has(u shader.Uniform) bool {
	return p.locs[u] >= 0
}

// Inactive lists the roles the linker dropped.
func (p *Program) Inactive() []shader.Uniform {
	var out []shader.Uniform
	for u := shader.Uniform(0); u < shader.UniformCount; u++ {
		if p.locs[u] < 0 {
			out = append(out, u)
		}
	}
	return out
}

// SetMat4 sets a matrix uniform. The program must be in use.
func (p *Program) SetMat4(u shader.Uniform, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.locs[u], 1, false, &m[0])
}

// SetVec2 sets a vec2 uniform.
func (p *Program) SetVec2(u shader.Uniform, v mgl32.Vec2) {
	gl.Uniform2f(p.locs[u], v[0], v[1])
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(u shader.Uniform, v mgl32.Vec3) {
	gl.Uniform3f(p.locs[u], v[0], v[1], v[2])
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(u shader.Uniform, v float32) {
	gl.Uniform1f(p.locs[u], v)
}

// SetInt sets an int or sampler uniform.
func (p *Program) SetInt(u shader.Uniform, v int32) {
	gl.Uniform1i(p.locs[u], v)
}

// Release deletes the program. Safe to call more than once.
func (p *Program) Release() {
	if p == nil || p.id == 0 {
		return
	}
	gl.DeleteProgram(p.id)
	p.id = 0
}
