// Package shader loads, preprocesses and compiles the terrain GLSL programs.
package shader

import (
	"errors"
	"fmt"
)

// ErrMissingStage is returned when a program lacks a required stage or has
// only one of the two tessellation stages.
var ErrMissingStage = errors.New("missing shader stage")

// Stage identifies one programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageTessControl
	StageTessEval
	StageFragment
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageTessControl:
		return "tess control"
	case StageTessEval:
		return "tess eval"
	case StageFragment:
		return "fragment"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Sources holds the preprocessed source of every stage of one program.
type Sources struct {
	Vertex      string
	TessControl string
	TessEval    string
	Fragment    string
}

// Get returns the source of a stage.
func (s Sources) Get(st Stage) string {
	switch st {
	case StageVertex:
		return s.Vertex
	case StageTessControl:
		return s.TessControl
	case StageTessEval:
		return s.TessEval
	case StageFragment:
		return s.Fragment
	}
	return ""
}

func (s *Sources) set(st Stage, src string) {
	switch st {
	case StageVertex:
		s.Vertex = src
	case StageTessControl:
		s.TessControl = src
	case StageTessEval:
		s.TessEval = src
	case StageFragment:
		s.Fragment = src
	}
}

// Tessellated reports whether the program has tessellation stages.
func (s Sources) Tessellated() bool {
	return s.TessControl != "" && s.TessEval != ""
}

// Validate checks that vertex and fragment stages exist and that the
// tessellation stages come as a pair.
func (s Sources) Validate() error {
	if s.Vertex == "" {
		return fmt.Errorf("%s: %w", StageVertex, ErrMissingStage)
	}
	if s.Fragment == "" {
		return fmt.Errorf("%s: %w", StageFragment, ErrMissingStage)
	}
	if (s.TessControl == "") != (s.TessEval == "") {
		return fmt.Errorf("tessellation needs both control and eval stages: %w", ErrMissingStage)
	}
	return nil
}

// ProgramFiles names the file of each stage. Empty names skip the stage.
type ProgramFiles struct {
	Name  string
	Files [stageCount]string
}

// Stock terrain programs.
var (
	TerrainTessellated = ProgramFiles{
		Name: "terrain",
		Files: [stageCount]string{
			StageVertex:      "terrain.vert",
			StageTessControl: "terrain.tesc",
			StageTessEval:    "terrain.tese",
			StageFragment:    "terrain.frag",
		},
	}
	TerrainFlat = ProgramFiles{
		Name: "terrain_flat",
		Files: [stageCount]string{
			StageVertex:   "terrain_flat.vert",
			StageFragment: "terrain.frag",
		},
	}
)

// Stages lists every stage in pipeline order.
func Stages() []Stage {
	return []Stage{StageVertex, StageTessControl, StageTessEval, StageFragment}
}
