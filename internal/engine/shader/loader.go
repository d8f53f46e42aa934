package shader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/assets"
	"github.com/Faultbox/midgard-terrain/internal/engine/shader/shaders"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// Loader reads shader files from an optional directory, falling back to the
// copies embedded in the binary. Reads bypass the asset cache so edited files
// are picked up on reload.
type Loader struct {
	assets *assets.Manager
	dir    string
}

// NewLoader creates a loader. An empty dir uses only the embedded sources.
func NewLoader(dir string) (*Loader, error) {
	m := assets.NewManager()
	m.AddFS("embedded", shaders.FS)
	if dir != "" {
		if err := m.AddDir(dir); err != nil {
			return nil, fmt.Errorf("shader dir: %w", err)
		}
	}
	return &Loader{assets: m, dir: dir}, nil
}

// Dir returns the on-disk shader directory, or "" when embedded only.
func (l *Loader) Dir() string {
	return l.dir
}

// Load preprocesses every stage of a program.
func (l *Loader) Load(files ProgramFiles) (Sources, error) {
	pp := NewPreprocessor(l.assets.Read)
	for name, value := range Defines() {
		pp.Define(name, value)
	}

	var src Sources
	for st := StageVertex; st < stageCount; st++ {
		file := files.Files[st]
		if file == "" {
			continue
		}
		text, err := pp.Process(file)
		if err != nil {
			return Sources{}, fmt.Errorf("%s %s stage: %w", files.Name, st, err)
		}
		src.set(st, text)
	}

	if err := src.Validate(); err != nil {
		return Sources{}, fmt.Errorf("%s: %w", files.Name, err)
	}

	logger.Debug("shader sources loaded",
		zap.String("program", files.Name),
		zap.Bool("tessellated", src.Tessellated()),
		zap.String("dir", l.dir))
	return src, nil
}
