package gpu

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// ProgramSlot owns the live program built from one set of files and swaps it on
// reload. A reload that fails to load or compile leaves the current program
// in place.
type ProgramSlot struct {
	files   shader.ProgramFiles
	loader  *shader.Loader
	program *Program
	log     *zap.Logger
}

// NewProgramSlot loads and compiles the program. Failure here is fatal to startup.
func NewProgramSlot(loader *shader.Loader, files shader.ProgramFiles) (*ProgramSlot, error) {
	s := &ProgramSlot{
		files:  files,
		loader: loader,
		log:    logger.Named("shader"),
	}
	p, err := s.build()
	if err != nil {
		return nil, err
	}
	s.program = p
	s.log.Info("program compiled",
		zap.String("name", files.Name),
		zap.Uint32("program", p.ID()),
		zap.Bool("tessellated", p.Tessellated()))
	return s, nil
}

func (s *ProgramSlot) build() (*Program, error) {
	src, err := s.loader.Load(s.files)
	if err != nil {
		return nil, err
	}
	p, err := CompileProgram(s.files.Name, src)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", s.files.Name, err)
	}
	if inactive := p.Inactive(); len(inactive) > 0 {
		names := make([]string, len(inactive))
		for i, u := range inactive {
			names[i] = u.Name()
		}
		s.log.Debug("inactive uniforms", zap.String("program", s.files.Name), zap.Strings("uniforms", names))
	}
	return p, nil
}

// Program returns the live program.
func (s *ProgramSlot) Program() *Program {
	return s.program
}

// Reload rebuilds the program from the loader's current files.
func (s *ProgramSlot) Reload() error {
	p, err := s.build()
	if err != nil {
		s.log.Error("shader reload failed, keeping previous program",
			zap.String("name", s.files.Name),
			zap.Error(err))
		return err
	}

	old := s.program
	s.program = p
	old.Release()

	s.log.Info("program reloaded",
		zap.String("name", s.files.Name),
		zap.Uint32("program", p.ID()))
	return nil
}

// Release deletes the live program.
func (s *ProgramSlot) Release() {
	s.program.Release()
}
