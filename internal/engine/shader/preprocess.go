package shader

import (
	"bufio"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

// ErrIncludeCycle is returned when files include each other.
var ErrIncludeCycle = errors.New("include cycle")

const maxIncludeDepth = 16

// ReadFunc returns the contents of a shader file by name.
type ReadFunc func(name string) ([]byte, error)

// Preprocessor expands #include "file" directives and injects #define lines
// after the #version directive.
type Preprocessor struct {
	read    ReadFunc
	defines map[string]string
}

// NewPreprocessor creates a preprocessor reading files through read.
func NewPreprocessor(read ReadFunc) *Preprocessor {
	return &Preprocessor{read: read, defines: make(map[string]string)}
}

// Define adds a macro emitted into every processed file.
func (p *Preprocessor) Define(name, value string) {
	p.defines[name] = value
}

// Process loads name and returns the expanded source.
func (p *Preprocessor) Process(name string) (string, error) {
	var b strings.Builder
	if err := p.expand(&b, name, nil); err != nil {
		return "", err
	}
	return p.injectDefines(b.String()), nil
}

func (p *Preprocessor) expand(b *strings.Builder, name string, stack []string) error {
	for _, s := range stack {
		if s == name {
			return fmt.Errorf("%s: %w", strings.Join(append(stack, name), " -> "), ErrIncludeCycle)
		}
	}
	if len(stack) >= maxIncludeDepth {
		return fmt.Errorf("%s: include depth exceeds %d", name, maxIncludeDepth)
	}

	data, err := p.read(name)
	if err != nil {
		return fmt.Errorf("reading shader %s: %w", name, err)
	}
	stack = append(stack, name)

	sc := bufio.NewScanner(strings.NewReader(string(data)))
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		inc, ok, err := parseInclude(text)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if !ok {
			b.WriteString(text)
			b.WriteByte('\n')
			continue
		}
		// Includes resolve relative to the including file.
		if err := p.expand(b, path.Join(path.Dir(name), inc), stack); err != nil {
			return err
		}
	}
	return sc.Err()
}

// parseInclude recognizes `#include "file"`.
func parseInclude(line string) (string, bool, error) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "#") {
		return "", false, nil
	}
	t = strings.TrimSpace(t[1:])
	if !strings.HasPrefix(t, "include") {
		return "", false, nil
	}
	arg := strings.TrimSpace(t[len("include"):])
	if len(arg) < 2 || arg[0] != '"' || arg[len(arg)-1] != '"' {
		return "", false, fmt.Errorf("malformed include %q", line)
	}
	return arg[1 : len(arg)-1], true, nil
}

func (p *Preprocessor) injectDefines(src string) string {
	if len(p.defines) == 0 {
		return src
	}

	names := make([]string, 0, len(p.defines))
	for n := range p.defines {
		names = append(names, n)
	}
	sort.Strings(names)

	var defs strings.Builder
	for _, n := range names {
		fmt.Fprintf(&defs, "#define %s %s\n", n, p.defines[n])
	}

	// #version must stay the first directive.
	if strings.HasPrefix(strings.TrimSpace(src), "#version") {
		lead := len(src) - len(strings.TrimLeft(src, " \t\r\n"))
		end := strings.IndexByte(src[lead:], '\n')
		if end < 0 {
			return src + "\n" + defs.String()
		}
		cut := lead + end + 1
		return src[:cut] + defs.String() + src[cut:]
	}
	return defs.String() + src
}
