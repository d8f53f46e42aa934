package control

import (
	"fmt"
	"strings"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// StatusLine summarizes the frame state for the window title.
func (rc *RenderContext) StatusLine(fps int, st terrain.LevelStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d fps", fps)

	if rc.Tessellation {
		fmt.Fprintf(&b, " | %s lod %.0f-%.0f", rc.LOD.Mode, st.MinLevel, st.MaxLevel)
	} else {
		b.WriteString(" | flat")
	}
	fmt.Fprintf(&b, " | %s tris", formatCount(st.Triangles))
	fmt.Fprintf(&b, " | scale %.2e", rc.HeightScale.Value())
	if rc.Wireframe {
		b.WriteString(" | wire")
	}
	return b.String()
}

func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1e3)
	}
	return fmt.Sprint(n)
}
