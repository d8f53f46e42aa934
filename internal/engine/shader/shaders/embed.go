// Package shaders provides embedded GLSL shader sources.
package shaders

import "embed"

// FS holds every stage and include file.
//
//go:embed *.vert *.tesc *.tese *.frag *.glsl
var FS embed.FS
