// Package assets embeds the GLSL sources of the effects and the viewer.
package assets

import "embed"

//go:embed shaders
var Shaders embed.FS
