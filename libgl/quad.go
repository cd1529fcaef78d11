package libgl

import (
	"github.com/go-gl/gl/v4.5-core/gl"
)

var sharedQuad UnboundVertexArray

// DrawQuad draws a clip space quad covering the viewport as a triangle strip.
func DrawQuad() {
	if sharedQuad == nil {
		vbo := NewBuffer()
		vbo.SetDebugLabel("fullscreen quad")
		vbo.Allocate([]float32{-1, -1, 1, -1, -1, 1, 1, 1}, 0)

		sharedQuad = NewVertexArray()
		sharedQuad.Layout(0, 0, 2, gl.FLOAT, false, 0)
		sharedQuad.BindBuffer(0, vbo, 0, 2*4)
	}

	sharedQuad.Bind()
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

// ResetQuad forgets the shared quad, used when the context is recreated.
func ResetQuad() {
	if sharedQuad != nil {
		sharedQuad.Delete()
		sharedQuad = nil
	}
}
