package glfx

import (
	"fmt"
	"log"

	"postfx/effects"
	"postfx/libgl"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type target struct {
	device        *Device
	label         string
	width, height int
	colors        []effects.ColorFormat
	depth         bool
	// nil while the target has no pixels
	fbo          libgl.UnboundFramebuffer
	textures     []libgl.UnboundTexture
	renderbuffer libgl.UnboundRenderbuffer
}

func (t *target) empty() bool {
	return t.fbo == nil
}

// allocate creates the framebuffer and its attachments. A target with a zero
// dimension stays empty, binding and drawing it does nothing.
func (t *target) allocate() error {
	if t.width <= 0 || t.height <= 0 {
		log.Printf("target %q is %dx%d, skipping allocation\n", t.label, t.width, t.height)
		return nil
	}

	fbo := libgl.NewFramebuffer()
	fbo.SetDebugLabel(t.label)

	textures := make([]libgl.UnboundTexture, len(t.colors))
	indices := make([]int, len(t.colors))
	for i, format := range t.colors {
		internalFormat, err := InternalFormat(format)
		if err != nil {
			for _, tex := range textures[:i] {
				tex.Delete()
			}
			fbo.Delete()
			return fmt.Errorf("target %q: %w", t.label, err)
		}
		tex := libgl.NewTexture(gl.TEXTURE_2D)
		tex.SetDebugLabel(fmt.Sprintf("%s color %d", t.label, i))
		tex.Allocate(1, internalFormat, t.width, t.height, 0)
		fbo.AttachTexture(i, tex)
		textures[i] = tex
		indices[i] = i
	}
	fbo.BindTargets(indices...)

	var rb libgl.UnboundRenderbuffer
	if t.depth {
		rb = libgl.NewRenderbuffer()
		rb.SetDebugLabel(t.label + " depth")
		rb.Allocate(gl.DEPTH_COMPONENT24, t.width, t.height)
		fbo.AttachRenderbuffer(gl.DEPTH_ATTACHMENT, rb)
	}

	t.fbo = fbo
	t.textures = textures
	t.renderbuffer = rb

	if err := fbo.Check(gl.DRAW_FRAMEBUFFER); err != nil {
		t.free()
		return fmt.Errorf("target %q: %w", t.label, err)
	}
	return nil
}

func (t *target) free() {
	for _, tex := range t.textures {
		tex.Delete()
	}
	if t.renderbuffer != nil {
		t.renderbuffer.Delete()
	}
	if t.fbo != nil {
		t.fbo.Delete()
	}
	t.textures = nil
	t.renderbuffer = nil
	t.fbo = nil
}

func (t *target) Width() int {
	return t.width
}

func (t *target) Height() int {
	return t.height
}

func (t *target) Resize(width, height int) {
	if width == t.width && height == t.height && !t.empty() {
		return
	}
	t.free()
	t.width, t.height = width, height
	if err := t.allocate(); err != nil {
		log.Printf("resize: %v\n", err)
	}
}

func (t *target) BindColorAsTexture(attachment, unit int) {
	if t.empty() || attachment >= len(t.textures) {
		libgl.GlState.BindTextureUnit(unit, 0)
		return
	}
	t.textures[attachment].Bind(unit)
	t.device.sampler.Bind(unit)
}

func (t *target) UnbindTexture(unit int) {
	libgl.GlState.BindTextureUnit(unit, 0)
	libgl.GlState.BindSampler(unit, 0)
}

func (t *target) BindForWrite() {
	if t.empty() {
		return
	}
	t.fbo.Bind(gl.DRAW_FRAMEBUFFER)
	libgl.GlState.Viewport(0, 0, t.width, t.height)
}

func (t *target) UnbindForWrite() {
	if t.empty() {
		return
	}
	libgl.GlState.BindDrawFramebuffer(0)
}

func (t *target) RenderToQuad() {
	if t.empty() {
		return
	}
	t.BindForWrite()
	libgl.GlState.SetEnabled()
	libgl.DrawQuad()
	t.UnbindForWrite()
}

func (t *target) DrawFullscreenQuad() {
	if t.empty() {
		return
	}
	libgl.GlState.SetEnabled()
	libgl.DrawQuad()
}

func (t *target) Clear() {
	if t.empty() {
		return
	}
	black := [4]float32{0, 0, 0, 1}
	for i := range t.textures {
		gl.ClearNamedFramebufferfv(t.fbo.Id(), gl.COLOR, int32(i), &black[0])
	}
	if t.renderbuffer != nil {
		depth := float32(1)
		gl.ClearNamedFramebufferfv(t.fbo.Id(), gl.DEPTH, 0, &depth)
	}
}

func (t *target) Release() {
	t.free()
}
