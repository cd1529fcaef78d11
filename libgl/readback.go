package libgl

import (
	"fmt"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// PixelDump holds RGBA float pixels of one framebuffer attachment, bottom row first.
type PixelDump struct {
	Name          string
	Width, Height int
	Data          []float32
}

// ReadColorAttachment reads color attachment index of fbo as RGBA floats.
func ReadColorAttachment(fbo UnboundFramebuffer, index int) (*PixelDump, error) {
	attachment := uint32(gl.COLOR_ATTACHMENT0 + index)
	var attachmentType, attachmentId int32
	gl.GetNamedFramebufferAttachmentParameteriv(fbo.Id(), attachment, gl.FRAMEBUFFER_ATTACHMENT_OBJECT_TYPE, &attachmentType)
	if attachmentType != gl.TEXTURE {
		return nil, fmt.Errorf("color attachment %d of framebuffer %d is not a texture", index, fbo.Id())
	}
	gl.GetNamedFramebufferAttachmentParameteriv(fbo.Id(), attachment, gl.FRAMEBUFFER_ATTACHMENT_OBJECT_NAME, &attachmentId)
	if attachmentId <= 0 {
		return nil, fmt.Errorf("color attachment %d of framebuffer %d is empty", index, fbo.Id())
	}

	var width, height int32
	gl.GetTextureLevelParameteriv(uint32(attachmentId), 0, gl.TEXTURE_WIDTH, &width)
	gl.GetTextureLevelParameteriv(uint32(attachmentId), 0, gl.TEXTURE_HEIGHT, &height)
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("color attachment %d of framebuffer %d has no pixels", index, fbo.Id())
	}

	buf := make([]float32, 4*width*height)
	previous := GlState.ReadFramebuffer
	fbo.Bind(gl.READ_FRAMEBUFFER)
	gl.NamedFramebufferReadBuffer(fbo.Id(), attachment)
	gl.ReadnPixels(0, 0, width, height, gl.RGBA, gl.FLOAT, int32(len(buf)*4), Pointer(buf))
	GlState.BindReadFramebuffer(previous)

	return &PixelDump{
		Name:   fmt.Sprintf("color-attachment-%d", index),
		Width:  int(width),
		Height: int(height),
		Data:   buf,
	}, nil
}
