package libgl

import (
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type GlCapability uint32

const (
	DepthTest   GlCapability = gl.DEPTH_TEST
	Blend       GlCapability = gl.BLEND
	ScissorTest GlCapability = gl.SCISSOR_TEST
	CullFace    GlCapability = gl.CULL_FACE
)

type GlBlendFactor uint32

const (
	BlendZero             GlBlendFactor = gl.ZERO
	BlendOne              GlBlendFactor = gl.ONE
	BlendSrcAlpha         GlBlendFactor = gl.SRC_ALPHA
	BlendOneMinusSrcAlpha GlBlendFactor = gl.ONE_MINUS_SRC_ALPHA
)

type GlBlendEquation uint32

const (
	BlendFuncAdd GlBlendEquation = gl.FUNC_ADD
)

type GlDepthFunc uint32

const (
	DepthFuncLess   GlDepthFunc = gl.LESS
	DepthFuncLEqual GlDepthFunc = gl.LEQUAL
	DepthFuncAlways GlDepthFunc = gl.ALWAYS
)

// GlStateManager mirrors the bits of GL state this module touches so redundant
// driver calls can be skipped. It must only be used from the context thread.
type GlStateManager struct {
	Caps                                   map[GlCapability]bool
	TextureUnits, SamplerUnits             []uint32
	DrawFramebuffer, ReadFramebuffer       uint32
	Renderbuffer                           uint32
	ArrayBuffer, ElementArrayBuffer        uint32
	ProgramPipeline, VertexArray           uint32
	ActiveTextureUnit                      int
	ViewportRect, ScissorRect              [4]int
	BlendRGBFactorSrc, BlendAlphaFactorSrc GlBlendFactor
	BlendRGBFactorDst, BlendAlphaFactorDst GlBlendFactor
	BlendEquationRGB, BlendEquationAlpha   GlBlendEquation
	DepthFuncFn                            GlDepthFunc
	DepthWriteMask                         bool
	ClearColorRGBA                         [4]float32
	PolygonModeFront, PolygonModeBack      uint32
}

var GlEnv *GlEnvironment

type GlEnvironment struct {
	Vendor                     string
	UseIntelTextureBindingFix  bool
	IntelTextureBindingTargets map[uint32]uint32
	Features                   GlFeatures
}

type GlFeatures struct {
	MaxTextureUnits int32
}

const (
	VendorIntel   = "intel"
	VendorNvidia  = "nvidia"
	VendorAmd     = "ati"
	VendorUnknown = "unknown"
)

func GetGlEnv() *GlEnvironment {
	vendor := ParseVendor(gl.GoStr(gl.GetString(gl.VENDOR)))

	features := GlFeatures{}
	gl.GetIntegerv(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, &features.MaxTextureUnits)

	return &GlEnvironment{
		Vendor:                     vendor,
		UseIntelTextureBindingFix:  vendor == VendorIntel,
		IntelTextureBindingTargets: map[uint32]uint32{},
		Features:                   features,
	}
}

// ParseVendor maps a GL_VENDOR string onto one of the Vendor constants.
func ParseVendor(vendor string) string {
	vendor = strings.ToLower(strings.TrimSuffix(vendor, "\x00"))
	switch {
	case strings.Contains(vendor, "intel"):
		return VendorIntel
	case strings.Contains(vendor, "nvidia"):
		return VendorNvidia
	case strings.Contains(vendor, "ati ") || strings.Contains(vendor, "amd"):
		return VendorAmd
	}
	return VendorUnknown
}

var GlState *GlStateManager

func NewGlStateManager() *GlStateManager {
	return &GlStateManager{
		Caps:         map[GlCapability]bool{},
		TextureUnits: make([]uint32, 32),
		SamplerUnits: make([]uint32, 32),
	}
}

func (s *GlStateManager) Enable(cap GlCapability) {
	if s.Caps[cap] {
		return
	}
	gl.Enable(uint32(cap))
	s.Caps[cap] = true
}

func (s *GlStateManager) SetEnabled(caps ...GlCapability) {
	diff := map[GlCapability]bool{}
	for c, v := range s.Caps {
		if v {
			diff[c] = false
		}
	}
	for _, c := range caps {
		diff[c] = true
	}
	for c, v := range diff {
		if v {
			s.Enable(c)
		} else {
			s.Disable(c)
		}
	}
}

func (s *GlStateManager) Disable(cap GlCapability) {
	if !s.Caps[cap] {
		return
	}
	gl.Disable(uint32(cap))
	s.Caps[cap] = false
}

func (s *GlStateManager) BlendFunc(sfactor, dfactor GlBlendFactor) {
	if s.BlendAlphaFactorSrc == sfactor && s.BlendRGBFactorSrc == sfactor && s.BlendAlphaFactorDst == dfactor && s.BlendRGBFactorDst == dfactor {
		return
	}
	gl.BlendFunc(uint32(sfactor), uint32(dfactor))
	s.BlendAlphaFactorSrc = sfactor
	s.BlendRGBFactorSrc = sfactor
	s.BlendAlphaFactorDst = dfactor
	s.BlendRGBFactorDst = dfactor
}

func (s *GlStateManager) BlendEquation(mode GlBlendEquation) {
	if s.BlendEquationAlpha == mode && s.BlendEquationRGB == mode {
		return
	}
	gl.BlendEquation(uint32(mode))
	s.BlendEquationAlpha = mode
	s.BlendEquationRGB = mode
}

func (s *GlStateManager) DepthFunc(fn GlDepthFunc) {
	if s.DepthFuncFn == fn {
		return
	}
	gl.DepthFunc(uint32(fn))
	s.DepthFuncFn = fn
}

func (s *GlStateManager) DepthMask(flag bool) {
	if s.DepthWriteMask == flag {
		return
	}
	gl.DepthMask(flag)
	s.DepthWriteMask = flag
}

func (s *GlStateManager) PolygonMode(face, mode uint32) {
	if face == gl.FRONT_AND_BACK && (s.PolygonModeFront != mode || s.PolygonModeBack != mode) {
		gl.PolygonMode(face, mode)
		s.PolygonModeBack = mode
		s.PolygonModeFront = mode
	}
}

func (s *GlStateManager) BindTextureUnit(unit int, texture uint32) {
	if s.TextureUnits[unit] == texture {
		return
	}
	if GlEnv.UseIntelTextureBindingFix {
		s.ActiveTextue(unit)
		if texture == 0 {
			gl.BindTexture(GlEnv.IntelTextureBindingTargets[s.TextureUnits[unit]], 0)
			s.TextureUnits[unit] = texture
			return
		}
		gl.BindTexture(GlEnv.IntelTextureBindingTargets[texture], texture)
		s.TextureUnits[unit] = texture
		return
	}
	gl.BindTextureUnit(uint32(unit), texture)
	s.TextureUnits[unit] = texture
}

func (s *GlStateManager) BindTexture(target uint32, texture uint32) {
	if s.TextureUnits[s.ActiveTextureUnit] == texture {
		return
	}
	gl.BindTexture(target, texture)
	s.TextureUnits[s.ActiveTextureUnit] = texture
}

func (s *GlStateManager) ActiveTextue(unit int) {
	if s.ActiveTextureUnit == unit {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	s.ActiveTextureUnit = unit
}

func (s *GlStateManager) BindSampler(unit int, sampler uint32) {
	if s.SamplerUnits[unit] == sampler {
		return
	}
	gl.BindSampler(uint32(unit), sampler)
	s.SamplerUnits[unit] = sampler
}

func (s *GlStateManager) BindBuffer(target uint32, buffer uint32) {
	switch target {
	case gl.ARRAY_BUFFER:
		if s.ArrayBuffer == buffer {
			return
		}
		s.ArrayBuffer = buffer
	case gl.ELEMENT_ARRAY_BUFFER:
		if s.ElementArrayBuffer == buffer {
			return
		}
		s.ElementArrayBuffer = buffer
	}
	gl.BindBuffer(target, buffer)
}

func (s *GlStateManager) BindFramebuffer(target, framebuffer uint32) {
	if target == gl.DRAW_FRAMEBUFFER {
		s.BindDrawFramebuffer(framebuffer)
	} else if target == gl.READ_FRAMEBUFFER {
		s.BindReadFramebuffer(framebuffer)
	} else {
		if framebuffer == s.DrawFramebuffer && framebuffer == s.ReadFramebuffer {
			return
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, framebuffer)
		s.DrawFramebuffer = framebuffer
		s.ReadFramebuffer = framebuffer
	}
}

func (s *GlStateManager) BindDrawFramebuffer(framebuffer uint32) {
	if s.DrawFramebuffer == framebuffer {
		return
	}
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, framebuffer)
	s.DrawFramebuffer = framebuffer
}

func (s *GlStateManager) BindReadFramebuffer(framebuffer uint32) {
	if s.ReadFramebuffer == framebuffer {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, framebuffer)
	s.ReadFramebuffer = framebuffer
}

func (s *GlStateManager) BindRenderbuffer(renderbuffer uint32) {
	if s.Renderbuffer == renderbuffer {
		return
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, renderbuffer)
	s.Renderbuffer = renderbuffer
}

func (s *GlStateManager) BindProgramPipeline(pipeline uint32) {
	if s.ProgramPipeline == pipeline {
		return
	}
	gl.BindProgramPipeline(pipeline)
	s.ProgramPipeline = pipeline
}

func (s *GlStateManager) BindVertexArray(array uint32) {
	if s.VertexArray == array {
		return
	}
	gl.BindVertexArray(array)
	s.VertexArray = array
}

func (s *GlStateManager) Viewport(x, y, w, h int) {
	if s.ViewportRect[0] == x && s.ViewportRect[1] == y && s.ViewportRect[2] == w && s.ViewportRect[3] == h {
		return
	}
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
	s.ViewportRect = [4]int{x, y, w, h}
}

func (s *GlStateManager) Scissor(x, y, w, h int) {
	if s.ScissorRect[0] == x && s.ScissorRect[1] == y && s.ScissorRect[2] == w && s.ScissorRect[3] == h {
		return
	}
	gl.Scissor(int32(x), int32(y), int32(w), int32(h))
	s.ScissorRect = [4]int{x, y, w, h}
}

func (s *GlStateManager) ClearColor(r, g, b, a float32) {
	if s.ClearColorRGBA[0] == r && s.ClearColorRGBA[1] == g && s.ClearColorRGBA[2] == b && s.ClearColorRGBA[3] == a {
		return
	}
	gl.ClearColor(r, g, b, a)
	s.ClearColorRGBA = [4]float32{r, g, b, a}
}
