package effects

import (
	"postfx/libio"
)

// Shader sources, resolved by the Device against its file system.
const (
	PassthroughVert    = "shaders/passthrough.vert"
	PassthroughFrag    = "shaders/passthrough.frag"
	BrightPassFrag     = "shaders/bloom_bright_pass.frag"
	BlurHorizontalFrag = "shaders/bloom_blur_horizontal.frag"
	BlurVerticalFrag   = "shaders/bloom_blur_vertical.frag"
	CompositeFrag      = "shaders/bloom_composite.frag"
	SepiaFrag          = "shaders/sepia.frag"
	GreyscaleFrag      = "shaders/greyscale.frag"
	ColorCorrectFrag   = "shaders/color_correct.frag"
)

// Uniform names shared with the fragment stages.
const (
	UniformThreshold = "u_threshold"
	UniformPixelSize = "u_pixel_size"
	UniformIntensity = "u_intensity"
	UniformDomainMin = "u_domain_min"
	UniformDomainMax = "u_domain_max"
)

// LutUnit is the texture unit the colour correction pass samples its 3D table from.
const LutUnit = 30

type ColorFormat int

const (
	RGBA8 ColorFormat = iota
	RGBA16F
)

func (f ColorFormat) String() string {
	switch f {
	case RGBA8:
		return "RGBA8"
	case RGBA16F:
		return "RGBA16F"
	}
	return "unknown"
}

type TargetSpec struct {
	Label         string
	Width, Height int
	// Color lists one format per color attachment, empty means a single RGBA8 attachment.
	Color []ColorFormat
	Depth bool
}

// Source is anything whose color attachments can be sampled by a pass.
type Source interface {
	BindColorAsTexture(attachment, unit int)
	UnbindTexture(unit int)
}

// Target is an offscreen color + depth image pair. All attachments share one size.
type Target interface {
	Source
	Width() int
	Height() int
	// Resize reallocates every attachment, the contents are undefined afterwards.
	Resize(width, height int)
	BindForWrite()
	UnbindForWrite()
	// RenderToQuad draws a full screen quad with the bound program into this target.
	RenderToQuad()
	// DrawFullscreenQuad draws into whatever framebuffer is currently bound.
	DrawFullscreenQuad()
	Clear()
	Release()
}

type Program interface {
	Bind()
	Unbind()
	SetUniform(name string, value any)
	Release()
}

type Texture interface {
	Bind(unit int)
	Unbind(unit int)
	Release()
}

// Device creates GPU resources. It must only be used from the context thread.
type Device interface {
	NewTarget(spec TargetSpec) (Target, error)
	NewProgram(vertexPath, fragmentPath string) (Program, error)
	NewLut(cube *libio.Cube) (Texture, error)
	// BindScreen binds the default framebuffer with the window viewport.
	BindScreen()
	PushGroup(name string)
	PopGroup()
}
