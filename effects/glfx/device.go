// Package glfx implements the effects device on OpenGL 4.5 through libgl.
package glfx

import (
	"fmt"
	"io/fs"

	"postfx/effects"
	"postfx/libgl"
	"postfx/libio"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// Device creates targets, programs and lookup tables on the current context.
type Device struct {
	shaders    fs.FS
	screenSize func() (int, int)
	sampler    libgl.UnboundSampler
	lutSampler libgl.UnboundSampler
	defs       map[string]string
}

// NewDevice resolves shader paths against shaders. screenSize reports the
// default framebuffer size used by BindScreen.
func NewDevice(shaders fs.FS, screenSize func() (int, int)) *Device {
	sampler := libgl.NewSampler()
	sampler.FilterMode(gl.LINEAR, gl.LINEAR)
	sampler.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, 0)

	lutSampler := libgl.NewSampler()
	lutSampler.FilterMode(gl.LINEAR, gl.LINEAR)
	lutSampler.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE)

	return &Device{
		shaders:    shaders,
		screenSize: screenSize,
		sampler:    sampler,
		lutSampler: lutSampler,
	}
}

// SetDefines sets the preprocessor values used for every following NewProgram.
func (d *Device) SetDefines(defs map[string]string) {
	d.defs = defs
}

func (d *Device) NewTarget(spec effects.TargetSpec) (effects.Target, error) {
	t := &target{
		device: d,
		label:  spec.Label,
		width:  spec.Width,
		height: spec.Height,
		colors: spec.Color,
		depth:  spec.Depth,
	}
	if len(t.colors) == 0 {
		t.colors = []effects.ColorFormat{effects.RGBA8}
	}
	if len(t.colors) > libgl.MaxAttachments {
		return nil, fmt.Errorf("target %q: %d color attachments, at most %d supported", spec.Label, len(t.colors), libgl.MaxAttachments)
	}
	if err := t.allocate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (d *Device) loadStage(path string, stage int) (libgl.ShaderProgram, error) {
	source, err := fs.ReadFile(d.shaders, path)
	if err != nil {
		return nil, fmt.Errorf("load shader %v: %w", path, err)
	}
	shader := libgl.NewShader(string(source), stage)
	if err := shader.CompileWith(d.defs); err != nil {
		return nil, fmt.Errorf("compile %v: %w", path, err)
	}
	shader.SetDebugLabel(path)
	return shader, nil
}

func (d *Device) NewProgram(vertexPath, fragmentPath string) (effects.Program, error) {
	vert, err := d.loadStage(vertexPath, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	frag, err := d.loadStage(fragmentPath, gl.FRAGMENT_SHADER)
	if err != nil {
		vert.Destroy()
		return nil, err
	}

	pipeline := libgl.NewPipeline()
	pipeline.SetDebugLabel(fragmentPath)
	pipeline.Attach(vert, gl.VERTEX_SHADER_BIT)
	pipeline.Attach(frag, gl.FRAGMENT_SHADER_BIT)

	return &program{
		pipeline: pipeline,
		vert:     vert,
		frag:     frag,
	}, nil
}

// LutFormat is the internal format of uploaded lookup tables.
const LutFormat = gl.RGB16F

func (d *Device) NewLut(cube *libio.Cube) (effects.Texture, error) {
	if cube == nil {
		return nil, fmt.Errorf("lut: no cube")
	}
	if cube.Size < libio.MinCubeSize || cube.Size > libio.MaxCubeSize {
		return nil, fmt.Errorf("lut %q: size %d out of range", cube.Title, cube.Size)
	}
	if want := 3 * cube.Size * cube.Size * cube.Size; len(cube.Pix) != want {
		return nil, fmt.Errorf("lut %q: %d values, want %d", cube.Title, len(cube.Pix), want)
	}
	tex := libgl.NewTexture(gl.TEXTURE_3D)
	tex.SetDebugLabel("lut " + cube.Title)
	tex.Allocate(1, LutFormat, cube.Size, cube.Size, cube.Size)
	tex.Load(0, cube.Size, cube.Size, cube.Size, gl.RGB, cube.Pix)
	return &lut{texture: tex, sampler: d.lutSampler}, nil
}

func (d *Device) BindScreen() {
	libgl.GlState.BindDrawFramebuffer(0)
	w, h := d.screenSize()
	libgl.GlState.Viewport(0, 0, w, h)
}

func (d *Device) PushGroup(name string) {
	libgl.PushDebugGroup(name)
}

func (d *Device) PopGroup() {
	libgl.PopDebugGroup()
}

// Release deletes the shared samplers. Targets and programs are released by their owners.
func (d *Device) Release() {
	d.sampler.Delete()
	d.lutSampler.Delete()
}

// InternalFormat maps a color format to its sized GL internal format.
func InternalFormat(f effects.ColorFormat) (uint32, error) {
	switch f {
	case effects.RGBA8:
		return gl.RGBA8, nil
	case effects.RGBA16F:
		return gl.RGBA16F, nil
	}
	return 0, fmt.Errorf("unsupported color format %v", f)
}

// Framebuffer returns the framebuffer behind a target created by a Device,
// nil for other targets and empty ones.
func Framebuffer(t effects.Target) libgl.UnboundFramebuffer {
	if gt, ok := t.(*target); ok {
		return gt.fbo
	}
	return nil
}

type program struct {
	pipeline libgl.UnboundShaderPipeline
	vert     libgl.ShaderProgram
	frag     libgl.ShaderProgram
}

func (p *program) Bind() {
	p.pipeline.Bind()
}

func (p *program) Unbind() {
	libgl.GlState.BindProgramPipeline(0)
}

// SetUniform uploads to the fragment stage, the pass through vertex stage has no uniforms.
func (p *program) SetUniform(name string, value any) {
	p.frag.SetUniform(name, value)
}

func (p *program) Release() {
	p.pipeline.Delete()
	p.vert.Destroy()
	p.frag.Destroy()
}

type lut struct {
	texture libgl.UnboundTexture
	sampler libgl.UnboundSampler
}

func (l *lut) Bind(unit int) {
	l.texture.Bind(unit)
	l.sampler.Bind(unit)
}

func (l *lut) Unbind(unit int) {
	libgl.GlState.BindTextureUnit(unit, 0)
	libgl.GlState.BindSampler(unit, 0)
}

func (l *lut) Release() {
	l.texture.Delete()
}

var _ effects.Device = (*Device)(nil)
