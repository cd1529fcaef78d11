package main

import (
	"fmt"
	"io/fs"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"postfx/libgl"
)

// Lighting modes of the scene shader, lightingBloom also switches the active effect to bloom.
const (
	lightingNone = iota
	lightingAmbient
	lightingSpecular
	lightingFull
	lightingBloom
)

var lightingNames = []string{"No Lighting", "Ambient", "Specular", "Ambient + Specular + Diffuse", "Full + Bloom"}

const checkerSize = 64

type Scene struct {
	Lighting      int
	Textured      bool
	LightPosition mgl32.Vec3
	LightColor    mgl32.Vec3
	Ambient       float32
	Specular      float32
	Shininess     float32

	pipeline libgl.UnboundShaderPipeline
	vert     libgl.ShaderProgram
	frag     libgl.ShaderProgram
	albedo   libgl.UnboundTexture
	sampler  libgl.UnboundSampler
	dd       *DirectBuffer
}

// loadPipeline compiles a vertex and fragment stage from shaders/<name>.vert and .frag.
func loadPipeline(shaders fs.FS, name string) (libgl.UnboundShaderPipeline, error) {
	pipeline := libgl.NewPipeline()
	pipeline.SetDebugLabel(name)
	stages := []struct {
		ext   string
		stage int
		bit   int
	}{
		{"vert", gl.VERTEX_SHADER, gl.VERTEX_SHADER_BIT},
		{"frag", gl.FRAGMENT_SHADER, gl.FRAGMENT_SHADER_BIT},
	}
	var compiled []libgl.ShaderProgram
	fail := func(err error) (libgl.UnboundShaderPipeline, error) {
		for _, prog := range compiled {
			prog.Destroy()
		}
		pipeline.Delete()
		return nil, err
	}
	for _, s := range stages {
		path := fmt.Sprintf("shaders/%s.%s", name, s.ext)
		source, err := fs.ReadFile(shaders, path)
		if err != nil {
			return fail(err)
		}
		prog := libgl.NewShader(string(source), s.stage)
		if err := prog.Compile(); err != nil {
			return fail(fmt.Errorf("%v: %w", path, err))
		}
		compiled = append(compiled, prog)
		prog.SetDebugLabel(path)
		pipeline.Attach(prog, s.bit)
	}
	return pipeline, nil
}

// deletePipeline deletes a pipeline made by loadPipeline together with its stages.
func deletePipeline(pipeline libgl.UnboundShaderPipeline) {
	vert, frag := pipeline.Get(gl.VERTEX_SHADER), pipeline.Get(gl.FRAGMENT_SHADER)
	pipeline.Delete()
	vert.Destroy()
	frag.Destroy()
}

func NewScene(shaders fs.FS, cfg SceneConfig) (*Scene, error) {
	pipeline, err := loadPipeline(shaders, "direct")
	if err != nil {
		return nil, err
	}

	albedo := libgl.NewTexture(gl.TEXTURE_2D)
	albedo.SetDebugLabel("checker")
	albedo.Allocate(0, gl.RGBA8, checkerSize, checkerSize, 0)
	albedo.Load(0, checkerSize, checkerSize, 0, gl.RGBA, checkerPixels(checkerSize, 8))
	albedo.GenerateMipmap()

	sampler := libgl.NewSampler()
	sampler.FilterMode(gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR)
	sampler.WrapMode(gl.REPEAT, gl.REPEAT, 0)

	return &Scene{
		Lighting:      cfg.Lighting,
		Textured:      cfg.Textured,
		LightPosition: mgl32.Vec3{1.5, 2.5, 1.5},
		LightColor:    mgl32.Vec3{1, 0.95, 0.85},
		Ambient:       0.15,
		Specular:      0.8,
		Shininess:     32,
		pipeline:      pipeline,
		vert:          pipeline.Get(gl.VERTEX_SHADER),
		frag:          pipeline.Get(gl.FRAGMENT_SHADER),
		albedo:        albedo,
		sampler:       sampler,
		dd:            NewDirectDrawBuffer(),
	}, nil
}

// checkerPixels returns a size x size RGBA checker board with cells of the given size.
func checkerPixels(size, cell int) []uint8 {
	pix := make([]uint8, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(90)
			if (x/cell+y/cell)%2 == 0 {
				v = 255
			}
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return pix
}

// condition maps the lighting mode to the shader's u_condition.
func (s *Scene) condition() int32 {
	if s.Lighting == lightingBloom {
		return lightingFull
	}
	return int32(s.Lighting)
}

func (s *Scene) populate() {
	dd := s.dd
	dd.Shaded()
	dd.Color(0.8, 0.8, 0.8)
	dd.Plane(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 4)

	dd.Color(0.9, 0.3, 0.2)
	dd.UvSphere(mgl32.Vec3{-1, 0.6, 0}, 0.6)
	dd.Color(0.2, 0.5, 0.9)
	dd.Cube(mgl32.Vec3{1, 0.5, -0.5}, 0.5)
	dd.Color(0.95, 0.85, 0.3)
	dd.UvSphere(mgl32.Vec3{0.3, 0.35, 1.2}, 0.35)

	// the light itself is unshaded and bright enough to bloom
	dd.Unshaded()
	dd.Light3(s.LightColor)
	dd.UvSphere(s.LightPosition, 0.08)
}

// Draw renders the scene into the bound framebuffer.
func (s *Scene) Draw(cam *Camera) {
	libgl.PushDebugGroup("scene")
	defer libgl.PopDebugGroup()

	libgl.GlState.SetEnabled(libgl.DepthTest)
	libgl.GlState.DepthFunc(libgl.DepthFuncLess)
	libgl.GlState.DepthMask(true)

	s.pipeline.Bind()
	s.vert.SetUniform("u_view_projection_mat", cam.ProjectionMatrix.Mul4(cam.ViewMatrix))
	s.frag.SetUniform("u_camera_position", cam.Position)
	s.frag.SetUniform("u_light_position", s.LightPosition)
	s.frag.SetUniform("u_light_color", s.LightColor)
	s.frag.SetUniform("u_condition", s.condition())
	s.frag.SetUniform("u_textured", s.Textured)
	s.frag.SetUniform("u_ambient_strength", s.Ambient)
	s.frag.SetUniform("u_specular_strength", s.Specular)
	s.frag.SetUniform("u_shininess", s.Shininess)

	s.albedo.Bind(0)
	s.sampler.Bind(0)

	s.populate()
	s.dd.Draw()

	libgl.GlState.BindTextureUnit(0, 0)
	libgl.GlState.BindSampler(0, 0)
	libgl.GlState.BindProgramPipeline(0)
}

func (s *Scene) Delete() {
	s.dd.Delete()
	s.albedo.Delete()
	s.sampler.Delete()
	deletePipeline(s.pipeline)
}
