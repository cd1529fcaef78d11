package main

import (
	"flag"
	"log"
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"postfx/assets"
	"postfx/effects"
	"postfx/effects/glfx"
	"postfx/libgl"
	"postfx/libio"
)

var Arguments struct {
	ConfigPath                 string
	DisableShaderCache         bool
	EnableCompatibilityProfile bool
	Width, Height              int
}

func main() {
	flag.StringVar(&Arguments.ConfigPath, "config", "viewer.yaml", "path to the yaml config")
	flag.BoolVar(&Arguments.DisableShaderCache, "disable-shader-cache", Arguments.DisableShaderCache, "")
	flag.BoolVar(&Arguments.EnableCompatibilityProfile, "enable-compatibility-profile", Arguments.EnableCompatibilityProfile, "")
	flag.IntVar(&Arguments.Width, "width", 0, "window width, overrides the config")
	flag.IntVar(&Arguments.Height, "height", 0, "window height, overrides the config")
	flag.Parse()

	cfg, err := LoadConfig(Arguments.ConfigPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if Arguments.Width > 0 {
		cfg.Window.Width = Arguments.Width
	}
	if Arguments.Height > 0 {
		cfg.Window.Height = Arguments.Height
	}
	libgl.ShaderCache.Disabled = Arguments.DisableShaderCache

	runtime.LockOSThread()
	err = glfw.Init()
	check(err)
	defer glfw.Terminate()

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	if Arguments.EnableCompatibilityProfile {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	} else {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	}
	win, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	check(err)
	win.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	err = gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		addr := glfw.GetProcAddress(name)
		if addr == nil {
			return unsafe.Pointer(uintptr(0xffff_ffff_ffff_ffff))
		}
		return addr
	})
	check(err)

	libgl.GlEnv = libgl.GetGlEnv()
	libgl.GlState = libgl.NewGlStateManager()
	libgl.InstallDebugCallback()

	device := glfx.NewDevice(assets.Shaders, win.GetFramebufferSize)
	defer device.Release()

	fbWidth, fbHeight := win.GetFramebufferSize()
	chain := effects.NewChain(device)
	configureEffects(chain, cfg.Effects)
	check(chain.Init(fbWidth, fbHeight))
	defer chain.Release()

	scene, err := NewScene(assets.Shaders, cfg.Scene)
	check(err)
	defer scene.Delete()

	imguiShader, err := loadPipeline(assets.Shaders, "imgui")
	check(err)
	defer deletePipeline(imguiShader)
	gui := NewImGui(win, imguiShader)
	defer gui.Delete()

	panel := NewPanel(chain, scene, cfg.Effects.Lut)
	panel.SetLighting(cfg.Scene.Lighting)

	cam := &Camera{
		Position:          mgl32.Vec3{0, 1.5, 4},
		Orientation:       mgl32.Vec3{15, 0, 0},
		VerticalFov:       70,
		ViewportDimension: mgl32.Vec2{float32(fbWidth), float32(fbHeight)},
		ClippingPlanes:    mgl32.Vec2{0.1, 100},
	}
	cam.UpdateProjectionMatrix()

	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		chain.Reshape(width, height)
		cam.ViewportDimension = mgl32.Vec2{float32(width), float32(height)}
		cam.UpdateProjectionMatrix()
	})

	input := NewInput(win)
	lightingKeys := []glfw.Key{glfw.Key0, glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4}

	for !win.ShouldClose() {
		glfw.PollEvents()
		input.Update(win)
		input.Capture(gui.IO.WantCaptureKeyboard(), gui.IO.WantCaptureMouse())

		if input.IsKeyTap(glfw.KeyEscape) {
			win.SetShouldClose(true)
		}
		for mode, key := range lightingKeys {
			if input.IsKeyTap(key) {
				panel.SetLighting(mode)
			}
		}

		movement := input.Movement(glfw.KeyW, glfw.KeyS, glfw.KeyA, glfw.KeyD, glfw.KeySpace, glfw.KeyLeftControl)
		if movement.LenSqr() != 0 {
			movement = movement.Normalize().Mul(input.TimeDelta() * 2)
			cam.Fly(movement)
		}
		if input.IsMouseDown(glfw.MouseButtonRight) {
			rotation := input.CursorDelta()
			cam.Orientation[0] += rotation[1] * 0.35
			cam.Orientation[1] += rotation[0] * 0.35
		}
		cam.UpdateViewMatrix()

		chain.BeginScene()
		scene.Draw(cam)
		chain.EndScene()
		chain.Present()

		if input.IsKeyTap(glfw.KeyF12) || panel.CaptureRequested() {
			if err := captureEffect(cfg.Capture, chain.Effect(chain.Active())); err != nil {
				log.Printf("capture failed: %v", err)
			}
		}

		gui.NewFrame()
		panel.Draw(input.TimeDelta())
		gui.Draw(win)

		win.SwapBuffers()
	}
}

// configureEffects applies the effect parameters from cfg before the chain is initialized.
func configureEffects(chain *effects.Chain, cfg EffectsConfig) {
	chain.Effect(effects.KindSepia).Tone().SetIntensity(cfg.Sepia.Intensity)
	chain.Effect(effects.KindGreyscale).Tone().SetIntensity(cfg.Greyscale.Intensity)

	bloom := chain.Effect(effects.KindBloom).Bloom()
	bloom.SetDownscale(cfg.Bloom.Downscale)
	bloom.SetThreshold(cfg.Bloom.Threshold)
	bloom.SetPasses(cfg.Bloom.Passes)

	if cfg.Lut != "" {
		cube, err := libio.OpenCube(cfg.Lut)
		if err != nil {
			log.Printf("lut %v not loaded: %v", cfg.Lut, err)
		} else if err := chain.Effect(effects.KindColorCorrect).Grade().SetLut(cube); err != nil {
			log.Printf("lut %v not set: %v", cfg.Lut, err)
		}
	}

	// validated by LoadConfig
	kind, _ := effects.ParseKind(cfg.Active)
	chain.SetActive(kind)
}

func check(err error) {
	if err != nil {
		log.Panic(err)
	}
}
