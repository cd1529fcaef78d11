package libgl_test

import (
	"log"
	"os"
	"runtime"
	"testing"
	"unsafe"

	"postfx/libgl"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var onMain chan func()
var onMainDone chan struct{}

var glAvailable bool

func TestMain(m *testing.M) {
	runtime.LockOSThread()

	glAvailable = setupContext()
	if !glAvailable {
		os.Exit(m.Run())
	}
	defer glfw.Terminate()

	onMain = make(chan func())
	onMainDone = make(chan struct{})

	go func() {
		os.Exit(m.Run())
	}()

	for fn := range onMain {
		fn()
		onMainDone <- struct{}{}
	}
}

func setupContext() bool {
	if err := glfw.Init(); err != nil {
		log.Printf("no window system, skipping GL tests: %v", err)
		return false
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	ctx, err := glfw.CreateWindow(64, 64, "Testing Window", nil, nil)
	if err != nil {
		log.Printf("no GL 4.5 context, skipping GL tests: %v", err)
		glfw.Terminate()
		return false
	}
	ctx.MakeContextCurrent()

	err = gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		addr := glfw.GetProcAddress(name)
		if addr == nil {
			return unsafe.Pointer(uintptr(0xffff_ffff_ffff_ffff))
		}
		return addr
	})
	if err != nil {
		log.Printf("could not load GL functions, skipping GL tests: %v", err)
		glfw.Terminate()
		return false
	}

	libgl.GlEnv = libgl.GetGlEnv()
	libgl.GlState = libgl.NewGlStateManager()
	libgl.ShaderCache.Disabled = true
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		log.Printf("GL: %v\n", message)
	}, nil)
	return true
}

// runOnMain executes fn on the thread that owns the context.
func runOnMain(t *testing.T, fn func()) {
	t.Helper()
	if !glAvailable {
		t.Skip("no OpenGL context")
	}
	onMain <- fn
	<-onMainDone
}
