package main

import (
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v4"

	"postfx/libgl"
)

type ImGui struct {
	IO        imgui.IO
	context   *imgui.Context
	FrameTime float32
	vao       libgl.UnboundVertexArray
	vbo       libgl.UnboundBuffer
	ebo       libgl.UnboundBuffer
	atlas     libgl.UnboundTexture
	shader    libgl.UnboundShaderPipeline
}

func NewImGui(win *glfw.Window, shader libgl.UnboundShaderPipeline) *ImGui {
	context := imgui.CreateContext(nil)

	io := imgui.CurrentIO()
	dispWidth, dispHeight := win.GetSize()
	io.SetDisplaySize(imgui.Vec2{X: float32(dispWidth), Y: float32(dispHeight)})
	imgui.StyleColorsDark()

	vertexSize, vertexOffsetPos, vertexOffsetUv, vertexOffsetCol := imgui.VertexBufferLayout()
	vao := libgl.NewVertexArray()
	vao.SetDebugLabel("imgui")
	vao.Layout(0, 0, 2, gl.FLOAT, false, vertexOffsetPos)
	vao.Layout(0, 1, 2, gl.FLOAT, false, vertexOffsetUv)
	vao.Layout(0, 2, 4, gl.UNSIGNED_BYTE, true, vertexOffsetCol)

	vbo := libgl.NewBuffer()
	vbo.SetDebugLabel("imgui vertices")
	vbo.AllocateEmptyMutable(1<<16, gl.STREAM_DRAW)
	vao.BindBuffer(0, vbo, 0, vertexSize)

	ebo := libgl.NewBuffer()
	ebo.SetDebugLabel("imgui indices")
	ebo.AllocateEmptyMutable(1<<15, gl.STREAM_DRAW)
	vao.BindElementBuffer(ebo)

	image := io.Fonts().TextureDataRGBA32()
	atlas := libgl.NewTexture(gl.TEXTURE_2D)
	atlas.SetDebugLabel("imgui font atlas")
	atlas.Allocate(1, gl.RGBA8, image.Width, image.Height, 0)
	atlas.Load(0, image.Width, image.Height, 0, gl.RGBA, unsafe.Slice((*byte)(image.Pixels), image.Width*image.Height*4))
	io.Fonts().SetTextureID(imgui.TextureID(atlas.Id()))

	win.SetCursorPosCallback(func(w *glfw.Window, mx, my float64) {
		io.SetMousePosition(imgui.Vec2{X: float32(mx), Y: float32(my)})
	})
	win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		io.SetMouseButtonDown(int(button), action == glfw.Press)
	})
	win.SetScrollCallback(func(w *glfw.Window, x, y float64) {
		io.AddMouseWheelDelta(float32(x), float32(y))
	})
	win.SetCharCallback(func(w *glfw.Window, char rune) {
		io.AddInputCharacters(string(char))
	})
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press {
			io.KeyPress(int(key))
		}
		if action == glfw.Release {
			io.KeyRelease(int(key))
		}

		// Modifiers are not reliable across systems
		io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
		io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
		io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
		io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
	})

	keys := map[int]glfw.Key{
		imgui.KeyTab:        glfw.KeyTab,
		imgui.KeyLeftArrow:  glfw.KeyLeft,
		imgui.KeyRightArrow: glfw.KeyRight,
		imgui.KeyUpArrow:    glfw.KeyUp,
		imgui.KeyDownArrow:  glfw.KeyDown,
		imgui.KeyPageUp:     glfw.KeyPageUp,
		imgui.KeyPageDown:   glfw.KeyPageDown,
		imgui.KeyHome:       glfw.KeyHome,
		imgui.KeyEnd:        glfw.KeyEnd,
		imgui.KeyInsert:     glfw.KeyInsert,
		imgui.KeyDelete:     glfw.KeyDelete,
		imgui.KeyBackspace:  glfw.KeyBackspace,
		imgui.KeySpace:      glfw.KeySpace,
		imgui.KeyEnter:      glfw.KeyEnter,
		imgui.KeyEscape:     glfw.KeyEscape,
		imgui.KeyA:          glfw.KeyA,
		imgui.KeyC:          glfw.KeyC,
		imgui.KeyV:          glfw.KeyV,
		imgui.KeyX:          glfw.KeyX,
		imgui.KeyY:          glfw.KeyY,
		imgui.KeyZ:          glfw.KeyZ,
	}
	for imKey, glfwKey := range keys {
		io.KeyMap(imKey, int(glfwKey))
	}

	return &ImGui{
		IO:        io,
		context:   context,
		FrameTime: float32(glfw.GetTime()),
		vao:       vao,
		vbo:       vbo,
		ebo:       ebo,
		atlas:     atlas,
		shader:    shader,
	}
}

func (gui *ImGui) NewFrame() {
	imgui.NewFrame()
}

func (gui *ImGui) Draw(win *glfw.Window) {
	libgl.PushDebugGroup("imgui")
	defer libgl.PopDebugGroup()

	dispWidth, dispHeight := win.GetSize()
	fbWidth, fbHeight := win.GetFramebufferSize()
	if dispWidth == 0 || dispHeight == 0 {
		imgui.Render()
		return
	}
	libgl.GlState.BindDrawFramebuffer(0)
	libgl.GlState.Viewport(0, 0, fbWidth, fbHeight)
	gui.IO.SetDisplaySize(imgui.Vec2{X: float32(dispWidth), Y: float32(dispHeight)})
	ortho := mgl32.Ortho2D(0, float32(dispWidth), float32(dispHeight), 0)

	time := float32(glfw.GetTime())
	gui.IO.SetDeltaTime(time - gui.FrameTime)
	gui.FrameTime = time

	gui.vao.Bind()
	gui.shader.Bind()
	gui.shader.Get(gl.VERTEX_SHADER).SetUniform("u_proj_mat", ortho)

	libgl.GlState.SetEnabled(libgl.Blend, libgl.ScissorTest)
	libgl.GlState.BlendEquation(libgl.BlendFuncAdd)
	libgl.GlState.BlendFunc(libgl.BlendSrcAlpha, libgl.BlendOneMinusSrcAlpha)
	libgl.GlState.BindSampler(0, 0)

	imgui.Render()
	drawData := imgui.RenderedDrawData()
	drawData.ScaleClipRects(imgui.Vec2{
		X: float32(fbWidth) / float32(dispWidth),
		Y: float32(fbHeight) / float32(dispHeight),
	})

	var indexType uint32
	indexSize := imgui.IndexBufferLayout()
	switch indexSize {
	case 1:
		indexType = gl.UNSIGNED_BYTE
	case 2:
		indexType = gl.UNSIGNED_SHORT
	case 4:
		indexType = gl.UNSIGNED_INT
	}

	for _, list := range drawData.CommandLists() {
		vertexBuffer, vertexBufferSize := list.VertexBuffer()
		gui.vbo.Grow(vertexBufferSize)
		if vertexBufferSize > 0 {
			gui.vbo.WriteRange(0, vertexBufferSize, vertexBuffer)
		}

		indexBuffer, indexBufferSize := list.IndexBuffer()
		gui.ebo.Grow(indexBufferSize)
		if indexBufferSize > 0 {
			gui.ebo.WriteRange(0, indexBufferSize, indexBuffer)
		}

		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
				continue
			}
			libgl.GlState.BindTextureUnit(0, uint32(cmd.TextureID()))
			clipRect := cmd.ClipRect()
			x, y := int(clipRect.X), fbHeight-int(clipRect.W)
			if y <= 0 {
				y = 0
			}
			libgl.GlState.Scissor(x, y, int(clipRect.Z-clipRect.X), int(clipRect.W-clipRect.Y))
			gl.DrawElementsBaseVertexWithOffset(gl.TRIANGLES, int32(cmd.ElementCount()), indexType, uintptr(cmd.IndexOffset()*indexSize), int32(cmd.VertexOffset()))
		}
	}

	libgl.GlState.BindTextureUnit(0, 0)
	libgl.GlState.SetEnabled()
}

func (gui *ImGui) Delete() {
	gui.vao.Delete()
	gui.vbo.Delete()
	gui.ebo.Delete()
	gui.atlas.Delete()
	gui.context.Destroy()
}
