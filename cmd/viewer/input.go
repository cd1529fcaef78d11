package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Input polls the window once per frame and keeps the previous frame for edge detection.
type Input struct {
	curr inputState
	prev inputState
	// set when the gui owns the keyboard or mouse this frame
	captureKeyboard bool
	captureMouse    bool
}

type inputState struct {
	time         float32
	cursorPos    mgl32.Vec2
	keys         []bool
	mousebuttons []bool
}

func newInputState() inputState {
	return inputState{
		keys:         make([]bool, glfw.KeyLast+1),
		mousebuttons: make([]bool, glfw.MouseButtonLast+1),
	}
}

func NewInput(win *glfw.Window) *Input {
	i := &Input{
		curr: newInputState(),
		prev: newInputState(),
	}

	i.Update(win)
	i.prev.cursorPos = i.curr.cursorPos
	// dTime must not be 0
	i.prev.time = i.curr.time - 1./60.
	copy(i.prev.keys, i.curr.keys)
	copy(i.prev.mousebuttons, i.curr.mousebuttons)

	return i
}

// Capture marks keyboard and mouse as taken by the gui for the current frame.
func (i *Input) Capture(keyboard, mouse bool) {
	i.captureKeyboard = keyboard
	i.captureMouse = mouse
}

func (i *Input) CursorDelta() mgl32.Vec2 {
	return i.curr.cursorPos.Sub(i.prev.cursorPos)
}

func (i *Input) TimeDelta() float32 {
	return i.curr.time - i.prev.time
}

func (i *Input) IsKeyDown(key glfw.Key) bool {
	return !i.captureKeyboard && i.curr.keys[key]
}

func (i *Input) IsKeyTap(key glfw.Key) bool {
	return !i.captureKeyboard && i.curr.keys[key] && !i.prev.keys[key]
}

func (i *Input) IsMouseDown(button glfw.MouseButton) bool {
	return !i.captureMouse && i.curr.mousebuttons[button]
}

func (i *Input) Movement(forward, backward, left, right, up, down glfw.Key) mgl32.Vec3 {
	var v mgl32.Vec3
	axes := []struct {
		key   glfw.Key
		axis  int
		value float32
	}{
		{forward, 2, -1}, {backward, 2, 1},
		{left, 0, -1}, {right, 0, 1},
		{up, 1, 1}, {down, 1, -1},
	}
	for _, a := range axes {
		if a.key != 0 && i.IsKeyDown(a.key) {
			v[a.axis] += a.value
		}
	}
	return v
}

func (i *Input) Update(win *glfw.Window) {
	keys := i.prev.keys
	mousebuttons := i.prev.mousebuttons
	i.prev = i.curr
	cursorX, cursorY := win.GetCursorPos()

	// glfw has no keys below space
	for key := int(glfw.KeySpace); key <= int(glfw.KeyLast); key++ {
		keys[key] = win.GetKey(glfw.Key(key)) != glfw.Release
	}

	for button := 0; button <= int(glfw.MouseButtonLast); button++ {
		mousebuttons[button] = win.GetMouseButton(glfw.MouseButton(button)) != glfw.Release
	}

	i.curr = inputState{
		time:         float32(glfw.GetTime()),
		cursorPos:    mgl32.Vec2{float32(cursorX), float32(cursorY)},
		keys:         keys,
		mousebuttons: mousebuttons,
	}
}
