package libgl

import (
	"fmt"
	"log"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type LabeledGlObject interface {
	SetDebugLabel(string)
}

func setObjectLabel(namespace, id uint32, label string) {
	if label == "" {
		return
	}
	bytes := []byte(label)
	gl.ObjectLabel(namespace, id, int32(len(bytes)), (*uint8)(unsafe.Pointer(&bytes[0])))
}

func PushDebugGroup(name string) {
	bytes := []byte(name)
	if len(bytes) == 0 {
		bytes = []byte("?")
	}
	gl.PushDebugGroup(gl.DEBUG_SOURCE_APPLICATION, 0, int32(len(bytes)), (*uint8)(unsafe.Pointer(&bytes[0])))
}

func PopDebugGroup() {
	gl.PopDebugGroup()
}

// DebugGroupStack tracks the names pushed through glPushDebugGroup so that
// high severity messages can report where they happened.
type DebugGroupStack struct {
	groups []string
}

func NewDebugGroupStack() *DebugGroupStack {
	return &DebugGroupStack{groups: []string{"top"}}
}

func (s *DebugGroupStack) Push(name string) {
	s.groups = append(s.groups, name)
}

func (s *DebugGroupStack) Pop() {
	// the root entry is never popped
	if len(s.groups) > 1 {
		s.groups = s.groups[:len(s.groups)-1]
	}
}

func (s *DebugGroupStack) String() string {
	return strings.Join(s.groups, " > ")
}

func debugSeverityString(severity uint32) string {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return "CRITICAL_ERROR"
	case gl.DEBUG_SEVERITY_MEDIUM:
		return "ERROR"
	case gl.DEBUG_SEVERITY_LOW:
		return "WARNING"
	case gl.DEBUG_SEVERITY_NOTIFICATION:
		return "INFO"
	}
	return "UNKNOWN"
}

func debugTypeString(gltype uint32) string {
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		return "ERROR"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		return "DEPRECATED_BEHAVIOR"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		return "UNDEFINED_BEHAVIOR"
	case gl.DEBUG_TYPE_PERFORMANCE:
		return "PERFORMANCE"
	case gl.DEBUG_TYPE_PORTABILITY:
		return "PORTABILITY"
	case gl.DEBUG_TYPE_OTHER:
		return "OTHER"
	case gl.DEBUG_TYPE_MARKER:
		return "MARKER"
	case gl.DEBUG_TYPE_PUSH_GROUP:
		return "PUSH_GROUP"
	case gl.DEBUG_TYPE_POP_GROUP:
		return "POP_GROUP"
	}
	return "UNKNOWN"
}

func debugSourceString(source uint32) string {
	switch source {
	case gl.DEBUG_SOURCE_API:
		return "GRAPHICS_LIBRARY"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		return "SHADER_COMPILER"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		return "WINDOW_SYSTEM"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		return "THIRD_PARTY"
	case gl.DEBUG_SOURCE_APPLICATION:
		return "APPLICATION"
	case gl.DEBUG_SOURCE_OTHER:
		return "OTHER"
	}
	return "UNKNOWN"
}

// FormatDebugMessage renders a debug message as "[SEVERITY] TYPE #id from SOURCE: message".
func FormatDebugMessage(source, gltype, id, severity uint32, message string) string {
	return fmt.Sprintf("[%v] %v #%v from %v: %v", debugSeverityString(severity), debugTypeString(gltype), id, debugSourceString(source), message)
}

// InstallDebugCallback enables synchronous debug output. High severity
// messages panic with the current debug group stack, everything else is logged.
func InstallDebugCallback() {
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	stack := NewDebugGroupStack()
	gl.DebugMessageCallback(
		func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
			if gltype == gl.DEBUG_TYPE_PUSH_GROUP {
				stack.Push(message)
				return
			} else if gltype == gl.DEBUG_TYPE_POP_GROUP {
				stack.Pop()
				return
			}
			msg := FormatDebugMessage(source, gltype, id, severity, message)
			if severity == gl.DEBUG_SEVERITY_HIGH {
				log.Panicf("%v\ndebug stack: %v", msg, stack)
			}
			log.Println(msg)
		}, nil)
	// buffer detailed info, shader recompiled based on state
	disabledMessages := []uint32{131185}
	gl.DebugMessageControl(gl.DEBUG_SOURCE_API, gl.DEBUG_TYPE_OTHER, gl.DONT_CARE, int32(len(disabledMessages)), &disabledMessages[0], false)
	disabledMessages = []uint32{131222}
	gl.DebugMessageControl(gl.DEBUG_SOURCE_API, gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR, gl.DONT_CARE, int32(len(disabledMessages)), &disabledMessages[0], false)
}
