package effects

import (
	"fmt"
)

type Kind int

const (
	KindPassthrough Kind = iota
	KindSepia
	KindGreyscale
	KindColorCorrect
	KindBloom
	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindPassthrough:
		return "No Effect"
	case KindSepia:
		return "Sepia"
	case KindGreyscale:
		return "Greyscale"
	case KindColorCorrect:
		return "Color Correct"
	case KindBloom:
		return "Bloom"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the names used in configuration files.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "none", "passthrough":
		return KindPassthrough, nil
	case "sepia":
		return KindSepia, nil
	case "greyscale", "grayscale":
		return KindGreyscale, nil
	case "color_correct", "lut":
		return KindColorCorrect, nil
	case "bloom":
		return KindBloom, nil
	}
	return 0, fmt.Errorf("unknown effect %q", name)
}

// Effect is one post effect variant. Exactly the field matching Kind is set.
type Effect struct {
	kind        Kind
	passthrough *Passthrough
	tone        *Tone
	grade       *Grade
	bloom       *Bloom
}

// New creates an uninitialized effect of the given kind.
func New(kind Kind, device Device) *Effect {
	e := &Effect{kind: kind}
	switch kind {
	case KindPassthrough:
		e.passthrough = NewPassthrough(device)
	case KindSepia:
		e.tone = NewSepia(device)
	case KindGreyscale:
		e.tone = NewGreyscale(device)
	case KindColorCorrect:
		e.grade = NewColorCorrect(device)
	case KindBloom:
		e.bloom = NewBloom(device)
	default:
		panic(fmt.Sprintf("invalid effect kind %d", int(kind)))
	}
	return e
}

func (e *Effect) Kind() Kind {
	return e.kind
}

// Passthrough returns the variant state or nil if e is a different kind.
func (e *Effect) Passthrough() *Passthrough {
	return e.passthrough
}

// Tone returns the sepia or greyscale state or nil.
func (e *Effect) Tone() *Tone {
	return e.tone
}

func (e *Effect) Grade() *Grade {
	return e.grade
}

func (e *Effect) Bloom() *Bloom {
	return e.bloom
}

func Init(e *Effect, width, height int) error {
	var err error
	switch e.kind {
	case KindPassthrough:
		err = e.passthrough.Init(width, height)
	case KindSepia, KindGreyscale:
		err = e.tone.Init(width, height)
	case KindColorCorrect:
		err = e.grade.Init(width, height)
	case KindBloom:
		err = e.bloom.Init(width, height)
	}
	if err != nil {
		return fmt.Errorf("init %v: %w", e.kind, err)
	}
	return nil
}

// Apply transforms input into the effect's output target.
func Apply(e *Effect, input Source) {
	switch e.kind {
	case KindPassthrough:
		e.passthrough.Apply(input)
	case KindSepia, KindGreyscale:
		e.tone.Apply(input)
	case KindColorCorrect:
		e.grade.Apply(input)
	case KindBloom:
		e.bloom.Apply(input)
	}
}

func Reshape(e *Effect, width, height int) {
	switch e.kind {
	case KindPassthrough:
		e.passthrough.Reshape(width, height)
	case KindSepia, KindGreyscale:
		e.tone.Reshape(width, height)
	case KindColorCorrect:
		e.grade.Reshape(width, height)
	case KindBloom:
		e.bloom.Reshape(width, height)
	}
}

func Clear(e *Effect) {
	switch e.kind {
	case KindPassthrough:
		e.passthrough.Clear()
	case KindSepia, KindGreyscale:
		e.tone.Clear()
	case KindColorCorrect:
		e.grade.Clear()
	case KindBloom:
		e.bloom.Clear()
	}
}

func DrawToScreen(e *Effect) {
	switch e.kind {
	case KindPassthrough:
		e.passthrough.DrawToScreen()
	case KindSepia, KindGreyscale:
		e.tone.DrawToScreen()
	case KindColorCorrect:
		e.grade.DrawToScreen()
	case KindBloom:
		e.bloom.DrawToScreen()
	}
}

// BindBuffer binds the effect's target index for rendering.
func BindBuffer(e *Effect, index int) {
	switch e.kind {
	case KindPassthrough:
		e.passthrough.BindBuffer(index)
	case KindSepia, KindGreyscale:
		e.tone.BindBuffer(index)
	case KindColorCorrect:
		e.grade.BindBuffer(index)
	case KindBloom:
		e.bloom.BindBuffer(index)
	}
}

func UnbindBuffer(e *Effect) {
	switch e.kind {
	case KindPassthrough:
		e.passthrough.UnbindBuffer()
	case KindSepia, KindGreyscale:
		e.tone.UnbindBuffer()
	case KindColorCorrect:
		e.grade.UnbindBuffer()
	case KindBloom:
		e.bloom.UnbindBuffer()
	}
}

// Output returns the target holding the effect's result.
func Output(e *Effect) Target {
	switch e.kind {
	case KindPassthrough:
		return e.passthrough.Output()
	case KindSepia, KindGreyscale:
		return e.tone.Output()
	case KindColorCorrect:
		return e.grade.Output()
	case KindBloom:
		return e.bloom.Output()
	}
	return nil
}

// Targets lists every target the effect owns, in index order.
func Targets(e *Effect) []Target {
	if e.kind == KindBloom {
		return e.bloom.targets[:]
	}
	return []Target{Output(e)}
}

func Release(e *Effect) {
	switch e.kind {
	case KindPassthrough:
		e.passthrough.Release()
	case KindSepia, KindGreyscale:
		e.tone.Release()
	case KindColorCorrect:
		e.grade.Release()
	case KindBloom:
		e.bloom.Release()
	}
}
