package effects

import (
	"fmt"
	"log"
)

// filter is the single target, single program pass the simple effects are built on.
type filter struct {
	device   Device
	name     string
	fragment string
	target   Target
	program  Program
	// passthrough program used to present the target, same as program for the copy filter
	present Program
}

func newFilter(device Device, name, fragment string) filter {
	return filter{
		device:   device,
		name:     name,
		fragment: fragment,
	}
}

func (f *filter) init(width, height int) (err error) {
	f.release()
	defer func() {
		if err != nil {
			f.release()
		}
	}()

	f.target, err = f.device.NewTarget(TargetSpec{
		Label:  f.name,
		Width:  width,
		Height: height,
		Color:  []ColorFormat{RGBA8},
		Depth:  true,
	})
	if err != nil {
		return fmt.Errorf("%s target: %w", f.name, err)
	}

	f.program, err = f.device.NewProgram(PassthroughVert, f.fragment)
	if err != nil {
		return fmt.Errorf("%s program: %w", f.name, err)
	}

	if f.fragment == PassthroughFrag {
		f.present = f.program
		return nil
	}
	f.present, err = f.device.NewProgram(PassthroughVert, PassthroughFrag)
	if err != nil {
		return fmt.Errorf("%s present program: %w", f.name, err)
	}
	return nil
}

// apply runs the filter program over input into the filter's target.
// uniforms is called after the program is bound.
func (f *filter) apply(input Source, uniforms func(p Program)) {
	f.program.Bind()
	if uniforms != nil {
		uniforms(f.program)
	}
	pass(f.target, input)
	f.program.Unbind()
}

func (f *filter) Output() Target {
	return f.target
}

func (f *filter) Reshape(width, height int) {
	f.target.Resize(width, height)
}

func (f *filter) Clear() {
	f.target.Clear()
}

func (f *filter) DrawToScreen() {
	present(f.device, f.present, f.target)
}

func (f *filter) BindBuffer(index int) {
	if index != 0 {
		log.Printf("%s has no buffer %d", f.name, index)
		return
	}
	f.target.BindForWrite()
}

func (f *filter) UnbindBuffer() {
	f.target.UnbindForWrite()
}

func (f *filter) Release() {
	f.release()
}

func (f *filter) release() {
	if f.present != nil && f.present != f.program {
		f.present.Release()
	}
	if f.program != nil {
		f.program.Release()
	}
	if f.target != nil {
		f.target.Release()
	}
	f.present = nil
	f.program = nil
	f.target = nil
}

// pass binds sources to units 0..n-1, draws into dst and unbinds the units in reverse order.
func pass(dst Target, sources ...Source) {
	for unit, src := range sources {
		src.BindColorAsTexture(0, unit)
	}
	dst.RenderToQuad()
	for unit := len(sources) - 1; unit >= 0; unit-- {
		sources[unit].UnbindTexture(unit)
	}
}

// present draws color attachment 0 of target onto the screen with a passthrough program.
func present(device Device, program Program, target Target) {
	device.BindScreen()
	program.Bind()
	target.BindColorAsTexture(0, 0)
	target.DrawFullscreenQuad()
	target.UnbindTexture(0)
	program.Unbind()
}

// Passthrough copies its input unchanged. The chain also renders the scene into it.
type Passthrough struct {
	filter
}

func NewPassthrough(device Device) *Passthrough {
	return &Passthrough{
		filter: newFilter(device, "passthrough", PassthroughFrag),
	}
}

func (p *Passthrough) Init(width, height int) error {
	return p.init(width, height)
}

func (p *Passthrough) Apply(input Source) {
	// the scene target is both input and output when no effect is active
	if t, ok := input.(Target); ok && t == p.target {
		return
	}
	p.device.PushGroup(p.name)
	defer p.device.PopGroup()
	p.apply(input, nil)
}
