package effects_test

import (
	"errors"
	"fmt"

	"postfx/effects"
	"postfx/libio"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// draw is one recorded full screen quad draw.
type draw struct {
	program string
	target  string
	inputs  []string
}

func (d draw) String() string {
	return fmt.Sprintf("%s -> %s %v", d.program, d.target, d.inputs)
}

// recorder is a Device that only records what the effects ask of it.
type recorder struct {
	draws    []draw
	events   []string
	problems []string

	targets  []*fakeTarget
	programs []*fakeProgram
	luts     []*fakeLut

	units   map[int]string
	program *fakeProgram
	writing *fakeTarget
	groups  int

	// fail the n-th (zero based) creation of that kind, -1 never fails
	failTarget  int
	failProgram int
	failLut     int
}

func newRecorder() *recorder {
	return &recorder{
		units:       map[int]string{},
		failTarget:  -1,
		failProgram: -1,
		failLut:     -1,
	}
}

var errFake = errors.New("fake failure")

func (r *recorder) problem(format string, args ...any) {
	r.problems = append(r.problems, fmt.Sprintf(format, args...))
}

func (r *recorder) NewTarget(spec effects.TargetSpec) (effects.Target, error) {
	if len(r.targets) == r.failTarget {
		r.failTarget = -1
		return nil, errFake
	}
	t := &fakeTarget{rec: r, label: spec.Label, width: spec.Width, height: spec.Height, spec: spec}
	r.targets = append(r.targets, t)
	return t, nil
}

func (r *recorder) NewProgram(vertexPath, fragmentPath string) (effects.Program, error) {
	if len(r.programs) == r.failProgram {
		r.failProgram = -1
		return nil, errFake
	}
	if vertexPath != effects.PassthroughVert {
		r.problem("program %s uses vertex stage %s", fragmentPath, vertexPath)
	}
	p := &fakeProgram{rec: r, name: fragmentPath, uniforms: map[string]any{}}
	r.programs = append(r.programs, p)
	return p, nil
}

func (r *recorder) NewLut(cube *libio.Cube) (effects.Texture, error) {
	if len(r.luts) == r.failLut {
		r.failLut = -1
		return nil, errFake
	}
	l := &fakeLut{rec: r, label: "lut " + cube.Title}
	r.luts = append(r.luts, l)
	return l, nil
}

func (r *recorder) BindScreen() {
	r.events = append(r.events, "screen")
}

func (r *recorder) PushGroup(name string) {
	r.groups++
	r.events = append(r.events, "push "+name)
}

func (r *recorder) PopGroup() {
	r.groups--
	if r.groups < 0 {
		r.problem("debug group popped without push")
	}
	r.events = append(r.events, "pop")
}

func (r *recorder) bindUnit(unit int, label string) {
	if prev, ok := r.units[unit]; ok {
		r.problem("unit %d bound to %s while still holding %s", unit, label, prev)
	}
	r.units[unit] = label
}

func (r *recorder) unbindUnit(unit int, label string) {
	if prev, ok := r.units[unit]; !ok || prev != label {
		r.problem("unit %d unbound by %s but holds %q", unit, label, prev)
	}
	delete(r.units, unit)
}

func (r *recorder) record(target string) {
	if r.program == nil {
		r.problem("draw into %s without a program", target)
	}
	units := maps.Keys(r.units)
	slices.Sort(units)
	inputs := make([]string, len(units))
	for i, u := range units {
		inputs[i] = fmt.Sprintf("%d=%s", u, r.units[u])
	}
	name := ""
	if r.program != nil {
		name = r.program.name
	}
	r.draws = append(r.draws, draw{program: name, target: target, inputs: inputs})
}

// reset forgets recorded draws and events but keeps the resources.
func (r *recorder) reset() {
	r.draws = nil
	r.events = nil
}

// leaks reports state left behind after a frame.
func (r *recorder) leaks() []string {
	leaks := append([]string(nil), r.problems...)
	for u, l := range r.units {
		leaks = append(leaks, fmt.Sprintf("unit %d still bound to %s", u, l))
	}
	if r.program != nil {
		leaks = append(leaks, "program still bound: "+r.program.name)
	}
	if r.writing != nil {
		leaks = append(leaks, "target still bound for write: "+r.writing.label)
	}
	if r.groups != 0 {
		leaks = append(leaks, fmt.Sprintf("%d debug groups open", r.groups))
	}
	return leaks
}

func (r *recorder) live() (targets, programs, luts int) {
	for _, t := range r.targets {
		if !t.released {
			targets++
		}
	}
	for _, p := range r.programs {
		if !p.released {
			programs++
		}
	}
	for _, l := range r.luts {
		if !l.released {
			luts++
		}
	}
	return
}

type fakeTarget struct {
	rec      *recorder
	label    string
	spec     effects.TargetSpec
	width    int
	height   int
	resizes  int
	binds    int
	released bool
}

func (t *fakeTarget) BindColorAsTexture(attachment, unit int) {
	if attachment != 0 {
		t.rec.problem("%s sampled attachment %d", t.label, attachment)
	}
	t.binds++
	t.rec.bindUnit(unit, t.label)
}

func (t *fakeTarget) UnbindTexture(unit int) {
	t.rec.unbindUnit(unit, t.label)
}

func (t *fakeTarget) Width() int  { return t.width }
func (t *fakeTarget) Height() int { return t.height }

func (t *fakeTarget) Resize(width, height int) {
	t.resizes++
	t.width, t.height = width, height
}

func (t *fakeTarget) BindForWrite() {
	t.binds++
	t.rec.writing = t
	t.rec.events = append(t.rec.events, "write "+t.label)
}

func (t *fakeTarget) UnbindForWrite() {
	if t.rec.writing != t {
		t.rec.problem("%s unbound for write while not bound", t.label)
	}
	t.rec.writing = nil
}

func (t *fakeTarget) RenderToQuad() {
	t.binds++
	t.rec.record(t.label)
}

func (t *fakeTarget) DrawFullscreenQuad() {
	t.rec.record("screen")
}

func (t *fakeTarget) Clear() {
	t.rec.events = append(t.rec.events, "clear "+t.label)
}

func (t *fakeTarget) Release() {
	if t.released {
		t.rec.problem("%s released twice", t.label)
	}
	t.released = true
}

type fakeProgram struct {
	rec      *recorder
	name     string
	uniforms map[string]any
	released bool
}

func (p *fakeProgram) Bind() {
	if p.rec.program != nil {
		p.rec.problem("%s bound while %s is bound", p.name, p.rec.program.name)
	}
	p.rec.program = p
}

func (p *fakeProgram) Unbind() {
	if p.rec.program != p {
		p.rec.problem("%s unbound while not bound", p.name)
	}
	p.rec.program = nil
}

func (p *fakeProgram) SetUniform(name string, value any) {
	if p.rec.program != p {
		p.rec.problem("uniform %s set on unbound program %s", name, p.name)
	}
	p.uniforms[name] = value
}

func (p *fakeProgram) Release() {
	if p.released {
		p.rec.problem("%s released twice", p.name)
	}
	p.released = true
}

type fakeLut struct {
	rec      *recorder
	label    string
	released bool
}

func (l *fakeLut) Bind(unit int) {
	l.rec.bindUnit(unit, l.label)
}

func (l *fakeLut) Unbind(unit int) {
	l.rec.unbindUnit(unit, l.label)
}

func (l *fakeLut) Release() {
	if l.released {
		l.rec.problem("%s released twice", l.label)
	}
	l.released = true
}
