package effects_test

import (
	"errors"
	"testing"

	"postfx/effects"
)

func newBloom(t *testing.T, width, height int) (*effects.Bloom, *recorder) {
	t.Helper()
	rec := newRecorder()
	b := effects.NewBloom(rec)
	if err := b.Init(width, height); err != nil {
		t.Fatalf("Init(%d, %d): %v", width, height, err)
	}
	return b, rec
}

func assertSize(t *testing.T, b *effects.Bloom, index, width, height int) {
	t.Helper()
	target := b.Target(index)
	if target.Width() != width || target.Height() != height {
		t.Errorf("target %d is %dx%d, want %dx%d", index, target.Width(), target.Height(), width, height)
	}
}

func assertClean(t *testing.T, rec *recorder) {
	t.Helper()
	for _, l := range rec.leaks() {
		t.Error(l)
	}
}

func TestBloomInit(t *testing.T) {
	b, rec := newBloom(t, 800, 600)

	if len(rec.targets) != effects.BloomTargetCount {
		t.Fatalf("allocated %d targets, want %d", len(rec.targets), effects.BloomTargetCount)
	}
	if len(rec.programs) != effects.BloomProgramCount {
		t.Fatalf("allocated %d programs, want %d", len(rec.programs), effects.BloomProgramCount)
	}

	assertSize(t, b, effects.TargetComposite, 800, 600)
	assertSize(t, b, effects.TargetBright, 400, 300)
	assertSize(t, b, effects.TargetBlur, 400, 300)
	assertSize(t, b, effects.TargetReserved, 800, 600)

	for i, target := range rec.targets {
		if !target.spec.Depth {
			t.Errorf("target %d has no depth attachment", i)
		}
		if len(target.spec.Color) != 1 || target.spec.Color[0] != effects.RGBA8 {
			t.Errorf("target %d color attachments = %v, want [RGBA8]", i, target.spec.Color)
		}
	}

	wantPrograms := []string{
		effects.PassthroughFrag,
		effects.BrightPassFrag,
		effects.BlurHorizontalFrag,
		effects.BlurVerticalFrag,
		effects.CompositeFrag,
	}
	for i, want := range wantPrograms {
		if got := rec.programs[i].name; got != want {
			t.Errorf("program %d = %s, want %s", i, got, want)
		}
	}

	if px := b.PixelSize(); px.X() != float32(1)/800 || px.Y() != float32(1)/600 {
		t.Errorf("pixel size = %v", px)
	}
	if b.Downscale() != effects.DefaultDownscale || b.Threshold() != effects.DefaultThreshold || b.Passes() != effects.DefaultPasses {
		t.Errorf("defaults = %v %v %v", b.Downscale(), b.Threshold(), b.Passes())
	}
}

func TestBloomApplySequence(t *testing.T) {
	b, rec := newBloom(t, 800, 600)
	b.SetThreshold(0.5)
	b.SetPasses(3)

	scene := &fakeTarget{rec: rec, label: "scene", width: 800, height: 600}
	b.Apply(scene)

	copyDraw := draw{effects.PassthroughFrag, "bloom composite", []string{"0=scene"}}
	bright := draw{effects.BrightPassFrag, "bloom bright", []string{"0=bloom composite"}}
	horizontal := draw{effects.BlurHorizontalFrag, "bloom blur", []string{"0=bloom bright"}}
	vertical := draw{effects.BlurVerticalFrag, "bloom bright", []string{"0=bloom blur"}}
	composite := draw{effects.CompositeFrag, "bloom composite", []string{"0=scene", "1=bloom bright"}}
	want := []draw{
		copyDraw, bright,
		horizontal, vertical,
		horizontal, vertical,
		horizontal, vertical,
		composite,
	}

	if len(rec.draws) != len(want) {
		t.Fatalf("issued %d draws, want %d: %v", len(rec.draws), len(want), rec.draws)
	}
	for i := range want {
		if got := rec.draws[i].String(); got != want[i].String() {
			t.Errorf("draw %d = %s, want %s", i, got, want[i])
		}
	}
	assertClean(t, rec)

	if got := b.Program(effects.ProgramBrightPass).(*fakeProgram).uniforms[effects.UniformThreshold]; got != float32(0.5) {
		t.Errorf("threshold uniform = %v", got)
	}
	if got := b.Program(effects.ProgramBlurHorizontal).(*fakeProgram).uniforms[effects.UniformPixelSize]; got != float32(1)/800 {
		t.Errorf("horizontal pixel size = %v", got)
	}
	if got := b.Program(effects.ProgramBlurVertical).(*fakeProgram).uniforms[effects.UniformPixelSize]; got != float32(1)/600 {
		t.Errorf("vertical pixel size = %v", got)
	}
	if n := b.Target(effects.TargetReserved).(*fakeTarget).binds; n != 0 {
		t.Errorf("reserved target bound %d times", n)
	}
	if len(rec.events) == 0 || rec.events[0] != "push bloom" || rec.events[len(rec.events)-1] != "pop" {
		t.Errorf("apply not wrapped in a debug group: %v", rec.events)
	}
}

func TestBloomApplyWithoutBlur(t *testing.T) {
	b, rec := newBloom(t, 320, 200)
	b.SetPasses(0)

	scene := &fakeTarget{rec: rec, label: "scene", width: 320, height: 200}
	b.Apply(scene)

	want := []string{effects.PassthroughFrag, effects.BrightPassFrag, effects.CompositeFrag}
	if len(rec.draws) != len(want) {
		t.Fatalf("issued %d draws, want %d: %v", len(rec.draws), len(want), rec.draws)
	}
	for i, w := range want {
		if rec.draws[i].program != w {
			t.Errorf("draw %d uses %s, want %s", i, rec.draws[i].program, w)
		}
	}
	if n := b.Target(effects.TargetBlur).(*fakeTarget).binds; n != 0 {
		t.Errorf("blur target used %d times without blur passes", n)
	}
	assertClean(t, rec)
}

func TestBloomDrawCount(t *testing.T) {
	b, rec := newBloom(t, 64, 64)
	scene := &fakeTarget{rec: rec, label: "scene", width: 64, height: 64}
	for _, passes := range []uint{0, 1, 2, 7, 10} {
		rec.reset()
		b.SetPasses(passes)
		b.Apply(scene)
		if want := 2 + 2*int(passes) + 1; len(rec.draws) != want {
			t.Errorf("passes=%d issued %d draws, want %d", passes, len(rec.draws), want)
		}
	}
	assertClean(t, rec)
}

func TestBloomSetDownscale(t *testing.T) {
	b, rec := newBloom(t, 800, 600)
	programs := len(rec.programs)

	b.SetDownscale(4)
	assertSize(t, b, effects.TargetComposite, 800, 600)
	assertSize(t, b, effects.TargetBright, 200, 150)
	assertSize(t, b, effects.TargetBlur, 200, 150)
	assertSize(t, b, effects.TargetReserved, 800, 600)

	b.SetDownscale(3)
	assertSize(t, b, effects.TargetBright, 266, 200)
	assertSize(t, b, effects.TargetBlur, 266, 200)

	if len(rec.programs) != programs {
		t.Errorf("SetDownscale created programs")
	}
}

func TestBloomReshape(t *testing.T) {
	b, rec := newBloom(t, 800, 600)

	b.Reshape(1024, 767)
	assertSize(t, b, effects.TargetComposite, 1024, 767)
	assertSize(t, b, effects.TargetBright, 512, 383)
	assertSize(t, b, effects.TargetBlur, 512, 383)
	assertSize(t, b, effects.TargetReserved, 1024, 767)

	if px := b.PixelSize(); px.X() != float32(1)/1024 || px.Y() != float32(1)/767 {
		t.Errorf("pixel size after reshape = %v", px)
	}
	if len(rec.programs) != effects.BloomProgramCount {
		t.Errorf("reshape created programs")
	}
	for i, target := range rec.targets {
		if target.resizes != 1 {
			t.Errorf("target %d resized %d times", i, target.resizes)
		}
	}
}

func TestBloomHugeDownscale(t *testing.T) {
	b, rec := newBloom(t, 800, 600)

	b.SetDownscale(10000)
	assertSize(t, b, effects.TargetBright, 0, 0)
	assertSize(t, b, effects.TargetBlur, 0, 0)
	assertSize(t, b, effects.TargetComposite, 800, 600)

	scene := &fakeTarget{rec: rec, label: "scene", width: 800, height: 600}
	b.Apply(scene)
	if len(rec.draws) != 2+2*effects.DefaultPasses+1 {
		t.Errorf("issued %d draws", len(rec.draws))
	}
	assertClean(t, rec)
}

func TestBloomThresholdIdempotent(t *testing.T) {
	b, _ := newBloom(t, 16, 16)
	b.SetThreshold(0.75)
	first, second := b.Threshold(), b.Threshold()
	if first != second || first != 0.75 {
		t.Errorf("Threshold() = %v then %v", first, second)
	}
	// not clamped
	b.SetThreshold(3)
	if b.Threshold() != 3 {
		t.Errorf("Threshold() = %v, want 3", b.Threshold())
	}
}

func TestBloomInitFailure(t *testing.T) {
	t.Run("program", func(t *testing.T) {
		rec := newRecorder()
		rec.failProgram = 3
		b := effects.NewBloom(rec)
		err := b.Init(800, 600)
		if !errors.Is(err, errFake) {
			t.Fatalf("Init error = %v", err)
		}
		if targets, programs, _ := rec.live(); targets != 0 || programs != 0 {
			t.Errorf("%d targets and %d programs leaked", targets, programs)
		}
		if b.Target(effects.TargetComposite) != nil {
			t.Errorf("target kept after failed init")
		}
	})
	t.Run("target", func(t *testing.T) {
		rec := newRecorder()
		rec.failTarget = 2
		b := effects.NewBloom(rec)
		if err := b.Init(800, 600); !errors.Is(err, errFake) {
			t.Fatalf("Init error = %v", err)
		}
		if targets, programs, _ := rec.live(); targets != 0 || programs != 0 {
			t.Errorf("%d targets and %d programs leaked", targets, programs)
		}
		if len(rec.programs) != 0 {
			t.Errorf("programs created after target failure")
		}
	})
}

func TestBloomPresent(t *testing.T) {
	b, rec := newBloom(t, 100, 100)
	b.DrawToScreen()

	want := draw{effects.PassthroughFrag, "screen", []string{"0=bloom composite"}}
	if len(rec.draws) != 1 || rec.draws[0].String() != want.String() {
		t.Errorf("draws = %v, want [%v]", rec.draws, want)
	}
	if len(rec.events) == 0 || rec.events[0] != "screen" {
		t.Errorf("screen not bound first: %v", rec.events)
	}
	assertClean(t, rec)
}

func TestBloomRelease(t *testing.T) {
	b, rec := newBloom(t, 100, 100)
	b.Release()
	if targets, programs, _ := rec.live(); targets != 0 || programs != 0 {
		t.Errorf("%d targets and %d programs still live", targets, programs)
	}
	b.Release()
	assertClean(t, rec)
}
