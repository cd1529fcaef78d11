package effects_test

import (
	"errors"
	"testing"

	"postfx/effects"
	"postfx/libio"
)

func newChain(t *testing.T) (*effects.Chain, *recorder) {
	t.Helper()
	rec := newRecorder()
	c := effects.NewChain(rec)
	if err := c.Init(640, 480); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c, rec
}

func assertDraws(t *testing.T, rec *recorder, want ...draw) {
	t.Helper()
	if len(rec.draws) != len(want) {
		t.Fatalf("issued %d draws, want %d: %v", len(rec.draws), len(want), rec.draws)
	}
	for i := range want {
		if got := rec.draws[i].String(); got != want[i].String() {
			t.Errorf("draw %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestChainInit(t *testing.T) {
	c, rec := newChain(t)

	targets, programs, luts := rec.live()
	if targets != 8 || programs != 12 || luts != 1 {
		t.Errorf("live resources = %d targets, %d programs, %d luts", targets, programs, luts)
	}
	for k := effects.Kind(0); k < effects.KindCount; k++ {
		e := c.Effect(k)
		if e.Kind() != k {
			t.Errorf("effect %v has kind %v", k, e.Kind())
		}
		out := effects.Output(e)
		if out.Width() != 640 || out.Height() != 480 {
			t.Errorf("%v output is %dx%d", k, out.Width(), out.Height())
		}
	}
	if c.Active() != effects.KindPassthrough {
		t.Errorf("initial active effect = %v", c.Active())
	}
}

func TestChainFrame(t *testing.T) {
	c, rec := newChain(t)
	rec.reset()

	c.BeginScene()
	want := []string{
		"clear passthrough", "clear sepia", "clear greyscale", "clear color correct",
		"clear bloom composite", "clear bloom bright", "clear bloom blur", "clear bloom reserved",
		"write passthrough",
	}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v", rec.events)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, rec.events[i], want[i])
		}
	}
	if rec.writing == nil || rec.writing.label != "passthrough" {
		t.Fatalf("scene target not bound for write")
	}
	c.EndScene()

	// the scene target is its own input when no effect is active
	c.Present()
	assertDraws(t, rec, draw{effects.PassthroughFrag, "screen", []string{"0=passthrough"}})
	assertClean(t, rec)
}

func TestChainSepia(t *testing.T) {
	c, rec := newChain(t)
	c.SetActive(effects.KindSepia)
	c.Effect(effects.KindSepia).Tone().SetIntensity(0.25)
	rec.reset()

	c.Present()
	assertDraws(t, rec,
		draw{effects.SepiaFrag, "sepia", []string{"0=passthrough"}},
		draw{effects.PassthroughFrag, "screen", []string{"0=sepia"}},
	)
	assertClean(t, rec)

	var sepia *fakeProgram
	for _, p := range rec.programs {
		if p.name == effects.SepiaFrag {
			sepia = p
		}
	}
	if got := sepia.uniforms[effects.UniformIntensity]; got != float32(0.25) {
		t.Errorf("intensity uniform = %v", got)
	}
}

func TestToneIntensityClamp(t *testing.T) {
	tone := effects.NewGreyscale(newRecorder())
	if tone.Intensity() != effects.DefaultIntensity {
		t.Errorf("default intensity = %v", tone.Intensity())
	}
	for _, tc := range []struct{ in, want float32 }{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{4, 1},
	} {
		tone.SetIntensity(tc.in)
		if tone.Intensity() != tc.want {
			t.Errorf("SetIntensity(%v) -> %v, want %v", tc.in, tone.Intensity(), tc.want)
		}
	}
}

func TestChainColorCorrect(t *testing.T) {
	c, rec := newChain(t)
	c.SetActive(effects.KindColorCorrect)
	rec.reset()

	c.Present()
	assertDraws(t, rec,
		draw{effects.ColorCorrectFrag, "color correct", []string{"0=passthrough", "30=lut identity 32"}},
		draw{effects.PassthroughFrag, "screen", []string{"0=color correct"}},
	)
	assertClean(t, rec)
}

func TestGradeSetLut(t *testing.T) {
	c, rec := newChain(t)
	grade := c.Effect(effects.KindColorCorrect).Grade()

	warm := libio.IdentityCube(4)
	warm.Title = "warm"
	if err := grade.SetLut(warm); err != nil {
		t.Fatalf("SetLut: %v", err)
	}
	if grade.Lut() != warm {
		t.Errorf("lut not replaced")
	}
	if !rec.luts[0].released {
		t.Errorf("previous lut not released")
	}

	rec.failLut = len(rec.luts)
	if err := grade.SetLut(libio.IdentityCube(2)); !errors.Is(err, errFake) {
		t.Fatalf("SetLut error = %v", err)
	}
	if grade.Lut() != warm {
		t.Errorf("lut replaced by failed upload")
	}

	c.SetActive(effects.KindColorCorrect)
	rec.reset()
	c.Present()
	if got := rec.draws[0].inputs; len(got) != 2 || got[1] != "30=lut warm" {
		t.Errorf("color correct inputs = %v", got)
	}
	assertClean(t, rec)
}

func TestGradeLutBeforeInit(t *testing.T) {
	rec := newRecorder()
	grade := effects.NewColorCorrect(rec)
	cube := libio.IdentityCube(8)
	if err := grade.SetLut(cube); err != nil {
		t.Fatalf("SetLut: %v", err)
	}
	if len(rec.luts) != 0 {
		t.Errorf("lut uploaded before init")
	}
	if err := grade.Init(32, 32); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(rec.luts) != 1 || rec.luts[0].label != "lut identity 8" {
		t.Errorf("luts after init = %d", len(rec.luts))
	}
}

func TestChainBloom(t *testing.T) {
	c, rec := newChain(t)
	c.SetActive(effects.KindBloom)
	rec.reset()

	c.BeginScene()
	c.EndScene()
	c.Present()

	if want := 2 + 2*effects.DefaultPasses + 1 + 1; len(rec.draws) != want {
		t.Fatalf("issued %d draws, want %d", len(rec.draws), want)
	}
	first := draw{effects.PassthroughFrag, "bloom composite", []string{"0=passthrough"}}
	if rec.draws[0].String() != first.String() {
		t.Errorf("first draw = %v", rec.draws[0])
	}
	last := draw{effects.PassthroughFrag, "screen", []string{"0=bloom composite"}}
	if rec.draws[len(rec.draws)-1].String() != last.String() {
		t.Errorf("last draw = %v", rec.draws[len(rec.draws)-1])
	}
	assertClean(t, rec)
}

func TestChainSetActiveClamps(t *testing.T) {
	c, _ := newChain(t)
	c.SetActive(effects.KindCount + 3)
	if c.Active() != effects.KindBloom {
		t.Errorf("active = %v, want %v", c.Active(), effects.KindBloom)
	}
	c.SetActive(-1)
	if c.Active() != effects.KindPassthrough {
		t.Errorf("active = %v, want %v", c.Active(), effects.KindPassthrough)
	}
}

func TestChainReshape(t *testing.T) {
	c, _ := newChain(t)
	c.Reshape(1280, 720)
	for k := effects.Kind(0); k < effects.KindCount; k++ {
		out := effects.Output(c.Effect(k))
		if out.Width() != 1280 || out.Height() != 720 {
			t.Errorf("%v output is %dx%d after reshape", k, out.Width(), out.Height())
		}
	}
	bright := c.Effect(effects.KindBloom).Bloom().Target(effects.TargetBright)
	if bright.Width() != 640 || bright.Height() != 360 {
		t.Errorf("bloom bright target is %dx%d", bright.Width(), bright.Height())
	}
	if w, h := c.Size(); w != 1280 || h != 720 {
		t.Errorf("Size() = %d, %d", w, h)
	}
}

func TestChainInitFailure(t *testing.T) {
	rec := newRecorder()
	// first bloom program
	rec.failProgram = 7
	c := effects.NewChain(rec)
	err := c.Init(640, 480)
	if !errors.Is(err, errFake) {
		t.Fatalf("Init error = %v", err)
	}
	if targets, programs, luts := rec.live(); targets != 0 || programs != 0 || luts != 0 {
		t.Errorf("leaked %d targets, %d programs, %d luts", targets, programs, luts)
	}
	for _, p := range rec.problems {
		t.Error(p)
	}
}

func TestChainRelease(t *testing.T) {
	c, rec := newChain(t)
	c.Release()
	if targets, programs, luts := rec.live(); targets != 0 || programs != 0 || luts != 0 {
		t.Errorf("live after release: %d targets, %d programs, %d luts", targets, programs, luts)
	}
	for _, p := range rec.problems {
		t.Error(p)
	}
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]effects.Kind{
		"none":          effects.KindPassthrough,
		"sepia":         effects.KindSepia,
		"grayscale":     effects.KindGreyscale,
		"color_correct": effects.KindColorCorrect,
		"bloom":         effects.KindBloom,
	} {
		got, err := effects.ParseKind(name)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := effects.ParseKind("vignette"); err == nil {
		t.Errorf("unknown effect accepted")
	}
	if effects.KindBloom.String() != "Bloom" {
		t.Errorf("KindBloom.String() = %s", effects.KindBloom)
	}
}
