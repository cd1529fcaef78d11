package main

import (
	"fmt"
	"log"

	im "github.com/inkyblackness/imgui-go/v4"

	"postfx/effects"
	"postfx/libio"
	"postfx/libutil"
)

const frameSamples = 128

// Panel is the control window. It edits the chain and scene in place.
type Panel struct {
	chain      *effects.Chain
	scene      *Scene
	frameTimes *libutil.Ring[float32]
	lutPath    string
	lutStatus  string
	// set for one frame when the capture button was pressed
	capture bool
}

func NewPanel(chain *effects.Chain, scene *Scene, lutPath string) *Panel {
	return &Panel{
		chain:      chain,
		scene:      scene,
		frameTimes: libutil.NewRing[float32](frameSamples),
		lutPath:    lutPath,
	}
}

// SetLighting switches the scene lighting mode, the bloom mode also activates the bloom effect.
func (p *Panel) SetLighting(mode int) {
	if mode < lightingNone || mode > lightingBloom {
		return
	}
	p.scene.Lighting = mode
	if mode == lightingBloom {
		p.chain.SetActive(effects.KindBloom)
	}
}

// LoadLut replaces the color correction table with the file at path.
func (p *Panel) LoadLut(path string) error {
	cube, err := libio.OpenCube(path)
	if err != nil {
		return err
	}
	return p.chain.Effect(effects.KindColorCorrect).Grade().SetLut(cube)
}

func (p *Panel) Draw(dt float32) {
	if dt > 0 {
		p.frameTimes.Push(dt)
	}
	p.capture = false

	im.Begin("Post Effects")

	active := p.chain.Active()
	if im.BeginCombo("Chosen Effect", active.String()) {
		for k := effects.Kind(0); k < effects.KindCount; k++ {
			if im.SelectableV(k.String(), k == active, 0, im.Vec2{}) {
				p.chain.SetActive(k)
			}
		}
		im.EndCombo()
	}

	switch active {
	case effects.KindSepia, effects.KindGreyscale:
		tone := p.chain.Effect(active).Tone()
		intensity := tone.Intensity()
		if im.SliderFloat("Intensity", &intensity, 0, 1) {
			tone.SetIntensity(intensity)
		}
	case effects.KindColorCorrect:
		p.lutControls()
	case effects.KindBloom:
		p.bloomControls()
	}

	if im.CollapsingHeader("Scene") {
		for mode, name := range lightingNames {
			if im.RadioButton(fmt.Sprintf("%d: %s", mode, name), p.scene.Lighting == mode) {
				p.SetLighting(mode)
			}
		}
		im.Checkbox("Texture", &p.scene.Textured)
	}

	if im.Button("Capture (F12)") {
		p.capture = true
	}

	p.frameStats()
	im.End()
}

func (p *Panel) lutControls() {
	grade := p.chain.Effect(effects.KindColorCorrect).Grade()
	if cube := grade.Lut(); cube != nil {
		im.Text(fmt.Sprintf("LUT: %s (%d)", cube.Title, cube.Size))
	}
	im.InputText("Path", &p.lutPath)
	if im.Button("Set LUT") {
		if err := p.LoadLut(p.lutPath); err != nil {
			log.Printf("set lut: %v", err)
			p.lutStatus = err.Error()
		} else {
			p.lutStatus = ""
		}
	}
	if p.lutStatus != "" {
		im.Text(p.lutStatus)
	}
}

func (p *Panel) bloomControls() {
	bloom := p.chain.Effect(effects.KindBloom).Bloom()

	threshold := bloom.Threshold()
	if im.SliderFloat("Threshold", &threshold, 0, 1) {
		bloom.SetThreshold(threshold)
	}
	passes := int32(bloom.Passes())
	if im.SliderInt("Blur Value", &passes, 0, 10) {
		bloom.SetPasses(uint(passes))
	}
	downscale := bloom.Downscale()
	if im.SliderFloat("Downscale", &downscale, 1, 8) {
		bloom.SetDownscale(downscale)
	}
	ps := bloom.PixelSize()
	im.Text(fmt.Sprintf("Pixel size: %.5f x %.5f", ps[0], ps[1]))
}

func (p *Panel) frameStats() {
	if p.frameTimes.Len() == 0 {
		return
	}
	min, max, avg := p.frameTimes.Stats()
	if avg > 0 {
		im.Text(fmt.Sprintf("%.1f fps (%.2f ms avg, %.2f min, %.2f max)", 1/avg, avg*1000, min*1000, max*1000))
	}
	im.PlotLines("Frame time", p.frameTimes.Values())
}

// CaptureRequested reports whether the capture button was pressed this frame.
func (p *Panel) CaptureRequested() bool {
	return p.capture
}
