package effects

import (
	"postfx/libutil"
)

const DefaultIntensity = 1.0

// Tone blends the input towards a fixed colour mapping, sepia or greyscale.
type Tone struct {
	filter
	intensity float32
}

func NewSepia(device Device) *Tone {
	return &Tone{
		filter:    newFilter(device, "sepia", SepiaFrag),
		intensity: DefaultIntensity,
	}
}

func NewGreyscale(device Device) *Tone {
	return &Tone{
		filter:    newFilter(device, "greyscale", GreyscaleFrag),
		intensity: DefaultIntensity,
	}
}

func (t *Tone) Init(width, height int) error {
	return t.init(width, height)
}

func (t *Tone) Apply(input Source) {
	t.device.PushGroup(t.name)
	defer t.device.PopGroup()
	t.apply(input, func(p Program) {
		p.SetUniform(UniformIntensity, t.intensity)
	})
}

func (t *Tone) Intensity() float32 {
	return t.intensity
}

// SetIntensity clamps to [0, 1], 0 leaves the input unchanged.
func (t *Tone) SetIntensity(intensity float32) {
	t.intensity = libutil.Clamp(intensity, 0, 1)
}
