package effects

import (
	"fmt"
	"log"

	"postfx/libutil"

	"github.com/go-gl/mathgl/mgl32"
)

// Bloom target indices.
const (
	// input copy, composite output and presented result
	TargetComposite = iota
	// bright pass result and vertical blur output
	TargetBright
	// horizontal blur output
	TargetBlur
	// allocated and resized but not used by Apply
	TargetReserved
	BloomTargetCount
)

// Bloom program indices.
const (
	ProgramCopy = iota
	ProgramBrightPass
	ProgramBlurHorizontal
	ProgramBlurVertical
	ProgramComposite
	BloomProgramCount
)

const (
	DefaultDownscale = 2.0
	DefaultThreshold = 0.01
	DefaultPasses    = 10
)

var bloomFragments = [BloomProgramCount]string{
	ProgramCopy:           PassthroughFrag,
	ProgramBrightPass:     BrightPassFrag,
	ProgramBlurHorizontal: BlurHorizontalFrag,
	ProgramBlurVertical:   BlurVerticalFrag,
	ProgramComposite:      CompositeFrag,
}

var bloomLabels = [BloomTargetCount]string{
	TargetComposite: "bloom composite",
	TargetBright:    "bloom bright",
	TargetBlur:      "bloom blur",
	TargetReserved:  "bloom reserved",
}

// Bloom isolates bright pixels, blurs them with an iterated separable blur
// at reduced resolution and adds the result back onto the input.
//
// Parameters may change at any time, threshold and passes apply on the next Apply.
type Bloom struct {
	device    Device
	targets   [BloomTargetCount]Target
	programs  [BloomProgramCount]Program
	downscale float32
	threshold float32
	passes    uint
	pixelSize mgl32.Vec2
}

func NewBloom(device Device) *Bloom {
	return &Bloom{
		device:    device,
		downscale: DefaultDownscale,
		threshold: DefaultThreshold,
		passes:    DefaultPasses,
	}
}

// Init allocates the four targets and five programs. Any failure releases what was
// already created and leaves the effect unusable.
func (b *Bloom) Init(width, height int) (err error) {
	b.Release()
	defer func() {
		if err != nil {
			b.Release()
		}
	}()

	for i := range b.targets {
		w, h := b.targetSize(i, width, height)
		b.targets[i], err = b.device.NewTarget(TargetSpec{
			Label:  bloomLabels[i],
			Width:  w,
			Height: h,
			Color:  []ColorFormat{RGBA8},
			Depth:  true,
		})
		if err != nil {
			return fmt.Errorf("bloom target %d: %w", i, err)
		}
	}

	for i := range b.programs {
		b.programs[i], err = b.device.NewProgram(PassthroughVert, bloomFragments[i])
		if err != nil {
			return fmt.Errorf("bloom program %d: %w", i, err)
		}
	}

	b.pixelSize = pixelSize(width, height)
	return nil
}

func (b *Bloom) targetSize(index, width, height int) (int, int) {
	switch index {
	case TargetBright, TargetBlur:
		return libutil.ScaleDimension(width, b.downscale), libutil.ScaleDimension(height, b.downscale)
	}
	return width, height
}

func pixelSize(width, height int) mgl32.Vec2 {
	var size mgl32.Vec2
	if width > 0 {
		size[0] = 1 / float32(width)
	}
	if height > 0 {
		size[1] = 1 / float32(height)
	}
	return size
}

// Apply issues exactly 2 + 2*passes + 1 full screen draws:
// copy, bright pass, passes * (horizontal, vertical) blur and the composite.
func (b *Bloom) Apply(input Source) {
	b.device.PushGroup("bloom")
	defer b.device.PopGroup()

	composite := b.targets[TargetComposite]
	bright := b.targets[TargetBright]
	blur := b.targets[TargetBlur]

	prog := b.programs[ProgramCopy]
	prog.Bind()
	pass(composite, input)
	prog.Unbind()

	prog = b.programs[ProgramBrightPass]
	prog.Bind()
	prog.SetUniform(UniformThreshold, b.threshold)
	pass(bright, composite)
	prog.Unbind()

	horizontal := b.programs[ProgramBlurHorizontal]
	vertical := b.programs[ProgramBlurVertical]
	for i := uint(0); i < b.passes; i++ {
		horizontal.Bind()
		horizontal.SetUniform(UniformPixelSize, b.pixelSize.X())
		pass(blur, bright)
		horizontal.Unbind()

		vertical.Bind()
		vertical.SetUniform(UniformPixelSize, b.pixelSize.Y())
		pass(bright, blur)
		vertical.Unbind()
	}

	prog = b.programs[ProgramComposite]
	prog.Bind()
	pass(composite, input, bright)
	prog.Unbind()
}

// Reshape resizes the full resolution targets to width x height and the blur targets
// to the downscaled size. The blur step is recomputed from the new full resolution.
func (b *Bloom) Reshape(width, height int) {
	for i, t := range b.targets {
		if t == nil {
			continue
		}
		t.Resize(b.targetSize(i, width, height))
	}
	b.pixelSize = pixelSize(width, height)
}

func (b *Bloom) Downscale() float32 {
	return b.downscale
}

func (b *Bloom) Threshold() float32 {
	return b.threshold
}

func (b *Bloom) Passes() uint {
	return b.passes
}

// PixelSize is the texel size of the full resolution target, used as the blur step.
func (b *Bloom) PixelSize() mgl32.Vec2 {
	return b.pixelSize
}

// SetDownscale stores the factor and immediately reshapes using the composite target's size.
// The factor is not validated, values that are not positive produce empty blur targets.
func (b *Bloom) SetDownscale(downscale float32) {
	b.downscale = downscale
	if t := b.targets[TargetComposite]; t != nil {
		b.Reshape(t.Width(), t.Height())
	}
}

func (b *Bloom) SetThreshold(threshold float32) {
	b.threshold = threshold
}

func (b *Bloom) SetPasses(passes uint) {
	b.passes = passes
}

func (b *Bloom) Target(index int) Target {
	return b.targets[index]
}

func (b *Bloom) Program(index int) Program {
	return b.programs[index]
}

// Output is the composite target that holds the result after Apply.
func (b *Bloom) Output() Target {
	return b.targets[TargetComposite]
}

func (b *Bloom) Clear() {
	for _, t := range b.targets {
		t.Clear()
	}
}

func (b *Bloom) DrawToScreen() {
	present(b.device, b.programs[ProgramCopy], b.targets[TargetComposite])
}

func (b *Bloom) BindBuffer(index int) {
	if index < 0 || index >= len(b.targets) {
		log.Printf("bloom has no buffer %d", index)
		return
	}
	b.targets[index].BindForWrite()
}

func (b *Bloom) UnbindBuffer() {
	b.targets[TargetComposite].UnbindForWrite()
}

func (b *Bloom) Release() {
	for i, p := range b.programs {
		if p != nil {
			p.Release()
			b.programs[i] = nil
		}
	}
	for i, t := range b.targets {
		if t != nil {
			t.Release()
			b.targets[i] = nil
		}
	}
}
