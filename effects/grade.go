package effects

import (
	"fmt"

	"postfx/libio"
)

// Grade remaps colours through a 3D lookup table.
type Grade struct {
	filter
	cube *libio.Cube
	lut  Texture
}

func NewColorCorrect(device Device) *Grade {
	return &Grade{
		filter: newFilter(device, "color correct", ColorCorrectFrag),
	}
}

func (g *Grade) Init(width, height int) error {
	if err := g.init(width, height); err != nil {
		return err
	}
	if g.cube == nil {
		g.cube = libio.IdentityCube(libio.DefaultCubeSize)
	}
	if g.lut != nil {
		g.lut.Release()
		g.lut = nil
	}
	lut, err := g.device.NewLut(g.cube)
	if err != nil {
		g.release()
		return fmt.Errorf("%s lut: %w", g.name, err)
	}
	g.lut = lut
	return nil
}

// SetLut uploads cube and replaces the current table. On error the old table stays active.
// Before Init the cube is only stored.
func (g *Grade) SetLut(cube *libio.Cube) error {
	if g.target == nil {
		g.cube = cube
		return nil
	}
	lut, err := g.device.NewLut(cube)
	if err != nil {
		return fmt.Errorf("%s lut: %w", g.name, err)
	}
	if g.lut != nil {
		g.lut.Release()
	}
	g.cube = cube
	g.lut = lut
	return nil
}

func (g *Grade) Lut() *libio.Cube {
	return g.cube
}

func (g *Grade) Apply(input Source) {
	g.device.PushGroup(g.name)
	defer g.device.PopGroup()
	g.lut.Bind(LutUnit)
	g.apply(input, func(p Program) {
		p.SetUniform(UniformDomainMin, g.cube.DomainMin)
		p.SetUniform(UniformDomainMax, g.cube.DomainMax)
	})
	g.lut.Unbind(LutUnit)
}

func (g *Grade) Release() {
	if g.lut != nil {
		g.lut.Release()
		g.lut = nil
	}
	g.release()
}
