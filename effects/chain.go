package effects

import (
	"fmt"
	"log"
)

// Chain holds one instance of every effect kind. The passthrough effect doubles as
// the scene target the frame is rendered into before the active effect runs.
type Chain struct {
	effects [KindCount]*Effect
	active  Kind
	width   int
	height  int
}

func NewChain(device Device) *Chain {
	c := &Chain{}
	for k := range c.effects {
		c.effects[k] = New(Kind(k), device)
	}
	return c
}

// Init initializes every effect at width x height. On error all effects are released.
func (c *Chain) Init(width, height int) error {
	for _, e := range c.effects {
		if err := Init(e, width, height); err != nil {
			c.Release()
			return fmt.Errorf("effect chain: %w", err)
		}
	}
	c.width, c.height = width, height
	return nil
}

func (c *Chain) Size() (width, height int) {
	return c.width, c.height
}

// Scene is the effect whose target receives the rendered scene.
func (c *Chain) Scene() *Effect {
	return c.effects[KindPassthrough]
}

func (c *Chain) Effect(kind Kind) *Effect {
	return c.effects[kind]
}

func (c *Chain) Active() Kind {
	return c.active
}

// SetActive selects the effect applied by Present. Out of range kinds are clamped.
func (c *Chain) SetActive(kind Kind) {
	if kind < 0 || kind >= KindCount {
		log.Printf("effect kind %d out of range", int(kind))
		if kind < 0 {
			kind = 0
		} else {
			kind = KindCount - 1
		}
	}
	c.active = kind
}

// BeginScene clears every effect and binds the scene target for drawing.
func (c *Chain) BeginScene() {
	for _, e := range c.effects {
		Clear(e)
	}
	BindBuffer(c.Scene(), 0)
}

func (c *Chain) EndScene() {
	UnbindBuffer(c.Scene())
}

// Present applies the active effect to the scene target and draws its result to the screen.
func (c *Chain) Present() {
	active := c.effects[c.active]
	Apply(active, Output(c.Scene()))
	DrawToScreen(active)
}

func (c *Chain) Reshape(width, height int) {
	for _, e := range c.effects {
		Reshape(e, width, height)
	}
	c.width, c.height = width, height
}

func (c *Chain) Release() {
	for _, e := range c.effects {
		Release(e)
	}
}
