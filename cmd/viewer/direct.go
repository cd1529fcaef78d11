package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"postfx/libgl"
	"postfx/libutil"
)

// 3 floats position + 3 floats color + 3 float normal
const directVertexSize = (3 + 3 + 3) * 4

// DirectBuffer collects immediate mode triangles and draws them in one call.
type DirectBuffer struct {
	vao       libgl.UnboundVertexArray
	vbo       libgl.UnboundBuffer
	data      []float32
	color     mgl32.Vec3
	shaded    bool
	autoShade bool
	normal    mgl32.Vec3
}

func NewDirectDrawBuffer() *DirectBuffer {
	vao := libgl.NewVertexArray()
	vao.SetDebugLabel("direct draw")
	vao.Layout(0, 0, 3, gl.FLOAT, false, 0)
	vao.Layout(0, 1, 3, gl.FLOAT, false, 3*4)
	vao.Layout(0, 2, 3, gl.FLOAT, false, 6*4)
	vbo := libgl.NewBuffer()
	vbo.SetDebugLabel("direct draw")
	vbo.AllocateEmptyMutable(1<<16, gl.DYNAMIC_DRAW)
	vao.BindBuffer(0, vbo, 0, directVertexSize)

	return &DirectBuffer{
		vao:   vao,
		vbo:   vbo,
		data:  []float32{},
		color: mgl32.Vec3{1, 1, 1},
	}
}

func (db *DirectBuffer) Shaded() {
	db.shaded = true
}

func (db *DirectBuffer) Unshaded() {
	db.shaded = false
}

func (db *DirectBuffer) Color(r, g, b float32) {
	db.color[0] = r
	db.color[1] = g
	db.color[2] = b
}

func (db *DirectBuffer) Color3(c mgl32.Vec3) {
	db.Color(c[0], c[1], c[2])
}

// Light3 sets the color to c normalized by its largest component.
func (db *DirectBuffer) Light3(c mgl32.Vec3) {
	max := math32.Max(math32.Max(c[0], c[1]), c[2])
	if max == 0 {
		db.Color(0, 0, 0)
		return
	}
	db.Color(c[0]/max, c[1]/max, c[2]/max)
}

func (db *DirectBuffer) Vert(pos mgl32.Vec3) {
	var normal mgl32.Vec3
	if db.shaded {
		normal = db.normal
	}
	db.data = append(db.data, pos[0], pos[1], pos[2], db.color[0], db.color[1], db.color[2], normal[0], normal[1], normal[2])
}

// A--B
// | /
// C
func (db *DirectBuffer) Tri(a, b, c mgl32.Vec3) {
	if db.shaded && db.autoShade {
		ab := b.Sub(a)
		ac := c.Sub(a)
		db.normal = ab.Cross(ac).Normalize()
	}
	db.Vert(a)
	db.Vert(c)
	db.Vert(b)
}

// A--B
// |  |
// C--D
func (db *DirectBuffer) Quad(a, b, c, d mgl32.Vec3) {
	db.Tri(a, b, c)
	db.Tri(d, c, b)
}

// Plane is a quad facing n, centered at c with half extent r.
func (db *DirectBuffer) Plane(c, n mgl32.Vec3, r float32) {
	db.normal = n.Normalize()
	u := libutil.Perpendicular(n).Normalize().Mul(r)
	v := db.normal.Cross(u)
	db.Quad(c.Sub(u).Add(v), c.Add(u).Add(v), c.Sub(u).Sub(v), c.Add(u).Sub(v))
}

func (db *DirectBuffer) circleSides(r float32) int {
	return 24 + (int)(0.6*r)
}

// center, radius
func (db *DirectBuffer) UvSphere(c mgl32.Vec3, r float32) {
	db.autoShade = true
	rings, segments := db.circleSides(r)/2, db.circleSides(r)

	dTheta := math32.Pi / float32(rings)
	dPhi := -math32.Pi / float32(segments)

	prevRing := make([]mgl32.Vec3, segments)
	currRing := make([]mgl32.Vec3, segments)

	for ring := 0; ring < rings+1; ring++ {
		theta := float32(ring) * dTheta
		for segment := 0; segment < segments; segment++ {
			phi := 2 * float32(segment) * dPhi

			x := r * math32.Sin(theta) * math32.Cos(phi)
			y := r * math32.Cos(theta)
			z := r * math32.Sin(theta) * math32.Sin(phi)
			currRing[segment] = c.Add(mgl32.Vec3{x, y, z})

			if segment > 0 && ring > 0 {
				db.Quad(currRing[segment-1], currRing[segment], prevRing[segment-1], prevRing[segment])
			}
		}
		if ring > 0 {
			db.Quad(currRing[segments-1], currRing[0], prevRing[segments-1], prevRing[0])
		}
		currRing, prevRing = prevRing, currRing
	}
	db.autoShade = false
}

// Cube is an axis aligned box centered at c with half extent r.
func (db *DirectBuffer) Cube(c mgl32.Vec3, r float32) {
	axes := []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for _, n := range axes {
		db.Plane(c.Add(n.Mul(r)), n, r)
		db.Plane(c.Sub(n.Mul(r)), n.Mul(-1), r)
	}
}

// Draw uploads the collected vertices and draws them with the bound program.
func (db *DirectBuffer) Draw() {
	if len(db.data) == 0 {
		return
	}

	if db.vbo.Grow(len(db.data) * 4) {
		db.vao.BindBuffer(0, db.vbo, 0, directVertexSize)
	}
	db.vbo.Write(0, db.data)

	db.vao.Bind()
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(db.data)/9))

	db.Clear()
}

func (db *DirectBuffer) Clear() {
	db.data = db.data[0:0]
}

func (db *DirectBuffer) Delete() {
	db.vao.Delete()
	db.vbo.Delete()
}
