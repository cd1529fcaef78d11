package libutil

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	Rad2Deg = float32(180 / math.Pi)
	Deg2Rad = float32(math.Pi / 180)
)

// ScaleDimension returns floor(size / divisor). Results that are negative,
// not finite or out of int range become 0, so a bad divisor yields an empty target.
func ScaleDimension(size int, divisor float32) int {
	v := math32.Floor(float32(size) / divisor)
	if math32.IsNaN(v) || math32.IsInf(v, 0) || v <= 0 || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

// https://math.stackexchange.com/a/1681815/1014081
func Perpendicular(v mgl32.Vec3) mgl32.Vec3 {
	lx := v[0] * v[0]
	ly := v[1] * v[1]
	lz := v[2] * v[2]

	smallest := lx
	index := 0
	if smallest > ly {
		smallest = ly
		index = 1
	}
	if smallest > lz {
		index = 2
	}
	e := mgl32.Vec3{}
	e[index] = 1
	return v.Cross(e)
}

func Clamp(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}
